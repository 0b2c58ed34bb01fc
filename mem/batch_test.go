package mem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oneHitIndex returns a single perfect SMEM covering the whole query on its
// first Next call, then nothing.
type oneHitIndex struct {
	rbeg int64
}

func (o oneHitIndex) SMEM1(query []byte, start, maxLen, minIntv int) (int, []SMEM) {
	return len(query), []SMEM{{QBeg: start, QEnd: len(query), SALo: 0, Occ: 1}}
}

func (o oneHitIndex) SA(rank int64) int64 { return o.rbeg }

func TestProcessBatchAlignsEachReadIndependently(t *testing.T) {
	opts := testOpts()
	opts.NThreads = 2
	idx := oneHitIndex{rbeg: 1000}
	ref := sliceRef{data: make([]byte, 2000)}
	sw := flatSW{perBase: 1}

	reads := []Read{
		{Name: "r1", Seq: make([]byte, 30)},
		{Name: "r2", Seq: make([]byte, 30)},
		{Name: "r3", Seq: make([]byte, 30)},
	}

	results, err := ProcessBatch(context.Background(), opts, idx, ref, sw, reads)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		require.NotEmpty(t, r.Regions, "read %d should have aligned", i)
		for _, a := range r.Regions {
			assert.Equal(t, -1, a.Secondary, "phase 2 keeps primaries only")
		}
	}
}

func TestProcessBatchEmptyBatch(t *testing.T) {
	opts := testOpts()
	idx := oneHitIndex{rbeg: 0}
	ref := sliceRef{data: make([]byte, 10)}
	sw := flatSW{perBase: 1}

	results, err := ProcessBatch(context.Background(), opts, idx, ref, sw, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

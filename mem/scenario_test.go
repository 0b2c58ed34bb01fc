package mem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteFMIndex is a correctness-only, non-indexed stand-in for a real
// FM-index: SMEM1 finds the longest exact match of query[start:] anywhere in
// ref by brute-force substring search. It exists only to exercise C1-C5
// end to end against the scenarios of spec.md §8; a real FM-index's
// construction is out of scope for this package.
type bruteFMIndex struct {
	ref     []byte
	batches [][]int64
}

const batchStride = 1 << 20

func (b *bruteFMIndex) SMEM1(query []byte, start, maxLen, minIntv int) (int, []SMEM) {
	best := 0
	var positions []int64
	for l := 1; start+l <= len(query) && l <= maxLen; l++ {
		pos := findAll(b.ref, query[start:start+l])
		if len(pos) == 0 {
			break
		}
		best = l
		positions = pos
	}
	if best == 0 {
		return start + 1, nil
	}
	id := len(b.batches)
	b.batches = append(b.batches, positions)
	return start + best, []SMEM{{QBeg: start, QEnd: start + best, SALo: int64(id) * batchStride, Occ: int64(len(positions))}}
}

func (b *bruteFMIndex) SA(rank int64) int64 {
	return b.batches[rank/batchStride][rank%batchStride]
}

func findAll(ref, pat []byte) []int64 {
	var out []int64
	for i := 0; i+len(pat) <= len(ref); i++ {
		if matchAt(ref, pat, i) {
			out = append(out, int64(i))
		}
	}
	return out
}

func matchAt(ref, pat []byte, at int) bool {
	for i, c := range pat {
		if ref[at+i] != c {
			return false
		}
	}
	return true
}

func encodeBases(s string) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		switch c {
		case 'A':
			out[i] = 0
		case 'C':
			out[i] = 1
		case 'G':
			out[i] = 2
		case 'T':
			out[i] = 3
		default:
			out[i] = 4
		}
	}
	return out
}

func complementCodes(codes []byte) []byte {
	out := make([]byte, len(codes))
	for i, c := range codes {
		if c < 4 {
			out[i] = 3 - c
		} else {
			out[i] = 4
		}
	}
	return out
}

func reverseComplementCodes(codes []byte) []byte {
	rc := complementCodes(codes)
	return reverseBytes(rc)
}

// exactSW is an SW stub that extends only over the leading bases where query
// and ref agree, at a fixed per-base score, stopping at the first mismatch.
type exactSW struct {
	perBase int
}

func (e exactSW) Extend(query, ref []byte, mat ScoringMatrix, qOpen, qExt, band, h0 int) (int, int, int) {
	n := 0
	for n < len(query) && n < len(ref) && query[n] == ref[n] {
		n++
	}
	return n, n, h0 + n*e.perBase
}

func (e exactSW) Global(query, ref []byte, mat ScoringMatrix, qOpen, qExt, band int) (int, []CigarOp) {
	panic("not used by Extend")
}

// scenarioRef is a 200-base non-repeating synthetic reference (fixed, not
// randomly generated at test time, so the suite is deterministic).
const scenarioRef = "AAGCCCAATAAACCACTCTGACTGGCCGAATAGGGATATAGGCAACGACATGTGCGGCGACCCTTGCGACAGTGACGCTTTCGCCGTTGCCTAAACCTATTTGAAGGAGTCTAGCAGCCGCAGTAAGGCACAATACCTCGTCCGTGTTACCAGACCAAACAAGACGTCCTCTTCAATGTTTAAATGACCCTCTCGTCATA"

func scenarioOpts() Options {
	o := DefaultOptions
	o.MinSeedLen = 5
	o.W = 100
	return o
}

func newScenarioIndex() (*bruteFMIndex, []byte, int) {
	fwd := encodeBases(scenarioRef)
	total := len(fwd)
	doubled := append(append([]byte{}, fwd...), reverseComplementCodes(fwd)...)
	return &bruteFMIndex{ref: doubled}, doubled, total
}

func TestScenarioS1PerfectForwardMatch(t *testing.T) {
	opts := scenarioOpts()
	idx, doubled, _ := newScenarioIndex()
	ref := sliceRef{data: doubled}
	sw := flatSW{perBase: opts.A}

	query := append([]byte{}, doubled[10:40]...)
	results, err := ProcessBatch(context.Background(), opts, idx, ref, sw, []Read{{Name: "s1", Seq: query}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Regions, 1)

	a := results[0].Regions[0]
	assert.Equal(t, 0, a.QB)
	assert.Equal(t, 30, a.QE)
	assert.Equal(t, 30, a.Score)
	assert.GreaterOrEqual(t, a.Mapq, 30)
	assert.Equal(t, -1, a.Secondary)
}

func TestScenarioS4RepetitiveSeedDiscarded(t *testing.T) {
	opts := scenarioOpts()
	opts.MaxOcc = 3 // a 4th occurrence is already "too repetitive" for this tiny index
	idx := &bruteFMIndex{}
	// A 6-base pattern planted 4 times in a small reference.
	idx.ref = append(idx.ref, encodeBases("AACCGGAACCGGAACCGGAACCGG")...)
	ref := sliceRef{data: idx.ref}
	sw := flatSW{perBase: opts.A}

	query := encodeBases("AACCGG")
	results, err := ProcessBatch(context.Background(), opts, idx, ref, sw, []Read{{Name: "s4", Seq: query}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Regions, "a seed with more occurrences than max_occ must be discarded")
}

func TestScenarioS5ChimericQueryYieldsTwoPrimaries(t *testing.T) {
	opts := scenarioOpts()
	idx, doubled, _ := newScenarioIndex()
	ref := sliceRef{data: doubled}
	// flatSW would extend each half's seed across the other half, making the
	// two regions overlap fully; exactSW stops at the junction mismatch.
	sw := exactSW{perBase: opts.A}

	half1 := append([]byte{}, doubled[20:45]...)
	half2 := append([]byte{}, doubled[150:175]...)
	query := append(append([]byte{}, half1...), half2...)

	results, err := ProcessBatch(context.Background(), opts, idx, ref, sw, []Read{{Name: "s5", Seq: query}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Regions, 2, "two disjoint windows should chain and extend into two separate regions")
	for _, a := range results[0].Regions {
		assert.Equal(t, -1, a.Secondary)
	}
}

func TestScenarioS6ReverseStrandMatch(t *testing.T) {
	opts := scenarioOpts()
	idx, doubled, total := newScenarioIndex()
	ref := sliceRef{data: doubled}
	sw := flatSW{perBase: opts.A}

	fwdWindow := doubled[10:40]
	query := reverseComplementCodes(fwdWindow)

	results, err := ProcessBatch(context.Background(), opts, idx, ref, sw, []Read{{Name: "s6", Seq: query}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Regions, 1)

	a := results[0].Regions[0]
	assert.GreaterOrEqual(t, a.RB, int64(total), "a reverse-strand hit must land in the mirrored half of the doubled coordinate space")
	assert.Equal(t, -1, a.Secondary)
}

package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortAndDedupOrdersByScoreThenPosition(t *testing.T) {
	regions := []AlignmentRegion{
		{Score: 50, RB: 200, QB: 0},
		{Score: 80, RB: 100, QB: 0},
		{Score: 80, RB: 50, QB: 5},
	}
	out := SortAndDedup(regions)
	require.Len(t, out, 3)
	assert.Equal(t, 80, out[0].Score)
	assert.Equal(t, int64(50), out[0].RB)
	assert.Equal(t, 80, out[1].Score)
	assert.Equal(t, int64(100), out[1].RB)
	assert.Equal(t, 50, out[2].Score)
}

func TestSortAndDedupDropsExactDuplicates(t *testing.T) {
	regions := []AlignmentRegion{
		{Score: 80, RB: 100, QB: 0, SeedCov: 10},
		{Score: 80, RB: 100, QB: 0, SeedCov: 99}, // same (score, rb, qb): a duplicate
		{Score: 40, RB: 500, QB: 0},
	}
	out := SortAndDedup(regions)
	require.Len(t, out, 2)
	assert.Equal(t, 10, out[0].SeedCov, "the first of a run of duplicates is kept")
}

func TestMarkPrimaryFlagsSignificantlyOverlappingRegionAsSecondary(t *testing.T) {
	opts := testOpts()
	opts.MaskLevel = 0.5
	regions := []AlignmentRegion{
		{Score: 100, QB: 0, QE: 100},
		{Score: 60, QB: 10, QE: 90}, // 80bp overlap out of 80bp minlen: fully dominated
	}
	MarkPrimary(opts, regions)
	assert.Equal(t, -1, regions[0].Secondary)
	assert.Equal(t, 0, regions[1].Secondary)
	assert.Equal(t, 60, regions[0].Sub)
}

func TestMarkPrimaryKeepsNonOverlappingRegionsPrimary(t *testing.T) {
	opts := testOpts()
	opts.MaskLevel = 0.5
	regions := []AlignmentRegion{
		{Score: 100, QB: 0, QE: 50},
		{Score: 90, QB: 60, QE: 110},
	}
	MarkPrimary(opts, regions)
	assert.Equal(t, -1, regions[0].Secondary)
	assert.Equal(t, -1, regions[1].Secondary)
}

func TestComputeMapqIsZeroWhenSubNearlyAsGoodAsScore(t *testing.T) {
	opts := testOpts()
	a := AlignmentRegion{Score: 50, Sub: 50, QB: 0, QE: 50, RB: 0, RE: 50, SeedCov: 50}
	assert.Equal(t, 0, ComputeMapq(opts, a))
}

func TestComputeMapqIsHighForUniqueStrongHit(t *testing.T) {
	opts := testOpts()
	a := AlignmentRegion{Score: 100, Sub: 0, QB: 0, QE: 100, RB: 0, RE: 100, SeedCov: 100}
	mapq := ComputeMapq(opts, a)
	assert.Greater(t, mapq, 0)
	assert.LessOrEqual(t, mapq, 60)
}

func TestPostProcessSetsMapqOnPrimariesOnly(t *testing.T) {
	opts := testOpts()
	opts.MaskLevel = 0.5
	regions := []AlignmentRegion{
		{Score: 60, QB: 10, QE: 90, RB: 10, RE: 90, SeedCov: 80},
		{Score: 100, QB: 0, QE: 100, RB: 0, RE: 100, SeedCov: 100},
	}
	out := PostProcess(opts, regions)
	require.Len(t, out, 2)
	assert.Equal(t, 100, out[0].Score)
	assert.Equal(t, -1, out[0].Secondary)
	assert.NotZero(t, out[0].Mapq)
	assert.Equal(t, 0, out[1].Secondary)
	assert.Equal(t, 0, out[1].Mapq, "secondary regions keep mapq 0")
}

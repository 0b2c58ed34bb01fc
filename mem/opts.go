package mem

// Flag bits for Options.Flag.
const (
	// FlagPE marks a batch as paired-end. The core only implements the
	// single-end path; ProcessBatch does not read FlagPE, which is carried
	// for a caller that layers paired-end handling on top.
	FlagPE uint32 = 1 << iota
	// FlagHardClip requests hard clipping instead of soft clipping in
	// serialized output. The core does not serialize CIGARs itself; this bit
	// is carried through for a caller's serializer.
	FlagHardClip
)

// Options holds the tunables of the alignment core. Field names and defaults
// mirror the reference BWA-MEM implementation; see the doc comment on each
// field for its effect.
type Options struct {
	// A is the match score.
	A int
	// B is the mismatch penalty (applied as -B off the diagonal).
	B int
	// Q is the gap-open penalty.
	Q int
	// R is the gap-extension penalty.
	R int
	// W is the band width used during banded extension.
	W int

	// MinSeedLen is the minimum SMEM length kept by the chain builder.
	MinSeedLen int
	// MaxSeedLen is passed as maxLen to FMIndex.SMEM1 by SMEMIterator.Next;
	// any re-seeding of long SMEMs happens inside the FM-index, not here.
	MaxSeedLen int
	// MinIntv is the SMEM suffix-array-interval threshold used by the
	// FM-index's SMEM primitive.
	MinIntv int
	// MaxOcc discards SMEMs with more than this many reference occurrences.
	MaxOcc int

	// MaxChainGap caps the query/reference gap allowed when merging a seed
	// into an existing chain.
	MaxChainGap int
	// MaxIns is the maximum insert size considered by paired-end mate
	// rescue. Out of scope for the single-end core; carried for callers
	// that implement PE on top of this package.
	MaxIns int

	// MaskLevel is the query-overlap fraction above which two chains (or
	// two regions) are considered to significantly overlap.
	MaskLevel float64
	// ChainDropRatio is the weight ratio below which a chain is dominated
	// by a heavier overlapping chain and is pruned.
	ChainDropRatio float64
	// SplitFactor is the re-seeding trigger factor. No code in this package
	// reads it; it is carried for FM-index implementations that re-seed.
	SplitFactor float64

	// ChunkSize is the approximate number of input bytes per batch.
	ChunkSize int64
	// NThreads is the number of worker goroutines used by ProcessBatch.
	NThreads int

	// Flag holds FlagPE/FlagHardClip and future extension bits.
	Flag uint32
}

// DefaultOptions holds the reference BWA-MEM defaults.
var DefaultOptions = Options{
	A:              1,
	B:              4,
	Q:              6,
	R:              1,
	W:              100,
	MinSeedLen:     19,
	MaxSeedLen:     32,
	MinIntv:        10,
	MaxOcc:         10000,
	MaxChainGap:    10000,
	MaxIns:         10000,
	MaskLevel:      0.50,
	ChainDropRatio: 0.50,
	SplitFactor:    1.5,
	ChunkSize:      10000000,
	NThreads:       1,
	Flag:           0,
}

// baseAmbiguous is the 2-bit-plus-ambiguity code for an unresolved base (N).
const baseAmbiguous = 4

// ScoringMatrix is a 5x5 signed-byte match/mismatch matrix derived from
// (A, B): the diagonal holds A for the four real bases, off-diagonal cells
// among the four real bases hold -B, and the ambiguous-base row/column (index
// 4) is all zero so that an alignment touching an N neither gains nor loses
// score by itself.
type ScoringMatrix [5][5]int8

// BuildScoringMatrix derives a ScoringMatrix from opts.A and opts.B.
func BuildScoringMatrix(opts Options) ScoringMatrix {
	var m ScoringMatrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == j {
				m[i][j] = int8(opts.A)
			} else {
				m[i][j] = int8(-opts.B)
			}
		}
	}
	// Row/column 4 (ambiguous) stays zero.
	return m
}

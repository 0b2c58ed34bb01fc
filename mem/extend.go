package mem

import "math"

// PackedReference supplies decoded reference bases over an interval of the
// doubled coordinate space. Construction of the packed reference is out of
// scope for this package.
type PackedReference interface {
	// GetSeq returns the decoded bases over [lo, hi). If the requested
	// interval is invalid — it straddles the forward/reverse-complement
	// strand boundary, or runs off either end of the doubled coordinate
	// space — the returned slice's length differs from hi-lo; callers
	// must treat that as a rejection, per spec.md §4.4.
	GetSeq(lo, hi int64) []byte
}

// CigarOp is one run-length-encoded CIGAR operation.
type CigarOp struct {
	Op  byte
	Len int
}

// SWKernel is the banded Smith-Waterman collaborator used for chain
// extension and (by callers that serialize full alignments) global
// alignment. The kernel's implementation is out of scope for this package.
type SWKernel interface {
	// Extend runs a banded local extension of query against ref under mat,
	// seeded with initial score h0 and gap penalties qOpen/qExt, within the
	// given band width. It returns the consumed query length (qle), the
	// consumed reference length (tle), and the resulting score.
	Extend(query, ref []byte, mat ScoringMatrix, qOpen, qExt, band, h0 int) (qle, tle, score int)
	// Global runs a banded global alignment of query against ref under mat,
	// returning the score and CIGAR. Not called during chain extension
	// itself; part of the collaborator contract for callers that need full
	// alignments downstream.
	Global(query, ref []byte, mat ScoringMatrix, qOpen, qExt, band int) (score int, cigar []CigarOp)
}

// ChainExtender converts chains into AlignmentRegions via banded extension
// from a representative seed, per spec.md §4.4.
type ChainExtender struct {
	opts Options
	mat  ScoringMatrix
	sw   SWKernel
}

// NewChainExtender creates an extender bound to opts, its derived scoring
// matrix, and the injected SW kernel.
func NewChainExtender(opts Options, sw SWKernel) *ChainExtender {
	return &ChainExtender{opts: opts, mat: BuildScoringMatrix(opts), sw: sw}
}

// maxGap is the affine-gap-length bound used to size the reference slice
// fetched around a chain: the maximum gap length an alignment scoring at
// least 0 could still open over a flank of length l.
func maxGap(opts Options, l int) int {
	v := (float64(l)*float64(opts.A) - float64(opts.Q)) / float64(opts.R) + 1
	g := int(math.Floor(v))
	if g < 1 {
		g = 1
	}
	return g
}

// refBounds computes [rmax0, rmax1), the union over c's seeds of the
// reference slice each seed could plausibly extend into, per spec.md §4.4.
func refBounds(opts Options, c *Chain, lQuery int) (rmax0, rmax1 int64) {
	rmax0, rmax1 = math.MaxInt64, math.MinInt64
	for _, s := range c.Seeds {
		left := s.RBeg - int64(s.QBeg+maxGap(opts, s.QBeg))
		tail := lQuery - s.QBeg - s.Len
		right := s.rend() + int64(tail+maxGap(opts, tail))
		if left < rmax0 {
			rmax0 = left
		}
		if right > rmax1 {
			rmax1 = right
		}
	}
	return rmax0, rmax1
}

// Extend produces zero or more AlignmentRegions for chain c against query,
// fetching its reference flank from ref. It returns nil if the chain's
// reference slice straddles the strand boundary or is otherwise truncated
// (spec.md §7's "skip that chain silently").
func (e *ChainExtender) Extend(c *Chain, query []byte, ref PackedReference) []AlignmentRegion {
	lQuery := len(query)
	rmax0, rmax1 := refBounds(e.opts, c, lQuery)
	refSeq := ref.GetSeq(rmax0, rmax1)
	if int64(len(refSeq)) != rmax1-rmax0 {
		return nil
	}

	var regions []AlignmentRegion
	seeds := c.Seeds
	for k := 0; k < len(seeds); {
		seed := seeds[k]
		var a AlignmentRegion

		if seed.QBeg > 0 {
			qRev := reverseBytes(query[:seed.QBeg])
			rRev := reverseBytes(refSeq[:seed.RBeg-rmax0])
			qle, tle, score := e.sw.Extend(qRev, rRev, e.mat, e.opts.Q, e.opts.R, e.opts.W, seed.Len*e.opts.A)
			a.Score = score
			a.QB = seed.QBeg - qle
			a.RB = seed.RBeg - int64(tle)
		} else {
			a.Score = seed.Len * e.opts.A
			a.QB = 0
			a.RB = seed.RBeg
		}

		qe, re := seed.qend(), seed.rend()
		if qe < lQuery {
			qle, tle, score := e.sw.Extend(query[qe:], refSeq[re-rmax0:], e.mat, e.opts.Q, e.opts.R, e.opts.W, a.Score)
			a.Score = score
			a.QE = qe + qle
			a.RE = re + int64(tle)
		} else {
			a.QE = lQuery
			a.RE = re
		}

		a.SeedCov = seedCoverage(seeds, a)
		regions = append(regions, a)
		k = nextSeed(seeds, k, a)
	}
	return regions
}

// seedCoverage sums the lengths of seeds fully enclosed by region a.
func seedCoverage(seeds []Seed, a AlignmentRegion) int {
	var cov int
	for _, s := range seeds {
		if s.QBeg >= a.QB && s.qend() <= a.QE && s.RBeg >= a.RB && s.rend() <= a.RE {
			cov += s.Len
		}
	}
	return cov
}

// nextSeed advances past seed k to the next seed satisfying spec.md §4.4
// point 4: it overlaps its immediate predecessor by less than 7 bases on
// both axes, or it is not fully contained in region a. Returns len(seeds)
// if no such seed remains. Following _examples/original_source/bwamem.c's
// mem_chain2aln, "the previous seed" is a walking pointer that advances to
// seed t-1 on every iteration, not a fixed anchor at seed k: a run of
// seeds with compounding small-gap overlaps can all absorb into one region
// even when the first and last of the run don't overlap each other.
func nextSeed(seeds []Seed, k int, a AlignmentRegion) int {
	for t := k + 1; t < len(seeds); t++ {
		prev := seeds[t-1]
		s := seeds[t]
		qOverlap := overlapLen(int64(prev.QBeg), int64(prev.qend()), int64(s.QBeg), int64(s.qend()))
		rOverlap := overlapLen(prev.RBeg, prev.rend(), s.RBeg, s.rend())
		contained := s.QBeg >= a.QB && s.qend() <= a.QE && s.RBeg >= a.RB && s.rend() <= a.RE
		if (qOverlap < 7 && rOverlap < 7) || !contained {
			return t
		}
	}
	return len(seeds)
}

// overlapLen returns the length of the overlap between [aBeg,aEnd) and
// [bBeg,bEnd), or 0 if they don't overlap.
func overlapLen(aBeg, aEnd, bBeg, bEnd int64) int64 {
	lo := aBeg
	if bBeg > lo {
		lo = bBeg
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

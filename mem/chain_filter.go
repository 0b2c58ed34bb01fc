package mem

import "sort"

// ChainWeight computes the coverage weight w(c) of a chain: the chain's seed
// intervals are projected onto the query axis and the unique covered length
// is summed (merging overlaps), then the same is done on the reference axis;
// w(c) is the minimum of the two sums.
//
// This computes the two projections as genuinely independent sweeps (spec.md
// §9 Open Question (a)): the reference implementation accumulates both
// passes into the same running total using an `end` variable that the
// second (reference-axis) loop updates from query coordinates, which looks
// like a transcription bug rather than intended behavior. We implement the
// stated intended semantics instead and do not reproduce the bug.
func ChainWeight(c *Chain) int {
	return min(coverLen(c, queryAxis), coverLen(c, refAxis))
}

type axis int

const (
	queryAxis axis = iota
	refAxis
)

// coverLen sums the unique length covered by c's seeds on the given axis,
// merging overlapping seed intervals as it sweeps in seed order (seeds
// within a chain are already sorted by QBeg, and RBeg is non-decreasing, so
// a single left-to-right sweep suffices — the same single-pass merge
// technique used for BED-style interval unions).
func coverLen(c *Chain, ax axis) int {
	var w int
	var end int64 = -1 // sentinel: no interval seen yet
	for _, s := range c.Seeds {
		var beg, e int64
		if ax == queryAxis {
			beg, e = int64(s.QBeg), int64(s.qend())
		} else {
			beg, e = s.RBeg, s.rend()
		}
		switch {
		case end < 0 || beg >= end:
			w += int(e - beg)
		case e > end:
			w += int(e - end)
		}
		if e > end {
			end = e
		}
	}
	return w
}

// chainAux is the sort/prune working record for one chain, mirroring the
// reference implementation's flt_aux_t.
type chainAux struct {
	beg, end int // query-axis span of the chain's seeds
	w        int
	chain    *Chain
	sub      *Chain // first significant-overlap partner recorded against this entry
}

// FilterChains implements C3: chains are sorted by descending weight, then
// walked in that order, pruning any chain significantly dominated (on the
// query axis) by a heavier surviving chain. A chain that is pruned but was
// the first significant overlap partner recorded against a surviving chain
// is retained anyway (as that chain's sub-partner, consumed later by region
// post-processing's mapq computation), matching spec.md §4.3's "Output"
// clause.
func FilterChains(opts Options, chains []*Chain) []*Chain {
	if len(chains) == 0 {
		return nil
	}
	aux := make([]*chainAux, len(chains))
	for i, c := range chains {
		beg, end := c.qspan()
		aux[i] = &chainAux{beg: beg, end: end, w: ChainWeight(c), chain: c}
	}
	sort.SliceStable(aux, func(i, j int) bool { return aux[i].w > aux[j].w })

	kept := aux[:1]
	for i := 1; i < len(aux); i++ {
		cand := aux[i]
		dropped := false
		for _, k := range kept {
			bMax := max(k.beg, cand.beg)
			eMin := min(k.end, cand.end)
			if eMin <= bMax {
				continue // no overlap at all
			}
			minLen := min(cand.end-cand.beg, k.end-k.beg)
			if float64(eMin-bMax) < opts.MaskLevel*float64(minLen) {
				continue // overlap not significant
			}
			if k.sub == nil {
				k.sub = cand.chain
			}
			if float64(cand.w) < float64(k.w)*opts.ChainDropRatio && k.w-cand.w >= 2*opts.MinSeedLen {
				dropped = true
				break
			}
		}
		if !dropped {
			kept = append(kept, cand)
		}
	}

	keepSet := make(map[*Chain]bool, 2*len(kept))
	var out []*Chain
	for _, k := range kept {
		if !keepSet[k.chain] {
			keepSet[k.chain] = true
			out = append(out, k.chain)
		}
		if k.sub != nil && !keepSet[k.sub] {
			keepSet[k.sub] = true
			out = append(out, k.sub)
		}
	}
	return out
}

package mem

import "github.com/biogo/store/llrb"

// Chain is a co-linear group of seeds, ordered by increasing QBeg (and, per
// the chain's growth rule, non-decreasing RBeg). AnchorPos is the reference
// start of the chain's first seed — the key the chain builder's ordered
// container is keyed on.
type Chain struct {
	Seeds     []Seed
	AnchorPos int64
}

// Compare orders chains by AnchorPos, satisfying llrb.Comparable. Ties (two
// chains whose first seed starts at the same reference position) collapse
// onto a single tree node, mirroring the reference implementation's
// key-only-keyed balanced tree.
func (c *Chain) Compare(other llrb.Comparable) int {
	o := other.(*Chain)
	switch {
	case c.AnchorPos < o.AnchorPos:
		return -1
	case c.AnchorPos > o.AnchorPos:
		return 1
	default:
		return 0
	}
}

func (c *Chain) first() Seed { return c.Seeds[0] }
func (c *Chain) last() Seed  { return c.Seeds[len(c.Seeds)-1] }

// qspan returns the chain's query-axis span [beg, end).
func (c *Chain) qspan() (beg, end int) {
	return c.first().QBeg, c.last().qend()
}

// ChainBuilder groups seeds produced from SMEM occurrences into co-linear
// chains, maintaining an llrb.Tree of *Chain keyed by AnchorPos so that each
// incoming seed can be matched against its nearest (floor) chain in
// O(log n).
type ChainBuilder struct {
	opts Options
	tree llrb.Tree
}

// NewChainBuilder creates a chain builder for a single read; call Reset (or
// construct a fresh one) before each read.
func NewChainBuilder(opts Options) *ChainBuilder {
	return &ChainBuilder{opts: opts}
}

// Reset clears the builder's chain set so it can be reused for the next
// read.
func (b *ChainBuilder) Reset() {
	b.tree = llrb.Tree{}
}

// AddSMEM folds one SMEM batch entry into the chain set: seeds shorter than
// MinSeedLen or with more than MaxOcc occurrences are discarded (repetitive),
// and every surviving occurrence is resolved via idx.SA and merged or
// inserted as a new chain.
func (b *ChainBuilder) AddSMEM(m SMEM, idx FMIndex) {
	if m.len() < b.opts.MinSeedLen || m.Occ > int64(b.opts.MaxOcc) {
		return
	}
	for i := int64(0); i < m.Occ; i++ {
		rpos := idx.SA(m.SALo + i)
		b.addSeed(Seed{QBeg: m.QBeg, RBeg: rpos, Len: m.len()})
	}
}

func (b *ChainBuilder) addSeed(s Seed) {
	if b.tree.Len() == 0 {
		b.tree.Insert(&Chain{Seeds: []Seed{s}, AnchorPos: s.RBeg})
		return
	}
	probe := &Chain{AnchorPos: s.RBeg}
	floor := b.tree.Floor(probe)
	if floor == nil || !testAndMerge(b.opts, floor.(*Chain), s) {
		b.tree.Insert(&Chain{Seeds: []Seed{s}, AnchorPos: s.RBeg})
	}
}

// testAndMerge implements spec.md §4.2's test-and-merge: a seed fully
// contained in c's existing span is dropped (treated as merged); a seed that
// extends c within the band/gap bounds is appended; otherwise the seed does
// not belong to c.
func testAndMerge(opts Options, c *Chain, p Seed) bool {
	last := c.last()
	first := c.first()
	if first.QBeg <= p.QBeg && p.qend() <= last.qend() &&
		first.RBeg <= p.RBeg && p.rend() <= last.rend() {
		return true // contained; nothing to do
	}
	x := int64(p.QBeg - last.QBeg) // always >= 0 by iteration order
	y := p.RBeg - last.RBeg
	w := int64(opts.W)
	gap := int64(opts.MaxChainGap)
	if y >= 0 && absInt64(x-y) <= w &&
		x-int64(last.Len) < gap && y-int64(last.Len) < gap {
		c.Seeds = append(c.Seeds, p)
		return true
	}
	return false
}

// Chains returns the chain set in key (AnchorPos) order.
func (b *ChainBuilder) Chains() []*Chain {
	out := make([]*Chain, 0, b.tree.Len())
	b.tree.Do(func(e llrb.Comparable) (done bool) {
		out = append(out, e.(*Chain))
		return false
	})
	return out
}

func absInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

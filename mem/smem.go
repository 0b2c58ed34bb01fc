package mem

// FMIndex is the collaborator that supplies super-maximal exact matches and
// suffix-array lookups over the reference. Construction of the index is out
// of scope for this package.
type FMIndex interface {
	// SMEM1 searches for SMEMs starting at or covering query[start], up to
	// length maxLen, discarding internal candidates whose suffix-array
	// interval is narrower than minIntv. It returns the matches found and
	// the next query offset to resume scanning from (one past the end of
	// the longest match found).
	SMEM1(query []byte, start, maxLen, minIntv int) (next int, matches []SMEM)
	// SA resolves a suffix-array rank to a reference position in the
	// doubled coordinate space.
	SA(rank int64) int64
}

// SMEMIterator lazily yields SMEM batches for a single query, one pass only.
// It is not safe for concurrent use; callers processing many reads create
// one iterator per read (or reuse one after calling SetQuery again).
type SMEMIterator struct {
	index FMIndex
	query []byte
	start int
}

// NewSMEMIterator creates an iterator over idx. Call SetQuery before Next.
func NewSMEMIterator(idx FMIndex) *SMEMIterator {
	return &SMEMIterator{index: idx}
}

// SetQuery resets the iterator's cursor to the start of q. q is the
// 2-bit-plus-ambiguity encoded query (bases 0-3, 4 for ambiguous).
func (it *SMEMIterator) SetQuery(q []byte) {
	it.query = q
	it.start = 0
}

// Next advances the cursor past any ambiguous bases and returns the next
// batch of SMEMs starting at or covering the first non-ambiguous base found,
// per the FM-index's SMEM1 contract. It returns ok=false once the query is
// exhausted.
func (it *SMEMIterator) Next(maxLen, minIntv int) (matches []SMEM, ok bool) {
	n := len(it.query)
	if it.start < 0 || it.start >= n {
		return nil, false
	}
	for it.start < n && it.query[it.start] >= baseAmbiguous {
		it.start++
	}
	if it.start == n {
		return nil, false
	}
	next, matches := it.index.SMEM1(it.query, it.start, maxLen, minIntv)
	it.start = next
	return matches, true
}

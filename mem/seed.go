package mem

// Seed is one exact match between the query and the reference: query offset
// QBeg, reference position RBeg (in the doubled forward+reverse-complement
// coordinate space), and length Len. Len must be > 0.
type Seed struct {
	QBeg int
	RBeg int64
	Len  int
}

// qend returns the exclusive query end of the seed.
func (s Seed) qend() int { return s.QBeg + s.Len }

// rend returns the exclusive reference end of the seed.
func (s Seed) rend() int64 { return s.RBeg + int64(s.Len) }

// SMEM is one super-maximal exact match reported by the FM-index's SMEM
// primitive: the query interval [QBeg, QEnd) and the suffix-array range
// [SALo, SALo+Occ) of reference occurrences.
type SMEM struct {
	QBeg int
	QEnd int
	SALo int64
	Occ  int64
}

// len returns the query length spanned by the SMEM.
func (m SMEM) len() int { return m.QEnd - m.QBeg }

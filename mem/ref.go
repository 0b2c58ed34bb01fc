package mem

import "github.com/grailbio/hts/sam"

// ContigInfo describes one contig's span within the forward half of the
// doubled coordinate space C1-C4 operate over.
type ContigInfo struct {
	Ref    *sam.Reference
	Offset int64
	Length int64
}

// Annotator maps a position in the doubled coordinate space (forward half
// followed by its reverse-complement mirror, the layout C1's SA lookups and
// C4's reference fetches both assume) back to the contig and strand-local
// offset it falls in.
type Annotator interface {
	PosToContig(pos int64) (contig ContigInfo, localPos int64, reverse bool, ok bool)
}

// RefAnnotator is the Annotator built from a SAM header's reference list, in
// the order a packed-reference builder (out of scope here) laid the doubled
// coordinate space out in.
type RefAnnotator struct {
	contigs []ContigInfo
	total   int64 // length of the forward half
}

// NewRefAnnotator builds an annotator from refs in header order, the same
// list encoding/converter/convert.go resolves ref IDs against via
// header.Refs().
func NewRefAnnotator(refs []*sam.Reference) *RefAnnotator {
	contigs := make([]ContigInfo, len(refs))
	var offset int64
	for i, r := range refs {
		l := int64(r.Len())
		contigs[i] = ContigInfo{Ref: r, Offset: offset, Length: l}
		offset += l
	}
	return &RefAnnotator{contigs: contigs, total: offset}
}

// PosToContig resolves pos. It fails closed (ok=false) for any position
// outside [0, 2*total).
func (a *RefAnnotator) PosToContig(pos int64) (contig ContigInfo, localPos int64, reverse bool, ok bool) {
	if pos < 0 || pos >= 2*a.total {
		return ContigInfo{}, 0, false, false
	}
	fwdPos := pos
	if pos >= a.total {
		reverse = true
		fwdPos = 2*a.total - 1 - pos
	}
	lo, hi := 0, len(a.contigs)
	for lo < hi {
		mid := (lo + hi) / 2
		if a.contigs[mid].Offset+a.contigs[mid].Length <= fwdPos {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == len(a.contigs) {
		return ContigInfo{}, 0, false, false
	}
	c := a.contigs[lo]
	return c, fwdPos - c.Offset, reverse, true
}

package main

import (
	"io"

	"github.com/grailbio/hts/sam"

	"github.com/Androniki/bwa/mem"
)

// samWriter serializes primary AlignmentRegions as SAM records, resolving
// doubled-coordinate-space positions to contig/offset via ann.
type samWriter struct {
	w   *sam.Writer
	ann mem.Annotator
}

func newSAMWriter(w io.Writer, ann mem.Annotator) *samWriter {
	header, err := sam.NewHeader(nil, nil)
	if err != nil {
		panic(err)
	}
	sw, err := sam.NewWriter(w, header, 0)
	if err != nil {
		panic(err)
	}
	return &samWriter{w: sw, ann: ann}
}

// WriteRead emits one SAM record per primary region of r's alignment result.
// A read with no surviving regions is emitted unmapped, matching the
// reference tool's behavior for reads that fail to seed or extend.
func (s *samWriter) WriteRead(r mem.Read, regions []mem.AlignmentRegion) error {
	if len(regions) == 0 {
		rec := sam.GetFromFreePool()
		rec.Name = r.Name
		rec.Flags = sam.Unmapped
		rec.Pos = -1
		rec.MapQ = 0
		return s.w.Write(rec)
	}
	for _, a := range regions {
		contig, localPos, reverse, ok := s.ann.PosToContig(a.RB)
		rec := sam.GetFromFreePool()
		rec.Name = r.Name
		rec.MapQ = byte(a.Mapq)
		if !ok {
			rec.Flags = sam.Unmapped
			rec.Pos = -1
		} else {
			rec.Ref = contig.Ref
			rec.Pos = int(localPos)
			if reverse {
				rec.Flags |= sam.Reverse
			}
		}
		if err := s.w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op placeholder for callers that defer it unconditionally;
// sam.Writer has no internal buffering to flush explicitly.
func (s *samWriter) Flush() {}

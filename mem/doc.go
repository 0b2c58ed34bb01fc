// Package mem implements the per-read alignment core of a BWA-MEM-style
// short-read aligner: SMEM seeding over a caller-supplied FM-index, seed
// chaining, chain filtering, banded chain-to-alignment extension, and
// alignment deduplication/primary selection. Batch scheduling across worker
// goroutines is provided by ProcessBatch.
//
// The package does not build FM-indexes or packed references, does not read
// or parse sequence files, and does not implement the Smith-Waterman kernel
// itself; all three are taken as collaborator interfaces (FMIndex,
// PackedReference, SWKernel).
package mem

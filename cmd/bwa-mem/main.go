package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/Androniki/bwa/mem"
)

// Index bundles the collaborators this package does not build itself: the
// FM-index, the packed reference, and the Smith-Waterman kernel that
// mem.ProcessBatch takes, plus the annotator the SAM writer uses. loadIndex
// is where they are resolved from an external index directory; no loader is
// configured, so it always returns an error.
type Index struct {
	FM  mem.FMIndex
	Ref mem.PackedReference
	SW  mem.SWKernel
	Ann mem.Annotator
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: bwa-mem [flags] <index-dir> <reads.fastq[.gz]>

Aligns single-end FASTQ reads against a prebuilt FM-index, printing SAM
records to stdout.

`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	opts := mem.DefaultOptions

	flag.IntVar(&opts.A, "A", opts.A, "matching score")
	flag.IntVar(&opts.B, "B", opts.B, "mismatch penalty")
	flag.IntVar(&opts.Q, "O", opts.Q, "gap open penalty")
	flag.IntVar(&opts.R, "E", opts.R, "gap extension penalty")
	flag.IntVar(&opts.W, "w", opts.W, "band width")
	flag.IntVar(&opts.MinSeedLen, "k", opts.MinSeedLen, "minimum seed length")
	flag.IntVar(&opts.MaxSeedLen, "max-seed-len", opts.MaxSeedLen, "maximum SMEM length before re-seeding")
	flag.IntVar(&opts.MinIntv, "min-intv", opts.MinIntv, "minimum SA interval for a seed")
	flag.IntVar(&opts.MaxOcc, "c", opts.MaxOcc, "discard a seed with more than this many occurrences")
	flag.IntVar(&opts.MaxChainGap, "max-chain-gap", opts.MaxChainGap, "maximum gap between seeds merged into one chain")
	flag.Float64Var(&opts.MaskLevel, "mask-level", opts.MaskLevel, "mask level for chain/region filtering")
	flag.Float64Var(&opts.ChainDropRatio, "drop-ratio", opts.ChainDropRatio, "minimum weight ratio to keep a dominated chain")
	flag.Int64Var(&opts.ChunkSize, "K", opts.ChunkSize, "input chunk size in bytes")
	flag.IntVar(&opts.NThreads, "t", runtime.NumCPU(), "number of threads")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	flag.Parse()
	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	indexDir, readsPath := flag.Arg(0), flag.Arg(1)

	idx, err := loadIndex(indexDir)
	if err != nil {
		log.Fatalf("bwa-mem: load index %s: %v", indexDir, err)
	}

	scanner, closer, err := openFASTQ(readsPath)
	if err != nil {
		log.Fatalf("bwa-mem: open %s: %v", readsPath, err)
	}
	defer closer.Close()

	w := newSAMWriter(os.Stdout, idx.Ann)
	defer w.Flush()

	start := time.Now()
	nReads := 0
	for {
		batch, done := nextBatch(scanner, opts.ChunkSize)
		if len(batch) > 0 {
			results, err := mem.ProcessBatch(ctx, opts, idx.FM, idx.Ref, idx.SW, batch)
			if err != nil {
				log.Fatalf("bwa-mem: process batch: %v", err)
			}
			for i, r := range results {
				if err := w.WriteRead(batch[i], r.Regions); err != nil {
					log.Fatalf("bwa-mem: write output: %v", err)
				}
			}
			nReads += len(batch)
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("bwa-mem: %s: %v", readsPath, err)
	}
	log.Printf("bwa-mem: aligned %d reads in %s", nReads, time.Since(start))
}

// nextBatch accumulates reads from scanner until their encoded sequence
// bytes reach budget, matching C6's chunk_size batching.
func nextBatch(scanner *fastqScanner, budget int64) ([]mem.Read, bool) {
	var batch []mem.Read
	var size int64
	for size < budget {
		r, ok := scanner.Scan()
		if !ok {
			return batch, true
		}
		batch = append(batch, r)
		size += int64(len(r.Seq))
	}
	return batch, false
}

package mem

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Read is one query sequence in a batch: Seq is 2-bit-plus-ambiguity encoded
// (bases 0-3, 4 for ambiguous), matching the FMIndex/SMEMIterator contract.
type Read struct {
	Name string
	Seq  []byte
}

// ReadResult holds C5's finished region set for one read of a batch.
type ReadResult struct {
	Regions []AlignmentRegion
}

// ProcessBatch runs C1 through C5 over every read in reads and returns one
// ReadResult per read, in input order. Per spec.md §4.6 it schedules two
// phases across opts.NThreads threads separated by a full barrier: phase 1
// (C1-C5, populating regs[i]) and phase 2 (serialization-ready
// post-processing of regs[i], here: trimming to primaries only, matching
// the source's "serialize primaries only, secondaries skipped by the
// core"). traverse.Each is called with the thread count, not the read
// count, so each job computes its own stride-partitioned shard of reads —
// the same shape as pileup/snp/pileup.go's per-shard fan-out
// (traverse.Each(parallelism, func(jobIdx int) error {...})), adapted from
// a block shard to the stride partition spec.md §4.6 calls for.
func ProcessBatch(ctx context.Context, opts Options, idx FMIndex, ref PackedReference, sw SWKernel, reads []Read) ([]ReadResult, error) {
	n := len(reads)
	results := make([]ReadResult, n)

	t := opts.NThreads
	if t < 1 {
		t = 1
	}
	if t > n {
		t = n
	}
	if t == 0 {
		return results, nil
	}

	log.Printf("mem: batch of %d reads, %d threads", n, t)

	extender := NewChainExtender(opts, sw)
	if err := traverse.Each(t, func(jobIdx int) error {
		for i := jobIdx; i < n; i += t {
			results[i].Regions = alignOne(opts, idx, ref, extender, reads[i])
		}
		return nil
	}); err != nil {
		return nil, errors.E(err, "mem.ProcessBatch: phase 1")
	}

	if err := traverse.Each(t, func(jobIdx int) error {
		for i := jobIdx; i < n; i += t {
			results[i].Regions = primariesOnly(results[i].Regions)
		}
		return nil
	}); err != nil {
		return nil, errors.E(err, "mem.ProcessBatch: phase 2")
	}

	return results, nil
}

// alignOne runs the strictly sequential C1->C5 pipeline for a single read.
func alignOne(opts Options, idx FMIndex, ref PackedReference, extender *ChainExtender, r Read) []AlignmentRegion {
	it := NewSMEMIterator(idx)
	it.SetQuery(r.Seq)

	builder := NewChainBuilder(opts)
	for {
		matches, ok := it.Next(opts.MaxSeedLen, opts.MinIntv)
		if !ok {
			break
		}
		for _, m := range matches {
			builder.AddSMEM(m, idx)
		}
	}

	chains := FilterChains(opts, builder.Chains())

	var regions []AlignmentRegion
	for _, c := range chains {
		regions = append(regions, extender.Extend(c, r.Seq, ref)...)
	}
	return PostProcess(opts, regions)
}

// primariesOnly drops secondary regions, matching phase 2's "secondaries
// skipped by the core" rule.
func primariesOnly(regions []AlignmentRegion) []AlignmentRegion {
	out := regions[:0]
	for _, a := range regions {
		if a.Secondary == -1 {
			out = append(out, a)
		}
	}
	return out
}

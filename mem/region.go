package mem

import (
	"math"
	"sort"
)

// mapqCoef is BWA-MEM's empirical mapping-quality scaling constant.
const mapqCoef = 30.0

// AlignmentRegion is one local alignment produced by chain extension: a
// half-open query interval [QB,QE) and reference interval [RB,RE), the
// extended local-alignment Score, SeedCov (summed length of chain seeds
// fully enclosed by the region), Sub/SubN (best and count of comparable
// suboptimal overlapping regions, set by MarkPrimary), CSub (a cross-chain
// suboptimal score set by callers outside this single-end core, e.g. a
// paired-end composition layer — left at 0 here), Secondary (-1 if primary,
// else the index of its primary), and Mapq (set by ComputeMapq, primaries
// only).
type AlignmentRegion struct {
	QB, QE    int
	RB, RE    int64
	Score     int
	SeedCov   int
	Sub       int
	SubN      int
	CSub      int
	Secondary int
	Mapq      int
}

// SortAndDedup sorts regions by (-Score, RB, QB) and drops all but the first
// of any run of regions sharing that key, per spec.md §4.5. It mutates and
// returns a prefix of the input slice.
func SortAndDedup(regions []AlignmentRegion) []AlignmentRegion {
	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i], regions[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RB != b.RB {
			return a.RB < b.RB
		}
		return a.QB < b.QB
	})
	out := regions[:0]
	for i, r := range regions {
		if i > 0 {
			p := out[len(out)-1]
			if p.Score == r.Score && p.RB == r.RB && p.QB == r.QB {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// MarkPrimary implements spec.md §4.5's primary/secondary marking pass.
// regions must already be sorted by SortAndDedup (descending score).
func MarkPrimary(opts Options, regions []AlignmentRegion) {
	if len(regions) == 0 {
		return
	}
	for i := range regions {
		regions[i].Sub = 0
		regions[i].Secondary = -1
	}
	tmp := max(opts.A+opts.B, opts.Q+opts.R)
	primaries := []int{0}
	for i := 1; i < len(regions); i++ {
		matched := -1
		for _, j := range primaries {
			bMax := max(regions[j].QB, regions[i].QB)
			eMin := min(regions[j].QE, regions[i].QE)
			if eMin <= bMax {
				continue
			}
			minLen := min(regions[i].QE-regions[i].QB, regions[j].QE-regions[j].QB)
			if float64(eMin-bMax) < opts.MaskLevel*float64(minLen) {
				continue
			}
			if regions[j].Sub == 0 {
				regions[j].Sub = regions[i].Score
			}
			if regions[j].Score-regions[i].Score <= tmp {
				regions[j].SubN++
			}
			matched = j
			break
		}
		if matched < 0 {
			primaries = append(primaries, i)
		} else {
			regions[i].Secondary = matched
		}
	}
}

// ComputeMapq computes spec.md §4.5's approximate mapping quality for a
// primary region a.
func ComputeMapq(opts Options, a AlignmentRegion) int {
	sub := a.Sub
	if sub == 0 {
		sub = opts.MinSeedLen * opts.A
	}
	if a.CSub > sub {
		sub = a.CSub
	}
	if sub >= a.Score {
		return 0
	}
	l := max(a.QE-a.QB, int(a.RE-a.RB))
	seedCov := a.SeedCov
	if seedCov < 1 {
		seedCov = 1
	}
	var mapq int
	if a.Score != 0 {
		mapq = int(mapqCoef*(1-float64(sub)/float64(a.Score))*math.Log(float64(seedCov)) + 0.499)
	}
	identity := 1 - float64(l*opts.A-a.Score)/float64(opts.A+opts.B)/float64(l)
	if identity < 0.95 {
		mapq = int(float64(mapq)*identity*identity + 0.499)
	}
	if a.SubN > 0 {
		mapq -= int(4.343*math.Log(float64(a.SubN)) + 0.499)
	}
	if mapq > 60 {
		mapq = 60
	}
	if mapq < 0 {
		mapq = 0
	}
	return mapq
}

// PostProcess runs C5 end to end: sort+dedup, primary marking, and mapq for
// every primary. Secondary regions keep Mapq 0.
func PostProcess(opts Options, regions []AlignmentRegion) []AlignmentRegion {
	regions = SortAndDedup(regions)
	MarkPrimary(opts, regions)
	for i := range regions {
		if regions[i].Secondary == -1 {
			regions[i].Mapq = ComputeMapq(opts, regions[i])
		}
	}
	return regions
}

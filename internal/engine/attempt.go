package engine

import (
	"context"
	"math/rand"

	"github.com/nestkit/nestkit/internal/model"
)

// Score weights. The leftover penalty matches the bin reward so that packing
// one more item outranks any realistic per-bin efficiency differential:
// leftovers dominate, efficiency breaks ties.
const (
	binCountReward  = 100.0
	leftoverPenalty = 100.0
)

// usableBin is a bin reduced to the extent the packer works with: the raw
// dimension minus a margin on both edges, plus one unit of padding so the
// trailing half-padding of the last block may overhang into the margin.
type usableBin struct {
	index int // index into the caller's bin slice
	bin   model.Bin
	w, h  float64
}

// usableBins resolves margins and padding, skipping bins that come out
// degenerate. A malformed bin never aborts the run; it is simply not a
// placement target.
func usableBins(bins []model.Bin, margin, padding float64) []usableBin {
	var out []usableBin
	for i, b := range bins {
		w := b.Width - 2*margin + padding
		h := b.Height - 2*margin + padding
		if w <= 0 || h <= 0 {
			continue
		}
		out = append(out, usableBin{index: i, bin: b, w: w, h: h})
	}
	return out
}

// BinStat is the per-bin diagnostic line of an attempt.
type BinStat struct {
	BinIndex int
	Count    int
	Area     float64
}

// attempt is one complete packing trial across all bins under one ordering.
// Attempts own their blocks and share nothing mutable, so any number of them
// may run concurrently.
type attempt struct {
	index      int
	sortLabel  string
	packed     []*block
	remaining  []*block
	packedArea float64
	binsUsed   int
	score      float64
	binStats   []BinStat
}

// packableRemaining counts leftovers that could still be placed somewhere;
// permanently unpackable instances are excluded so they do not keep the
// search alive forever.
func (a *attempt) packableRemaining() int {
	n := 0
	for _, b := range a.remaining {
		if !b.unpackable {
			n++
		}
	}
	return n
}

// runAttempt executes a single trial: fresh blocks, one ordering, bins
// strictly in caller order, one ephemeral packer per bin. Each bin's input
// pool is the previous bin's leftovers, so bin processing cannot be
// reordered or parallelized. Returns nil when ctx is cancelled mid-trial; a
// partial trial is never scored.
func runAttempt(ctx context.Context, items []model.Item, bins []usableBin, s model.PackSettings, index int, forceRandom bool, seed int64, progress ProgressFunc) *attempt {
	blocks := newBlocks(items, s.Padding)
	a := &attempt{index: index}

	if s.DoNotSort {
		a.sortLabel = "unsorted"
	} else {
		strategy := index
		if forceRandom {
			strategy = numDeterministicSorts
		}
		rng := rand.New(rand.NewSource(seed + int64(index)))
		orderBlocks(blocks, strategy, rng)
		a.sortLabel = sortLabel(strategy)
	}

	total := len(blocks)
	var totalArea float64
	for _, b := range blocks {
		if !b.unpackable {
			totalArea += b.normal.w * b.normal.h
		}
	}

	remaining := blocks
	for _, ub := range bins {
		if len(remaining) == 0 {
			break
		}
		if ctx.Err() != nil {
			return nil
		}

		p := newPacker(ub.w, ub.h, s.AllowRotation)
		res := p.fit(remaining, ub.index)

		if res.count > 0 {
			factor := float64(total) / float64(res.count)
			if s.BestFitBy == model.ObjectiveArea {
				factor = totalArea / res.area
			}
			a.score += (ub.w * ub.h / res.area) * factor
			a.binsUsed++
			a.packedArea += res.area
			a.packed = append(a.packed, res.placed...)
			a.binStats = append(a.binStats, BinStat{BinIndex: ub.index, Count: res.count, Area: res.area})
		}
		remaining = res.remaining

		if progress != nil {
			progress(ProgressEvent{
				Stage:        StageBin,
				AttemptIndex: index,
				BinIndex:     ub.index,
				Placed:       len(a.packed),
				Remaining:    len(remaining),
			})
		}
	}
	a.remaining = remaining

	a.score += float64(len(bins)-a.binsUsed) * binCountReward
	a.score -= float64(len(remaining)) * leftoverPenalty

	if progress != nil {
		progress(ProgressEvent{
			Stage:        StageAttempt,
			AttemptIndex: index,
			BinIndex:     -1,
			Placed:       len(a.packed),
			Remaining:    len(remaining),
		})
	}
	return a
}

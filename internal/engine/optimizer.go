// Package engine implements the 2D rectangular bin-packing core: a
// guillotine-style free-region packer driven by a multi-attempt ordering
// search. Greedy single-pass packing is order-sensitive, so the optimizer
// retries with several deterministic orderings and then random permutations,
// scores each complete trial, and keeps the best.
package engine

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/nestkit/nestkit/internal/model"
)

// ErrNoBins is returned when a packing run is requested without any bins.
var ErrNoBins = errors.New("engine: no bins supplied")

// ProgressStage tells a progress callback what just finished.
type ProgressStage int

const (
	StageBin ProgressStage = iota
	StageAttempt
)

// ProgressEvent is an advisory notification emitted after each bin and each
// attempt. BinIndex is -1 for attempt-level events.
type ProgressEvent struct {
	Stage        ProgressStage
	AttemptIndex int
	BinIndex     int
	Placed       int
	Remaining    int
}

// ProgressFunc receives progress events. Calls are serialized; the callback
// must not mutate the packing inputs.
type ProgressFunc func(ProgressEvent)

// Optimizer runs the multi-attempt packing search.
type Optimizer struct {
	Settings model.PackSettings
	Progress ProgressFunc
}

func New(settings model.PackSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// Pack places the items into the bins and returns the best packing found.
// Bins are filled strictly in the given order. A non-empty Unplaced list is
// a normal outcome; the only error conditions are an empty bin list and
// cancellation before any attempt completed.
func (o *Optimizer) Pack(ctx context.Context, items []model.Item, bins []model.Bin) (model.PackResult, error) {
	return o.pack(ctx, items, bins, false)
}

// PackRandom runs exactly one attempt with a random item ordering. Useful
// for interactive re-rolls of an existing layout.
func (o *Optimizer) PackRandom(ctx context.Context, items []model.Item, bins []model.Bin) (model.PackResult, error) {
	return o.pack(ctx, items, bins, true)
}

func (o *Optimizer) pack(ctx context.Context, items []model.Item, bins []model.Bin, forceRandom bool) (model.PackResult, error) {
	if len(bins) == 0 {
		return model.PackResult{}, ErrNoBins
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s := o.Settings

	result := model.PackResult{Bins: make([]model.BinResult, len(bins))}
	for i, b := range bins {
		result.Bins[i] = model.BinResult{Bin: b}
	}

	expanded := expandItems(items)
	if len(expanded) == 0 {
		return result, nil
	}

	usable := usableBins(bins, s.Margin, s.Padding)
	if len(usable) == 0 {
		// Every bin degenerate after margin resolution: nothing can be
		// placed, but the run itself is still well-formed.
		result.Unplaced = append(result.Unplaced, expanded...)
		return result, nil
	}

	seed := s.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	best, ran := o.search(ctx, expanded, usable, o.attemptBudget(len(expanded), forceRandom), seed, forceRandom)
	if best == nil {
		if err := ctx.Err(); err != nil {
			return model.PackResult{}, err
		}
		return result, nil
	}

	for _, b := range best.packed {
		dx, dy := b.offsets()
		result.Bins[b.binIndex].Placements = append(result.Bins[b.binIndex].Placements, model.Placement{
			Item:    b.item,
			X:       s.Margin + b.x0 + dx,
			Y:       s.Margin + b.y0 + dy,
			Rotated: b.isRotated,
		})
	}

	leftovers := append([]*block(nil), best.remaining...)
	sort.SliceStable(leftovers, func(i, j int) bool { return leftovers[i].index < leftovers[j].index })
	for _, b := range leftovers {
		result.Unplaced = append(result.Unplaced, b.item)
	}

	result.Stats = model.PackStats{
		AttemptIndex: best.index,
		SortLabel:    best.sortLabel,
		Score:        best.score,
		Attempts:     ran,
	}
	return result, nil
}

// expandItems flattens quantities into one entry per packable instance,
// preserving the caller's order.
func expandItems(items []model.Item) []model.Item {
	var out []model.Item
	for _, it := range items {
		n := it.Quantity
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			cp := it
			cp.Quantity = 1
			out = append(out, cp)
		}
	}
	return out
}

// attemptBudget derives how many trials to run. Sorting disabled or a
// forced-random run collapse the search to a single attempt; otherwise the
// budget grows logarithmically with the instance count, capped at 200.
func (o *Optimizer) attemptBudget(blockCount int, forceRandom bool) int {
	if forceRandom || o.Settings.DoNotSort {
		return 1
	}
	if n := o.Settings.MaxAttempts; n > 0 {
		return n
	}
	n := 4 + int(math.Floor(math.Log2(float64(blockCount))*5))
	if n > 200 {
		n = 200
	}
	if n < 1 {
		n = 1
	}
	return n
}

type attemptResult struct {
	idx int
	a   *attempt
}

// search runs up to maxAttempts trials across a bounded worker pool and
// reduces them in index order, so a parallel run selects exactly the attempt
// a sequential loop would have: best kept by strict score comparison
// (earliest index wins ties), and no attempt past the deterministic set is
// counted once the best already has nothing packable left, unless try-harder
// is set. Per-attempt PRNGs are seeded with baseSeed+index, keeping every
// trial reproducible regardless of scheduling.
func (o *Optimizer) search(ctx context.Context, items []model.Item, bins []usableBin, maxAttempts int, seed int64, forceRandom bool) (*attempt, int) {
	workers := o.Settings.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > maxAttempts {
		workers = maxAttempts
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := o.serializedProgress()

	jobs := make(chan int)
	results := make(chan attemptResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				a := runAttempt(runCtx, items, bins, o.Settings, idx, forceRandom, seed, progress)
				results <- attemptResult{idx: idx, a: a}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < maxAttempts; i++ {
			select {
			case jobs <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]*attempt, workers)
	next := 0
	stopped := false
	ran := 0
	var best *attempt

	for r := range results {
		pending[r.idx] = r.a
		for {
			a, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if a != nil && !stopped {
				if next >= numDeterministicSorts && !o.Settings.TryHarder &&
					best != nil && best.packableRemaining() == 0 {
					// All deterministic orderings have run and the best
					// already packs everything: stop the search here, and
					// ignore any later-index trials that raced to finish.
					stopped = true
					cancel()
				} else {
					ran++
					if best == nil || a.score > best.score {
						best = a
					}
				}
			}
			next++
		}
	}
	return best, ran
}

// serializedProgress wraps the user callback so concurrent attempts never
// invoke it in parallel.
func (o *Optimizer) serializedProgress() ProgressFunc {
	if o.Progress == nil {
		return nil
	}
	var mu sync.Mutex
	return func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		o.Progress(ev)
	}
}

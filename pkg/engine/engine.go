package engine

import "context"

// Optimize runs the full pipeline: overlap filter, greedy ordering, and
// 2-opt refinement. It is the entry point named "optimize" in spec.md
// §6. progress, if non-nil, receives the full event stream for the job;
// Optimize always ends it with a complete event and closes it before
// returning, on every code path (success, cancellation, or a fatal
// ingress error), so a consumer can always block on the channel until
// it closes to know the job has ended.
func Optimize(ctx context.Context, paths []Path, cfg Config, progress *Bus) (OptimizationResult, error) {
	if progress == nil {
		progress = NewBus(1)
		go drain(progress)
	}

	result, err := run(ctx, paths, cfg, progress)

	progress.pushReliable(Event{Type: EventComplete})
	progress.close()

	return result, err
}

// drain discards events from a Bus nobody is reading from, so Optimize
// never blocks on its own internal placeholder bus when the caller
// passed none.
func drain(b *Bus) {
	for range b.events {
	}
}

func run(ctx context.Context, paths []Path, cfg Config, bus *Bus) (OptimizationResult, error) {
	if len(paths) == 0 {
		bus.Log("no paths to optimize")
		return OptimizationResult{PenUpHistory: []float64{0}}, newEmptyInputError()
	}

	for _, p := range paths {
		if len(p.points) < 2 {
			bus.Log("rejecting malformed path: fewer than two points")
			return OptimizationResult{}, newMalformedPathError("path has fewer than two points")
		}
		for _, pt := range p.points {
			if !pt.finite() {
				bus.Log("rejecting malformed path: non-finite coordinate")
				return OptimizationResult{}, newMalformedPathError("path contains a non-finite coordinate")
			}
		}
	}

	if err := cfg.validate(); err != nil {
		bus.Log("rejecting configuration: " + err.(*Error).Msg)
		return OptimizationResult{}, err
	}

	if err := ctx.Err(); err != nil {
		bus.Log("cancelled")
		return OptimizationResult{}, newCancelledError()
	}

	bus.pushReliable(Event{
		Type:                EventFilterStart,
		PathCount:           len(paths),
		PenWidth:            cfg.PenWidth,
		VisibilityThreshold: cfg.VisibilityThreshold,
	})

	filterResult := filterOverlap(paths, cfg)

	bus.pushReliable(Event{
		Type:                EventFilterResult,
		OriginalCount:       len(paths),
		KeptCount:           len(filterResult.KeptIndices),
		RemovedCount:        len(filterResult.RemovedIndices),
		RemovedIndices:      filterResult.RemovedIndices,
		PenWidth:            cfg.PenWidth,
		VisibilityThreshold: cfg.VisibilityThreshold,
	})

	kept := make([]Path, len(filterResult.KeptIndices))
	for i, idx := range filterResult.KeptIndices {
		kept[i] = paths[idx]
	}

	originalDist := originalOrderPenUp(kept)

	greedy, err := greedyOrder(ctx, kept, bus)
	if err != nil {
		bus.Log("cancelled")
		return OptimizationResult{}, err
	}

	bus.pushReliable(Event{
		Type:            EventGreedyResult,
		PathCount:       len(kept),
		ProgressHistory: greedy.history,
		OriginalDist:    originalDist,
		Phase1Dist:      greedy.sequence.PenUp(),
		Paths:           greedy.sequence.Entries(),
	})

	bus.pushReliable(Event{Type: EventTwoOptStart})

	refined, err := twoOpt(ctx, greedy.sequence, cfg.MaxIterations, bus)
	if err != nil {
		bus.Log("cancelled")
		return OptimizationResult{}, err
	}

	bus.pushReliable(Event{
		Type:         EventPhase2Result,
		DistHistory:  refined.history,
		Iterations:   refined.iters,
		FinalDist:    refined.history[len(refined.history)-1],
		OriginalDist: refined.history[0],
		Paths:        refined.sequence.Entries(),
	})

	return OptimizationResult{
		Sequence:      refined.sequence,
		PenUpHistory:  refined.history,
		Iterations:    refined.iters,
		OriginalPenUp: originalDist,
		GreedyPenUp:   refined.history[0],
		FinalPenUp:    refined.history[len(refined.history)-1],
		Filter:        filterResult,
	}, nil
}

// originalOrderPenUp evaluates pen-up travel for paths taken in their
// given order with no flips, i.e. the baseline before any reordering.
func originalOrderPenUp(paths []Path) float64 {
	entries := make([]SeqEntry, len(paths))
	for i := range paths {
		entries[i] = SeqEntry{Index: i}
	}
	return newPathSequence(paths, entries).PenUp()
}

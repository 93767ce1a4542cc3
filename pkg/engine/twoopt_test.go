package engine

import (
	"context"
	"math"
	"testing"
)

func seqFromPaths(t *testing.T, paths []Path, entries []SeqEntry) PathSequence {
	t.Helper()
	return newPathSequence(paths, entries)
}

// TestTwoOptReversalImproves builds a three-path sequence whose greedy
// order is suboptimal by construction and checks that 2-opt finds the
// improving reversal, matching the shape of S3.
func TestTwoOptReversalImproves(t *testing.T) {
	// Head starts at origin. Arrange three paths so that reversing
	// positions [1..2] shortens the route.
	p0 := mustPath(t, Point{0, 0}, Point{1, 0})
	p1 := mustPath(t, Point{1, 20}, Point{1, 21}) // far away, placed 2nd by construction
	p2 := mustPath(t, Point{1, 1}, Point{1, 2})   // close to p0, placed 3rd by construction

	paths := []Path{p0, p1, p2}
	entries := []SeqEntry{{Index: 0}, {Index: 1}, {Index: 2}}
	seq := seqFromPaths(t, paths, entries)

	baseline := seq.PenUp()

	result, err := twoOpt(context.Background(), seq, 10, nil)
	if err != nil {
		t.Fatalf("twoOpt: %v", err)
	}
	if result.iters == 0 {
		t.Fatalf("expected at least one improving iteration")
	}
	if result.history[0] != baseline {
		t.Fatalf("history[0] = %v, want baseline %v", result.history[0], baseline)
	}
	if result.history[len(result.history)-1] >= baseline {
		t.Fatalf("expected improvement: got %v, baseline %v", result.history[len(result.history)-1], baseline)
	}
	if len(result.history) != result.iters+1 {
		t.Fatalf("history length %d != iterations+1 (%d)", len(result.history), result.iters+1)
	}
	for i := 1; i < len(result.history); i++ {
		if result.history[i] > result.history[i-1]+1e-12 {
			t.Fatalf("history not monotone non-increasing: %v", result.history)
		}
	}
	if result.sequence.PenUp() > baseline {
		t.Fatalf("final sequence pen-up %v should not exceed baseline %v", result.sequence.PenUp(), baseline)
	}
}

// S6 — iteration cap: max_iterations caps the number of passes even if
// the sequence would converge in more passes.
func TestTwoOptIterationCap(t *testing.T) {
	n := 12
	paths := make([]Path, n)
	// A zig-zag arrangement that needs several reversal passes to sort
	// into a monotone line.
	for i := 0; i < n; i++ {
		x := float64(n - i)
		paths[i] = mustPath(t, Point{x, 0}, Point{x, 0.5})
	}
	entries := make([]SeqEntry, n)
	for i := range entries {
		entries[i] = SeqEntry{Index: i}
	}
	seq := seqFromPaths(t, paths, entries)

	result, err := twoOpt(context.Background(), seq, 3, nil)
	if err != nil {
		t.Fatalf("twoOpt: %v", err)
	}
	if result.iters > 3 {
		t.Fatalf("expected at most 3 iterations, got %d", result.iters)
	}
	if len(result.history) != result.iters+1 {
		t.Fatalf("history length %d != iterations+1 (%d)", len(result.history), result.iters+1)
	}
	for i := 1; i < len(result.history); i++ {
		if result.history[i] > result.history[i-1]+1e-12 {
			t.Fatalf("history not monotone non-increasing: %v", result.history)
		}
	}
}

func TestTwoOptDeterministic(t *testing.T) {
	n := 8
	paths := make([]Path, n)
	for i := 0; i < n; i++ {
		x := math.Mod(float64(i*37%n), float64(n))
		paths[i] = mustPath(t, Point{x, 0}, Point{x, 1})
	}
	entries := make([]SeqEntry, n)
	for i := range entries {
		entries[i] = SeqEntry{Index: i}
	}
	seq := seqFromPaths(t, paths, entries)

	r1, err := twoOpt(context.Background(), seq, 100, nil)
	if err != nil {
		t.Fatalf("twoOpt: %v", err)
	}
	r2, err := twoOpt(context.Background(), seq, 100, nil)
	if err != nil {
		t.Fatalf("twoOpt: %v", err)
	}
	if r1.iters != r2.iters || len(r1.history) != len(r2.history) {
		t.Fatalf("non-deterministic run: %+v vs %+v", r1, r2)
	}
	for i := range r1.history {
		if r1.history[i] != r2.history[i] {
			t.Fatalf("history differs at %d: %v vs %v", i, r1.history[i], r2.history[i])
		}
	}
}

func TestTwoOptBoundaryN0AndN1(t *testing.T) {
	empty := seqFromPaths(t, nil, nil)
	r, err := twoOpt(context.Background(), empty, 10, nil)
	if err != nil {
		t.Fatalf("twoOpt: %v", err)
	}
	if r.iters != 0 || len(r.history) != 1 || r.history[0] != 0 {
		t.Fatalf("expected zero iterations and history=[0], got %+v", r)
	}

	single := mustPath(t, Point{3, 4}, Point{5, 6})
	seq := seqFromPaths(t, []Path{single}, []SeqEntry{{Index: 0}})
	r1, err := twoOpt(context.Background(), seq, 10, nil)
	if err != nil {
		t.Fatalf("twoOpt: %v", err)
	}
	want := math.Hypot(3, 4)
	if r1.iters != 0 || len(r1.history) != 1 || math.Abs(r1.history[0]-want) > 1e-9 {
		t.Fatalf("expected zero iterations and history=[%v], got %+v", want, r1)
	}
}

func TestTwoOptCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p0 := mustPath(t, Point{0, 0}, Point{1, 0})
	p1 := mustPath(t, Point{2, 2}, Point{3, 3})
	seq := seqFromPaths(t, []Path{p0, p1}, []SeqEntry{{Index: 0}, {Index: 1}})

	_, err := twoOpt(ctx, seq, 10, nil)
	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != ErrKindCancelled {
		t.Fatalf("expected Cancelled error, got %v", err)
	}
}

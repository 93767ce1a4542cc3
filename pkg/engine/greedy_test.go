package engine

import (
	"context"
	"math"
	"testing"
)

func mustPath(t *testing.T, pts ...Point) Path {
	t.Helper()
	p, err := NewPath(pts)
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	return p
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// S1 — two-segment swap: greedy already finds the optimal order, 2-opt
// makes no further improvement.
func TestScenarioS1(t *testing.T) {
	a := mustPath(t, Point{0, 0}, Point{1, 0})
	b := mustPath(t, Point{10, 10}, Point{11, 10})
	c := mustPath(t, Point{2, 0}, Point{3, 0})

	paths := []Path{a, b, c}
	res, err := greedyOrder(context.Background(), paths, nil)
	if err != nil {
		t.Fatalf("greedyOrder: %v", err)
	}
	if res.sequence.Len() != 3 {
		t.Fatalf("expected 3 placements, got %d", res.sequence.Len())
	}

	order := []int{res.sequence.Entries()[0].Index, res.sequence.Entries()[1].Index, res.sequence.Entries()[2].Index}
	if order[0] != 0 || order[1] != 2 || order[2] != 1 {
		t.Fatalf("expected order [A C B] = [0 2 1], got %v", order)
	}

	penUp := res.sequence.PenUp()
	want := 0 + 1 + math.Hypot(10-3, 10-0)
	if !almostEqual(penUp, want, 1e-9) {
		t.Fatalf("expected pen-up %v, got %v", want, penUp)
	}

	two, err := twoOpt(context.Background(), res.sequence, 10, nil)
	if err != nil {
		t.Fatalf("twoOpt: %v", err)
	}
	if two.iters != 0 {
		t.Fatalf("expected 0 improving iterations, got %d", two.iters)
	}
	if len(two.history) != 1 {
		t.Fatalf("expected history of length 1, got %v", two.history)
	}
}

// S2 — direction flip wins: greedy should pick both paths unflipped
// since their starts already face the oncoming head.
func TestScenarioS2(t *testing.T) {
	a := mustPath(t, Point{0, 0}, Point{0, 10})
	b := mustPath(t, Point{0, 11}, Point{0, 20})

	res, err := greedyOrder(context.Background(), []Path{a, b}, nil)
	if err != nil {
		t.Fatalf("greedyOrder: %v", err)
	}
	for _, e := range res.sequence.Entries() {
		if e.Flipped {
			t.Fatalf("expected no flips, got %+v", res.sequence.Entries())
		}
	}
	if !almostEqual(res.sequence.PenUp(), 1, 1e-9) {
		t.Fatalf("expected pen-up 1, got %v", res.sequence.PenUp())
	}

	two, err := twoOpt(context.Background(), res.sequence, 10, nil)
	if err != nil {
		t.Fatalf("twoOpt: %v", err)
	}
	if two.iters != 0 {
		t.Fatalf("expected no improvement, got %d iterations", two.iters)
	}
}

func TestGreedyIsPermutation(t *testing.T) {
	paths := []Path{
		mustPath(t, Point{0, 0}, Point{5, 5}),
		mustPath(t, Point{5, 5}, Point{1, 9}),
		mustPath(t, Point{-3, 2}, Point{-3, -2}),
		mustPath(t, Point{100, 100}, Point{90, 90}),
	}
	res, err := greedyOrder(context.Background(), paths, nil)
	if err != nil {
		t.Fatalf("greedyOrder: %v", err)
	}
	seen := map[int]bool{}
	for _, e := range res.sequence.Entries() {
		if seen[e.Index] {
			t.Fatalf("index %d placed twice", e.Index)
		}
		seen[e.Index] = true
	}
	if len(seen) != len(paths) {
		t.Fatalf("expected permutation of all %d paths, got %d", len(paths), len(seen))
	}
}

func TestGreedyTieBreakAscendingIndex(t *testing.T) {
	// Two paths equidistant from the origin; the lower original index
	// must win the tie.
	a := mustPath(t, Point{5, 0}, Point{6, 0})
	b := mustPath(t, Point{-5, 0}, Point{-6, 0})
	res, err := greedyOrder(context.Background(), []Path{a, b}, nil)
	if err != nil {
		t.Fatalf("greedyOrder: %v", err)
	}
	if res.sequence.Entries()[0].Index != 0 {
		t.Fatalf("expected path 0 to win the tie, got %+v", res.sequence.Entries())
	}
}

func TestGreedyBoundaryN0(t *testing.T) {
	res, err := greedyOrder(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("greedyOrder: %v", err)
	}
	if res.sequence.Len() != 0 {
		t.Fatalf("expected empty sequence, got %d entries", res.sequence.Len())
	}
}

func TestGreedyCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths := []Path{
		mustPath(t, Point{0, 0}, Point{1, 0}),
		mustPath(t, Point{2, 0}, Point{3, 0}),
	}
	_, err := greedyOrder(ctx, paths, nil)
	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != ErrKindCancelled {
		t.Fatalf("expected Cancelled error, got %v", err)
	}
}

package engine

import "testing"

func TestFilterDisabledWhenPenWidthZero(t *testing.T) {
	paths := []Path{
		mustPath(t, Point{0, 0}, Point{10, 0}),
		mustPath(t, Point{0, 0.1}, Point{10, 0.1}),
	}
	res := filterOverlap(paths, Config{PenWidth: 0, VisibilityThreshold: 50})
	if len(res.RemovedIndices) != 0 {
		t.Fatalf("expected no removals with pen_width=0, got %v", res.RemovedIndices)
	}
	if len(res.KeptIndices) != 2 {
		t.Fatalf("expected both paths kept, got %v", res.KeptIndices)
	}
}

func TestFilterDisabledAtFullVisibility(t *testing.T) {
	paths := []Path{
		mustPath(t, Point{0, 0}, Point{10, 0}),
		mustPath(t, Point{0, 0.1}, Point{10, 0.1}),
	}
	res := filterOverlap(paths, Config{PenWidth: 1.0, VisibilityThreshold: 100})
	if len(res.RemovedIndices) != 0 {
		t.Fatalf("expected no removals at visibility_threshold=100, got %v", res.RemovedIndices)
	}
}

// S4 — filter drops duplicate: B's footprint lies fully inside A's.
func TestScenarioS4(t *testing.T) {
	a := mustPath(t, Point{0, 0}, Point{10, 0})
	b := mustPath(t, Point{0, 0.1}, Point{10, 0.1})

	res := filterOverlap([]Path{a, b}, Config{PenWidth: 1.0, VisibilityThreshold: 50})
	if len(res.RemovedIndices) != 1 || res.RemovedIndices[0] != 1 {
		t.Fatalf("expected removed_indices=[1], got %v", res.RemovedIndices)
	}
	if len(res.KeptIndices) != 1 || res.KeptIndices[0] != 0 {
		t.Fatalf("expected kept_indices=[0], got %v", res.KeptIndices)
	}
}

func TestFilterPartitionsAllIndices(t *testing.T) {
	paths := []Path{
		mustPath(t, Point{0, 0}, Point{10, 0}),
		mustPath(t, Point{0, 0.1}, Point{10, 0.1}),
		mustPath(t, Point{50, 50}, Point{60, 60}),
		mustPath(t, Point{0, 0.05}, Point{10, 0.05}),
	}
	res := filterOverlap(paths, Config{PenWidth: 1.0, VisibilityThreshold: 50})

	seen := map[int]bool{}
	for _, i := range res.KeptIndices {
		if seen[i] {
			t.Fatalf("index %d appears twice", i)
		}
		seen[i] = true
	}
	for _, i := range res.RemovedIndices {
		if seen[i] {
			t.Fatalf("index %d in both kept and removed", i)
		}
		seen[i] = true
	}
	if len(seen) != len(paths) {
		t.Fatalf("expected partition to cover all %d indices, got %d", len(paths), len(seen))
	}
}

func TestFilterIdenticalPathFirstSurvives(t *testing.T) {
	a := mustPath(t, Point{0, 0}, Point{5, 0})
	b := mustPath(t, Point{0, 0}, Point{5, 0})
	res := filterOverlap([]Path{a, b}, Config{PenWidth: 1.0, VisibilityThreshold: 50})
	if len(res.KeptIndices) != 1 || res.KeptIndices[0] != 0 {
		t.Fatalf("expected the first-encountered duplicate to survive, got kept=%v removed=%v",
			res.KeptIndices, res.RemovedIndices)
	}
}

func TestFilterShortPathTreatedAsPoint(t *testing.T) {
	a := mustPath(t, Point{0, 0}, Point{10, 0})
	// A path shorter than merge_threshold, positioned inside A's footprint.
	b := mustPath(t, Point{5, 0}, Point{5.01, 0})
	res := filterOverlap([]Path{a, b}, Config{PenWidth: 1.0, VisibilityThreshold: 50, MergeThreshold: 0.1})
	if len(res.RemovedIndices) != 1 || res.RemovedIndices[0] != 1 {
		t.Fatalf("expected the short path to be dropped as a covered point, got removed=%v", res.RemovedIndices)
	}
}

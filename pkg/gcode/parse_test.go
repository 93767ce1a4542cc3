package gcode

import (
	"context"
	"math"
	"testing"

	"penplotter/pkg/engine"
)

func mustEnginePath(t *testing.T, pts ...engine.Point) engine.Path {
	t.Helper()
	p, err := engine.NewPath(pts)
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	return p
}

func almostEqualPoint(a, b engine.Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

// TestEmitRoundTrip builds a sequence whose optimized order differs from
// the input order (the same arrangement as engine's S1 scenario, whose
// greedy order is [A C B]) and checks that Emit pairs each emitted
// position with the path and flip bit actually at that position, not the
// one found by misreading the position itself as a universe index.
func TestEmitRoundTrip(t *testing.T) {
	a := mustEnginePath(t, engine.Point{X: 0, Y: 0}, engine.Point{X: 1, Y: 0})
	b := mustEnginePath(t, engine.Point{X: 10, Y: 10}, engine.Point{X: 11, Y: 10})
	c := mustEnginePath(t, engine.Point{X: 2, Y: 0}, engine.Point{X: 3, Y: 0})

	result, err := engine.Optimize(context.Background(), []engine.Path{a, b, c}, engine.Config{MaxIterations: 10}, nil)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.Sequence.Len() != 3 {
		t.Fatalf("expected 3 placements, got %d", result.Sequence.Len())
	}

	meta := Meta{ZUp: 2, ZDown: 0, Feedrate: 1000}
	text := Emit(result.Sequence, meta)

	parsed, _, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed) != result.Sequence.Len() {
		t.Fatalf("expected %d parsed paths, got %d", result.Sequence.Len(), len(parsed))
	}

	for i := 0; i < result.Sequence.Len(); i++ {
		entry := result.Sequence.Entries()[i]
		want := result.Sequence.Path(i)
		wantPoints := want.Points()
		if entry.Flipped {
			wantPoints = want.Reversed().Points()
		}

		gotPoints := parsed[i].Points()
		if len(gotPoints) != len(wantPoints) {
			t.Fatalf("position %d: expected %d points, got %d", i, len(wantPoints), len(gotPoints))
		}
		for j := range wantPoints {
			if !almostEqualPoint(gotPoints[j], wantPoints[j], 1e-3) {
				t.Fatalf("position %d point %d: expected %v, got %v", i, j, wantPoints[j], gotPoints[j])
			}
		}
	}
}

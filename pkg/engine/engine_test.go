package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOptimizeEmptyInput(t *testing.T) {
	_, err := Optimize(context.Background(), nil, Config{}, nil)
	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != ErrKindEmptyInput {
		t.Fatalf("expected EmptyInput error, got %v", err)
	}
}

func TestOptimizeMalformedPath(t *testing.T) {
	bad := Path{points: []Point{{0, 0}}}
	_, err := Optimize(context.Background(), []Path{bad}, Config{}, nil)
	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != ErrKindMalformedPath {
		t.Fatalf("expected MalformedPath error, got %v", err)
	}
}

func TestOptimizeConfigRange(t *testing.T) {
	paths := []Path{mustPath(t, Point{0, 0}, Point{1, 0})}
	tests := []struct {
		name string
		cfg  Config
	}{
		{"visibility too high", Config{VisibilityThreshold: 150}},
		{"visibility negative", Config{VisibilityThreshold: -1}},
		{"negative pen width", Config{PenWidth: -1}},
		{"negative merge threshold", Config{MergeThreshold: -1}},
		{"negative max iterations", Config{MaxIterations: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Optimize(context.Background(), paths, tc.cfg, nil)
			engErr, ok := err.(*Error)
			if !ok || engErr.Kind != ErrKindConfigRange {
				t.Fatalf("expected ConfigRange error, got %v", err)
			}
		})
	}
}

func TestOptimizeEndToEnd(t *testing.T) {
	paths := []Path{
		mustPath(t, Point{0, 0}, Point{1, 0}),
		mustPath(t, Point{10, 10}, Point{11, 10}),
		mustPath(t, Point{2, 0}, Point{3, 0}),
	}
	bus := NewBus(32)

	var events []Event
	done := make(chan struct{})
	go func() {
		for e := range bus.Events() {
			events = append(events, e)
		}
		close(done)
	}()

	result, err := Optimize(context.Background(), paths, Config{MaxIterations: 50}, bus)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	<-done

	if result.Sequence.Len() != 3 {
		t.Fatalf("expected 3 placements, got %d", result.Sequence.Len())
	}
	if result.FinalPenUp > result.GreedyPenUp+1e-9 {
		t.Fatalf("2-opt must not make things worse: final=%v greedy=%v", result.FinalPenUp, result.GreedyPenUp)
	}
	if len(result.PenUpHistory) != result.Iterations+1 {
		t.Fatalf("history length mismatch: %d entries, %d iterations", len(result.PenUpHistory), result.Iterations)
	}

	// progress events are best-effort/coalesced; strip them before
	// checking the strictly-ordered reliable events.
	var types []EventType
	for _, e := range events {
		if e.Type == EventProgress {
			continue
		}
		types = append(types, e.Type)
	}
	want := []EventType{
		EventFilterStart, EventFilterResult,
		EventGreedyResult,
		EventTwoOptStart, EventPhase2Result,
		EventComplete,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("unexpected event sequence (-want +got):\n%s", diff)
	}
}

// S5 — cancellation: no phase2_result is emitted, a cancelled log event
// and a complete event are observed, and the channel closes.
func TestScenarioS5Cancellation(t *testing.T) {
	n := 2000
	paths := make([]Path, n)
	for i := 0; i < n; i++ {
		x := float64(i % 137)
		y := float64((i * 13) % 229)
		paths[i] = mustPath(t, Point{x, y}, Point{x + 1, y + 1})
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := NewBus(4096)

	var events []Event
	done := make(chan struct{})
	go func() {
		for e := range bus.Events() {
			events = append(events, e)
		}
		close(done)
	}()

	go func() {
		time.Sleep(time.Millisecond)
		cancel()
	}()

	_, err := Optimize(ctx, paths, Config{MaxIterations: 10000}, bus)
	<-done

	engErr, ok := err.(*Error)
	if !ok || engErr.Kind != ErrKindCancelled {
		t.Fatalf("expected Cancelled error, got %v", err)
	}

	sawLog, sawComplete, sawPhase2 := false, false, false
	for _, e := range events {
		switch e.Type {
		case EventLog:
			if e.Msg == "cancelled" {
				sawLog = true
			}
		case EventComplete:
			sawComplete = true
		case EventPhase2Result:
			sawPhase2 = true
		}
	}
	if !sawLog {
		t.Fatalf("expected a cancelled log event, got %+v", events)
	}
	if !sawComplete {
		t.Fatalf("expected a complete event, got %+v", events)
	}
	if sawPhase2 {
		t.Fatalf("phase2_result must not be emitted on cancellation")
	}
}

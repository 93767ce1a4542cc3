// Package engine implements the toolpath optimization core: an optional
// overlap filter, a greedy nearest-neighbor orderer, and a 2-opt local
// search refiner, all operating on 2-D drawing paths for a pen plotter.
package engine

import "math"

// Point is a location in millimetres.
type Point struct {
	X, Y float64
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Path is an immutable, ordered polyline of at least two points.
type Path struct {
	points     []Point
	drawLength float64
}

// NewPath validates and constructs a Path from a polyline. It is the
// ingest boundary: a path with fewer than two points, or any non-finite
// coordinate, is rejected here rather than discovered mid-pipeline.
func NewPath(points []Point) (Path, error) {
	if len(points) < 2 {
		return Path{}, newMalformedPathError("path has fewer than two points")
	}
	length := 0.0
	for i, p := range points {
		if !p.finite() {
			return Path{}, newMalformedPathError("path contains a non-finite coordinate")
		}
		if i > 0 {
			length += dist(points[i-1], p)
		}
	}
	cp := make([]Point, len(points))
	copy(cp, points)
	return Path{points: cp, drawLength: length}, nil
}

// Points returns the path's geometry in original (unflipped) order.
// Callers must not mutate the returned slice.
func (p Path) Points() []Point { return p.points }

// Start returns the first point of the path as drawn.
func (p Path) Start() Point { return p.points[0] }

// End returns the last point of the path as drawn.
func (p Path) End() Point { return p.points[len(p.points)-1] }

// DrawLength is the total Euclidean length of the path's segments.
func (p Path) DrawLength() float64 { return p.drawLength }

// Reversed returns a new Path drawn from End to Start. The geometry is
// unchanged; only traversal order is reversed.
func (p Path) Reversed() Path {
	n := len(p.points)
	rev := make([]Point, n)
	for i, pt := range p.points {
		rev[n-1-i] = pt
	}
	return Path{points: rev, drawLength: p.drawLength}
}

// effectiveStart/effectiveEnd respect a flip bit without allocating a
// reversed copy of the geometry.
func (p Path) effectiveStart(flipped bool) Point {
	if flipped {
		return p.End()
	}
	return p.Start()
}

func (p Path) effectiveEnd(flipped bool) Point {
	if flipped {
		return p.Start()
	}
	return p.End()
}

// SeqEntry places one path within a PathSequence.
type SeqEntry struct {
	// Index is the index of the path within the sequence's path universe
	// (the surviving paths handed to the greedy stage).
	Index int
	// Flipped means the path is drawn from End to Start.
	Flipped bool
}

// PathSequence is an ordered arrangement of a fixed set of Paths, each
// with a per-placement flip bit. It is a permutation of path indices: no
// index appears twice, none are omitted.
type PathSequence struct {
	universe []Path
	entries  []SeqEntry
}

func newPathSequence(universe []Path, entries []SeqEntry) PathSequence {
	return PathSequence{universe: universe, entries: entries}
}

// Len returns the number of placements in the sequence.
func (s PathSequence) Len() int { return len(s.entries) }

// Entries returns the ordered (index, flipped) placements. Each index
// refers to the sequence's path universe; for the result of Optimize
// that is the filter's surviving paths, not the caller's input list, and
// Filter.KeptIndices maps it back to an input index.
func (s PathSequence) Entries() []SeqEntry { return s.entries }

// Path returns the path placed at position i as stored, without its flip
// applied; use EffectiveStart/EffectiveEnd or the entry's Flipped bit for
// the drawing direction.
func (s PathSequence) Path(i int) Path { return s.universe[s.entries[i].Index] }

// EffectiveStart is the point the plotter's head is at when it starts
// drawing the path at position i.
func (s PathSequence) EffectiveStart(i int) Point {
	e := s.entries[i]
	return s.universe[e.Index].effectiveStart(e.Flipped)
}

// EffectiveEnd is the point the plotter's head is at after drawing the
// path at position i.
func (s PathSequence) EffectiveEnd(i int) Point {
	e := s.entries[i]
	return s.universe[e.Index].effectiveEnd(e.Flipped)
}

// PenUp is the total pen-up travel distance for the sequence: the hop
// from the origin to the first path's effective start, plus the gaps
// between consecutive paths.
func (s PathSequence) PenUp() float64 {
	if len(s.entries) == 0 {
		return 0
	}
	origin := Point{0, 0}
	total := dist(origin, s.EffectiveStart(0))
	for i := 0; i < len(s.entries)-1; i++ {
		total += dist(s.EffectiveEnd(i), s.EffectiveStart(i+1))
	}
	return total
}

// FilterResult partitions the input path indices into those that
// survived the overlap filter and those that were dropped as redundant.
type FilterResult struct {
	KeptIndices    []int
	RemovedIndices []int
}

// PlacementRecord is one entry of the greedy stage's placement history.
type PlacementRecord struct {
	OriginalIndex int
	Reversed      bool
}

// OptimizationResult is the final output of Optimize.
type OptimizationResult struct {
	Sequence PathSequence

	// PenUpHistory has one sample per improving 2-opt pass, with the
	// greedy baseline as its first element.
	PenUpHistory []float64
	Iterations   int

	// OriginalPenUp is the pen-up distance of the paths that survived
	// the filter, taken in their original order with no flips, before
	// greedy ordering ran.
	OriginalPenUp float64
	// GreedyPenUp is the pen-up distance immediately after the greedy
	// stage, i.e. PenUpHistory[0].
	GreedyPenUp float64
	// FinalPenUp is the pen-up distance after 2-opt, i.e. the last
	// element of PenUpHistory.
	FinalPenUp float64

	Filter FilterResult
}

// Config carries the tunables recognized by the optimizer and the
// fields that pass through untouched for use by downstream G-code
// emission. The core itself reads only PenWidth, VisibilityThreshold,
// MaxIterations, and MergeThreshold.
type Config struct {
	PenWidth            float64
	VisibilityThreshold float64
	MaxIterations       int
	MergeThreshold      float64

	// Consumed outside the core.
	CurveTolerance float64
	Feedrate       float64
	TravelSpeed    float64
	ZUp            float64
	ZDown          float64
	ZSpeed         float64
	GcodeHeader    string
	GcodeFooter    string
}

func (c Config) validate() error {
	if c.VisibilityThreshold < 0 || c.VisibilityThreshold > 100 {
		return newConfigRangeError("visibility_threshold must be within [0, 100]")
	}
	if c.PenWidth < 0 {
		return newConfigRangeError("pen_width must be non-negative")
	}
	if c.MergeThreshold < 0 {
		return newConfigRangeError("merge_threshold must be non-negative")
	}
	if c.MaxIterations < 0 {
		return newConfigRangeError("max_iterations must be non-negative")
	}
	return nil
}

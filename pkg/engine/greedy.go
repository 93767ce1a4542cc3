package engine

import (
	"context"
	"math"
	"sort"

	"github.com/asim/quadtree"
)

// endpointIndex tracks the endpoints of the not-yet-placed paths in a
// quadtree, mirroring the teacher's pathTree: each indexed point carries
// the set of path indices that touch it, so coincident endpoints share
// one tree entry. Querying the full extent each step and resolving the
// exact nearest by a short linear pass keeps the greedy stage's
// tie-breaking exact (ascending original index) while still routing the
// per-step candidate listing through the quadtree rather than a field on
// every Path.
type endpointIndex struct {
	tree               *quadtree.QuadTree
	centerX, centerY   float64
	halfW, halfH       float64
}

var zeroExtent = quadtree.NewPoint(0, 0, nil)

func newEndpointIndex(paths []Path) *endpointIndex {
	minX, minY := 0.0, 0.0
	maxX, maxY := 0.0, 0.0
	for _, p := range paths {
		for _, pt := range p.Points() {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}

	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2
	halfW := maxX - midX + 10
	halfH := maxY - midY + 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfW, halfH, nil))

	idx := &endpointIndex{
		tree:    quadtree.New(aabb, 0, nil),
		centerX: midX, centerY: midY,
		halfW: halfW, halfH: halfH,
	}
	for i, p := range paths {
		idx.addPath(i, p)
	}
	return idx
}

func (idx *endpointIndex) addOne(x, y float64, pathIdx int) {
	point := quadtree.NewPoint(x, y, nil)
	existing := idx.tree.KNearest(quadtree.NewAABB(point, zeroExtent), 1, nil)
	if len(existing) > 0 {
		ex, ey := existing[0].Coordinates()
		if ex == x && ey == y {
			set := existing[0].Data().(map[int]struct{})
			set[pathIdx] = struct{}{}
			return
		}
	}
	idx.tree.Insert(quadtree.NewPoint(x, y, map[int]struct{}{pathIdx: {}}))
}

func (idx *endpointIndex) removeOne(x, y float64, pathIdx int) {
	point := quadtree.NewPoint(x, y, nil)
	existing := idx.tree.KNearest(quadtree.NewAABB(point, zeroExtent), 1, nil)
	if len(existing) == 0 {
		return
	}
	ex, ey := existing[0].Coordinates()
	if ex != x || ey != y {
		return
	}
	set := existing[0].Data().(map[int]struct{})
	delete(set, pathIdx)
	if len(set) == 0 {
		idx.tree.Remove(existing[0])
	}
}

func (idx *endpointIndex) addPath(i int, p Path) {
	s, e := p.Start(), p.End()
	idx.addOne(s.X, s.Y, i)
	idx.addOne(e.X, e.Y, i)
}

func (idx *endpointIndex) removePath(i int, p Path) {
	s, e := p.Start(), p.End()
	idx.removeOne(s.X, s.Y, i)
	idx.removeOne(e.X, e.Y, i)
}

// remaining returns the distinct path indices still present in the
// index, in no particular order.
func (idx *endpointIndex) remaining() []int {
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(idx.centerX, idx.centerY, nil),
		quadtree.NewPoint(idx.halfW, idx.halfH, nil))
	points := idx.tree.Search(aabb)

	seen := map[int]struct{}{}
	for _, pt := range points {
		for pathIdx := range pt.Data().(map[int]struct{}) {
			seen[pathIdx] = struct{}{}
		}
	}
	result := make([]int, 0, len(seen))
	for pathIdx := range seen {
		result = append(result, pathIdx)
	}
	return result
}

// greedyResult bundles the ordering produced by the greedy stage with
// the bookkeeping needed to report it.
type greedyResult struct {
	sequence PathSequence
	history  []PlacementRecord
}

// greedyOrder implements spec.md §4.2: repeatedly jump to the nearest
// endpoint of any unused path, flipping the path if its far end is
// closer, breaking ties by ascending original index.
func greedyOrder(ctx context.Context, paths []Path, bus *Bus) (greedyResult, error) {
	n := len(paths)
	entries := make([]SeqEntry, 0, n)
	history := make([]PlacementRecord, 0, n)

	if n == 0 {
		return greedyResult{sequence: newPathSequence(paths, entries), history: history}, nil
	}

	idx := newEndpointIndex(paths)
	head := Point{0, 0}

	for placed := 0; placed < n; placed++ {
		if err := ctx.Err(); err != nil {
			return greedyResult{}, newCancelledError()
		}

		remaining := idx.remaining()
		sort.Ints(remaining)

		bestIdx := -1
		bestDist := math.Inf(1)
		bestFlip := false
		for _, candidate := range remaining {
			p := paths[candidate]
			ds := dist(head, p.Start())
			de := dist(head, p.End())
			d, flip := ds, false
			if de < ds {
				d, flip = de, true
			}
			if d < bestDist {
				bestDist, bestIdx, bestFlip = d, candidate, flip
			}
		}
		if bestIdx < 0 {
			return greedyResult{}, newInternalError("greedy: no candidate found with unused paths remaining")
		}

		idx.removePath(bestIdx, paths[bestIdx])
		entries = append(entries, SeqEntry{Index: bestIdx, Flipped: bestFlip})
		history = append(history, PlacementRecord{OriginalIndex: bestIdx, Reversed: bestFlip})

		if bestFlip {
			head = paths[bestIdx].Start()
		} else {
			head = paths[bestIdx].End()
		}

		if bus != nil {
			bus.pushProgress(Event{
				Type:       EventProgress,
				Phase:      1,
				Current:    placed + 1,
				Total:      n,
				LatestPath: paths[bestIdx].Points(),
			})
		}
	}

	return greedyResult{sequence: newPathSequence(paths, entries), history: history}, nil
}

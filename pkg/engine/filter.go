package engine

import (
	"math"
	"sort"
)

// segGrid is a uniform hash grid over accepted ink segments, answering
// "is any segment within radius of q" queries in expected O(1). Cell
// size is chosen ≈ pen width, per spec.
type segGrid struct {
	cellSize float64
	cells    map[gridCell][]segment
}

type gridCell struct{ x, y int }

type segment struct{ a, b Point }

func newSegGrid(cellSize float64) *segGrid {
	return &segGrid{cellSize: cellSize, cells: map[gridCell][]segment{}}
}

func (g *segGrid) cellOf(x, y float64) gridCell {
	return gridCell{int(math.Floor(x / g.cellSize)), int(math.Floor(y / g.cellSize))}
}

// insert adds every consecutive segment of points into the grid,
// registering each segment in every cell its bounding box touches.
func (g *segGrid) insert(points []Point) {
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		seg := segment{a, b}
		c0 := g.cellOf(math.Min(a.X, b.X), math.Min(a.Y, b.Y))
		c1 := g.cellOf(math.Max(a.X, b.X), math.Max(a.Y, b.Y))
		for cx := c0.x; cx <= c1.x; cx++ {
			for cy := c0.y; cy <= c1.y; cy++ {
				key := gridCell{cx, cy}
				g.cells[key] = append(g.cells[key], seg)
			}
		}
	}
}

// hasNearby reports whether any indexed segment lies within radius of q.
func (g *segGrid) hasNearby(q Point, radius float64) bool {
	r := int(math.Ceil(radius / g.cellSize))
	c0 := g.cellOf(q.X, q.Y)
	radiusSq := radius * radius
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			bucket, ok := g.cells[gridCell{c0.x + dx, c0.y + dy}]
			if !ok {
				continue
			}
			for _, seg := range bucket {
				if pointSegDistSq(q, seg.a, seg.b) <= radiusSq {
					return true
				}
			}
		}
	}
	return false
}

// pointSegDistSq returns the squared distance from p to the segment a-b.
func pointSegDistSq(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-24 {
		ex, ey := p.X-a.X, p.Y-a.Y
		return ex*ex + ey*ey
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	ex := p.X - (a.X + t*dx)
	ey := p.Y - (a.Y + t*dy)
	return ex*ex + ey*ey
}

// samplePath returns evenly spaced samples along points at the given
// interval, always including the first and last point.
func samplePath(points []Point, interval float64) []Point {
	if len(points) == 0 {
		return nil
	}
	if len(points) == 1 {
		return []Point{points[0]}
	}

	samples := []Point{points[0]}
	residual := 0.0

	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		segLen := dist(a, b)
		if segLen < 1e-12 {
			continue
		}
		ux, uy := (b.X-a.X)/segLen, (b.Y-a.Y)/segLen
		pos := interval - residual
		for pos < segLen-1e-12 {
			samples = append(samples, Point{a.X + ux*pos, a.Y + uy*pos})
			pos += interval
		}
		residual = segLen - (pos - interval)
	}

	last := points[len(points)-1]
	if dist(samples[len(samples)-1], last) > 1e-12 {
		samples = append(samples, last)
	}
	return samples
}

// filterOverlap runs the overlap filter of spec.md §4.1. Longer paths
// lay down ink first; a later path that is mostly already inked is
// dropped. The filter never fails.
func filterOverlap(paths []Path, cfg Config) FilterResult {
	n := len(paths)

	if cfg.PenWidth <= 0 || cfg.VisibilityThreshold >= 100 {
		kept := make([]int, n)
		for i := range kept {
			kept[i] = i
		}
		return FilterResult{KeptIndices: kept}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		li, lj := paths[order[i]].DrawLength(), paths[order[j]].DrawLength()
		if li != lj {
			return li > lj
		}
		return order[i] < order[j]
	})

	sampleStep := math.Min(cfg.PenWidth/4, 0.5)
	radius := cfg.PenWidth / 2
	coverThreshold := 1 - cfg.VisibilityThreshold/100

	grid := newSegGrid(cfg.PenWidth)
	kept := make([]bool, n)
	var removed []int
	accepted := 0

	for _, idx := range order {
		p := paths[idx]

		if accepted == 0 {
			grid.insert(p.Points())
			kept[idx] = true
			accepted++
			continue
		}

		var samples []Point
		if p.DrawLength() < cfg.MergeThreshold {
			samples = []Point{p.Start()}
		} else {
			samples = samplePath(p.Points(), sampleStep)
		}

		covered := 0
		for _, s := range samples {
			if grid.hasNearby(s, radius) {
				covered++
			}
		}
		coveredFraction := float64(covered) / float64(len(samples))

		if coveredFraction >= coverThreshold {
			removed = append(removed, idx)
		} else {
			grid.insert(p.Points())
			kept[idx] = true
			accepted++
		}
	}

	keptIndices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if kept[i] {
			keptIndices = append(keptIndices, i)
		}
	}
	sort.Ints(removed)

	return FilterResult{KeptIndices: keptIndices, RemovedIndices: removed}
}

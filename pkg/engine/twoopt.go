package engine

import (
	"context"
	"math"
)

// improvementEpsilon is the strict-improvement threshold that prevents
// infinite oscillation from floating point rounding noise.
const improvementEpsilon = 1e-6

// twoOptResult bundles the refined sequence with its pen-up history.
type twoOptResult struct {
	sequence PathSequence
	history  []float64
	iters    int
}

func pdist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return math.Sqrt(dx*dx + dy*dy)
}

func totalPenUp(sx, sy, ex, ey []float64) float64 {
	n := len(sx)
	if n == 0 {
		return 0
	}
	total := pdist(0, 0, sx[0], sy[0])
	for i := 0; i < n-1; i++ {
		total += pdist(ex[i], ey[i], sx[i+1], sy[i+1])
	}
	return total
}

// twoOpt implements spec.md §4.3: first-improvement 2-opt over the
// oriented cost of reversing sub-range [i..j], operating on six
// parallel coordinate buffers allocated once up front, reordered in
// place by every reversal. No per-iteration allocation.
func twoOpt(ctx context.Context, seq PathSequence, maxIterations int, bus *Bus) (twoOptResult, error) {
	n := seq.Len()

	sx := make([]float64, n)
	sy := make([]float64, n)
	ex := make([]float64, n)
	ey := make([]float64, n)
	order := make([]int, n)
	flipped := make([]bool, n)

	for i, e := range seq.Entries() {
		start := seq.EffectiveStart(i)
		end := seq.EffectiveEnd(i)
		sx[i], sy[i] = start.X, start.Y
		ex[i], ey[i] = end.X, end.Y
		order[i] = e.Index
		flipped[i] = e.Flipped
	}

	history := []float64{totalPenUp(sx, sy, ex, ey)}

	if n <= 1 {
		return twoOptResult{sequence: rebuildSequence(seq.universe, order, flipped), history: history}, nil
	}

	reverse := func(i, j int) {
		l, r := i, j
		for l < r {
			sx[l], sx[r] = sx[r], sx[l]
			sy[l], sy[r] = sy[r], sy[l]
			ex[l], ex[r] = ex[r], ex[l]
			ey[l], ey[r] = ey[r], ey[l]
			order[l], order[r] = order[r], order[l]
			flipped[l], flipped[r] = flipped[r], flipped[l]

			sx[l], ex[l] = ex[l], sx[l]
			sy[l], ey[l] = ey[l], sy[l]
			flipped[l] = !flipped[l]

			sx[r], ex[r] = ex[r], sx[r]
			sy[r], ey[r] = ey[r], sy[r]
			flipped[r] = !flipped[r]

			l++
			r--
		}
		if l == r {
			sx[l], ex[l] = ex[l], sx[l]
			sy[l], ey[l] = ey[l], sy[l]
			flipped[l] = !flipped[l]
		}
	}

	iter := 0
	for iter < maxIterations {
		if err := ctx.Err(); err != nil {
			return twoOptResult{}, newCancelledError()
		}

		improved := false
		for i := 0; i < n-1 && !improved; i++ {
			px, py := 0.0, 0.0
			if i > 0 {
				px, py = ex[i-1], ey[i-1]
			}
			for j := i + 1; j < n; j++ {
				cur := pdist(px, py, sx[i], sy[i])
				nw := pdist(px, py, ex[j], ey[j])
				if j < n-1 {
					cur += pdist(ex[j], ey[j], sx[j+1], sy[j+1])
					nw += pdist(sx[i], sy[i], sx[j+1], sy[j+1])
				}
				if nw < cur-improvementEpsilon {
					reverse(i, j)
					improved = true
					break
				}
			}
		}

		if !improved {
			break
		}

		iter++
		history = append(history, totalPenUp(sx, sy, ex, ey))
	}

	return twoOptResult{
		sequence: rebuildSequence(seq.universe, order, flipped),
		history:  history,
		iters:    iter,
	}, nil
}

func rebuildSequence(universe []Path, order []int, flipped []bool) PathSequence {
	entries := make([]SeqEntry, len(order))
	for i := range order {
		entries[i] = SeqEntry{Index: order[i], Flipped: flipped[i]}
	}
	return newPathSequence(universe, entries)
}

package vectorize_test

import (
	"sort"
	"testing"

	"penplotter/pkg/vectorize"

	"github.com/google/go-cmp/cmp"
)

// majors extracts the Major sequence from a line, since Width and Minor
// are deterministic bookkeeping we don't need to restate in every case.
func majors(line vectorize.JoinerLine) []float32 {
	out := make([]float32, len(line))
	for i, p := range line {
		out[i] = p.Major
	}
	return out
}

// runRows feeds one AddRun per major in each row, calling NextMinor
// between rows, then flushes via JoinerLines the way FindHorizontalRuns
// drives a PointJoiner one image row at a time.
func runRows(rows [][]float32) [][]float32 {
	pj := vectorize.NewPointJoiner(10, 20, 1)
	for _, row := range rows {
		for _, major := range row {
			pj.AddRun(major, 1)
		}
		pj.NextMinor()
	}

	lines := pj.JoinerLines()
	sort.Slice(lines, func(i, j int) bool {
		return lines[i][0].Major < lines[j][0].Major
	})

	var out [][]float32
	for _, line := range lines {
		out = append(out, majors(line))
	}
	return out
}

func TestPointJoiner(t *testing.T) {
	tests := []struct {
		Name   string
		Rows   [][]float32
		Output [][]float32
	}{
		{
			Name:   "single point",
			Rows:   [][]float32{{1}},
			Output: nil,
		},
		{
			Name: "two vertical lines",
			Rows: [][]float32{
				{1, 5}, {1, 5}, {1, 5}, {1, 5}, {1, 5}, {1, 5},
			},
			Output: [][]float32{
				{1, 1, 1, 1, 1, 1},
				{5, 5, 5, 5, 5, 5},
			},
		},
		{
			Name: "two 45 degree diagonal lines",
			Rows: [][]float32{
				{1, 15}, {2, 14}, {3, 13}, {4, 12}, {5, 11}, {6, 10},
			},
			Output: [][]float32{
				{1, 2, 3, 4, 5, 6},
				{15, 14, 13, 12, 11, 10},
			},
		},
		{
			Name: "one nearly vertical line and one line diagonal beyond the join threshold",
			Rows: [][]float32{
				{1, 15}, {1.1, 17}, {1, 19}, {1.05, 11}, {1, 13}, {1.1, 15},
			},
			// The second column jumps by more than maxMajorDelta every
			// row, so it never joins into a single admissible line;
			// only the near-vertical column survives filtering.
			Output: [][]float32{
				{1, 1.1, 1, 1.05, 1, 1.1},
			},
		},
	}

	for _, test := range tests {
		got := runRows(test.Rows)
		diff := cmp.Diff(test.Output, got)
		if diff != "" {
			t.Errorf("test %s: incorrect output: %s", test.Name, diff)
		}
	}
}

package vectorize_test

import (
	"penplotter/pkg/color"
	"penplotter/pkg/vectorize"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func makeImage(rows ...string) *vectorize.ColorImage {
	img := vectorize.ColorImage{
		Width:  utf8.RuneCountInString(rows[0]),
		Height: len(rows),
	}
	img.Data = make([]color.Color, img.Width*img.Height)
	i := 0
	for _, row := range rows {
		for _, ch := range row {
			if ch == '◻' {
				img.Data[i] = color.White
			} else if ch == '◼' {
				img.Data[i] = color.Black
			}
			i++
		}
	}
	return &img
}

type Run struct {
	X     float32
	Width int
}

// runRecorder implements vectorize.RunHandler, capturing each AddRun call
// in the order FindHorizontalRuns/FindVerticalRuns report them.
type runRecorder struct {
	runs []Run
}

func (r *runRecorder) AddRun(major float32, width int) {
	r.runs = append(r.runs, Run{X: major, Width: width})
}

func (r *runRecorder) NextMinor() {}

func TestRunDetection(t *testing.T) {
	test := func(img *vectorize.ColorImage, expectedRuns []Run) {
		rec := &runRecorder{}
		vectorize.FindHorizontalRuns(img, rec)
		diff := cmp.Diff(expectedRuns, rec.runs)
		if diff != "" {
			t.Fatalf("incorrect runs: %s", diff)
		}
	}

	test(makeImage(
		"◻◻◻◻◼◼◼◼",
		"◻◻◻◻◼◼◼◼",
		"◻◻◼◼◼◼◻◻",
		"◼◼◼◼◻◻◻◻",
		"◼◼◼◼◻◻◻◻",
		"◻◻◻◻◻◻◻◻", // todo: need to add Y, and also relabel to major/minor, to verify that this row was skipped.
		"◼◼◼◼◼◼◼◼",
		"◼◼◻◻◻◻◼◼",
	), []Run{
		{X: 6, Width: 4},
		{X: 6, Width: 4},
		{X: 4, Width: 4},
		{X: 2, Width: 4},
		{X: 2, Width: 4},
		{X: 4, Width: 8},
		{X: 1, Width: 2}, {X: 7, Width: 2},
	})
}

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"penplotter/pkg/cleaner"
	pcolor "penplotter/pkg/color"
	"penplotter/pkg/engine"
	"penplotter/pkg/gcode"
	"penplotter/pkg/vectorize"
)

func main() {
	penWidth := flag.Float64("pen-width", 0, "pen stroke width in mm, used to drop redundant overlapping strokes")
	visibility := flag.Float64("visibility-threshold", 50, "minimum percent of a stroke that must remain visible to keep it")
	mergeThreshold := flag.Float64("merge-threshold", 0.1, "strokes shorter than this are treated as a single point for overlap purposes")
	maxIterations := flag.Int("max-iterations", 1000, "2-opt iteration cap")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Printf("usage: %s [flags] input-file\n", os.Args[0])
		flag.PrintDefaults()
		return
	}

	filename := args[0]
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		log.Fatalf("file read error: %s", err)
	}

	cfg := engine.Config{
		PenWidth:            *penWidth,
		VisibilityThreshold: *visibility,
		MergeThreshold:      *mergeThreshold,
		MaxIterations:       *maxIterations,
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".svg":
		runSVG(data, cfg)
	case ".gcode", ".nc", ".ngc":
		runGcode(data, cfg)
	case ".png":
		runRaster(data, cfg)
	default:
		log.Fatalf("unrecognized input extension for %q; expected .svg, .gcode, or .png", filename)
	}
}

// runRaster traces the black pixel runs of a scanned or rendered raster
// plan into SVG paths, then hands off to the same cleanup and ordering
// pipeline runSVG uses. Coordinates come out in pixel units, same as
// vectorize.Vectorize itself produces (see vectorize.go's note on this).
func runRaster(data []byte, cfg engine.Config) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("image decode error: %s", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	ci := &vectorize.ColorImage{
		Width:  width,
		Height: height,
		Data:   make([]pcolor.Color, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			ci.Data[x+y*width] = pcolor.RemapColor(byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	svg, err := cleaner.Parse([]byte(vectorize.Vectorize(ci)))
	if err != nil {
		log.Fatalf("parse error: %s", err)
	}

	svg.FilteredAbsoluteMM()
	svg.RotateAndCenter(508, 757)

	cleaner.Undash(svg)
	cleaner.Simplify(svg)

	gcode.Generate(svg, cfg)
}

func runSVG(data []byte, cfg engine.Config) {
	svg, err := cleaner.Parse(data)
	if err != nil {
		log.Fatalf("parse error: %s", err)
	}

	svg.FilteredAbsoluteMM()
	svg.RotateAndCenter(508, 757)

	cleaner.Undash(svg)
	cleaner.Simplify(svg)

	gcode.Generate(svg, cfg)
}

func runGcode(data []byte, cfg engine.Config) {
	paths, meta, err := gcode.Parse(string(data))
	if err != nil {
		log.Fatalf("gcode parse error: %s", err)
	}
	if len(paths) == 0 {
		log.Fatalf("no drawn paths found in %s", os.Args[1])
	}

	bus := engine.NewBus(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range bus.Events() {
			switch evt.Type {
			case engine.EventFilterResult:
				fmt.Fprintf(os.Stderr, "filter: kept %d, removed %d of %d\n", evt.KeptCount, evt.RemovedCount, evt.OriginalCount)
			case engine.EventGreedyResult:
				fmt.Fprintf(os.Stderr, "greedy: %.2fmm -> %.2fmm\n", evt.OriginalDist, evt.Phase1Dist)
			case engine.EventPhase2Result:
				fmt.Fprintf(os.Stderr, "two-opt: %d iterations, %.2fmm -> %.2fmm\n", evt.Iterations, evt.OriginalDist, evt.FinalDist)
			case engine.EventLog:
				fmt.Fprintln(os.Stderr, evt.Msg)
			}
		}
	}()

	result, err := engine.Optimize(context.Background(), paths, cfg, bus)
	<-done
	if err != nil {
		log.Fatalf("optimize error: %s", err)
	}

	fmt.Println(gcode.Emit(result.Sequence, meta))
}

package cleaner

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"

	"penplotter/pkg/engine"
	"penplotter/pkg/svgpath"
)

// subPathPoints flattens a SubPath's geometry into the vertex chain the
// optimizer orders and flips whole paths against. Curve control points
// are not sampled; this is correct for lines but not for curves, same
// as SVGXMLNode.Bounds.
func subPathPoints(path *svgpath.SubPath) []engine.Point {
	points := make([]engine.Point, 0, len(path.DrawTo)+1)
	points = append(points, engine.Point{X: path.X, Y: path.Y})
	for _, d := range path.DrawTo {
		points = append(points, engine.Point{X: d.X, Y: d.Y})
	}
	return points
}

// SortPaths reorders svg's child paths to minimize pen-up travel.
// Styles travel with their path through the reordering.
func SortPaths(svg *SVGXMLNode, cfg engine.Config) error {
	var subpaths []*svgpath.SubPath
	var enginePaths []engine.Path
	pathStyles := map[*svgpath.SubPath]map[string]string{}

	for _, child := range svg.Children {
		for _, path := range child.Path {
			ep, err := engine.NewPath(subPathPoints(path))
			if err != nil {
				// A subpath with no draw commands (a single point) or a
				// non-finite coordinate; drop it rather than fail the whole job.
				continue
			}
			subpaths = append(subpaths, path)
			enginePaths = append(enginePaths, ep)
			pathStyles[path] = child.style
		}
	}

	if len(enginePaths) == 0 {
		return nil
	}

	bus := engine.NewBus(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range bus.Events() {
			logProgressEvent(evt)
		}
	}()

	result, err := engine.Optimize(context.Background(), enginePaths, cfg, bus)
	<-done
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Total number of paths: %d\n", result.Sequence.Len())
	fmt.Fprintf(os.Stderr, "Pen-up travel: %.2fmm original, %.2fmm after greedy, %.2fmm after %d 2-opt iterations\n",
		result.OriginalPenUp, result.GreedyPenUp, result.FinalPenUp, result.Iterations)

	svg.Children = nil
	for _, entry := range result.Sequence.Entries() {
		// entry.Index refers to the filter's surviving paths.
		path := subpaths[result.Filter.KeptIndices[entry.Index]]
		styles := pathStyles[path]
		if entry.Flipped {
			path = path.Reverse()
		}
		svg.Children = append(svg.Children, &SVGXMLNode{
			XMLName: xml.Name{
				Space: "http://www.w3.org/2000/svg",
				Local: "path",
			},
			// TODO: need to keep track of categories within the tree...for now just let them all collapse into black
			Category: CategoryFullCut,
			Path:     []*svgpath.SubPath{path},
			style:    styles,
		})
	}
	return nil
}

func logProgressEvent(evt engine.Event) {
	switch evt.Type {
	case engine.EventFilterStart:
		fmt.Fprintf(os.Stderr, "filter: %d paths, pen width %.2fmm, visibility threshold %.0f%%\n",
			evt.PathCount, evt.PenWidth, evt.VisibilityThreshold)
	case engine.EventFilterResult:
		fmt.Fprintf(os.Stderr, "filter: kept %d, removed %d of %d\n", evt.KeptCount, evt.RemovedCount, evt.OriginalCount)
	case engine.EventGreedyResult:
		fmt.Fprintf(os.Stderr, "greedy: %d paths, %.2fmm -> %.2fmm\n", evt.PathCount, evt.OriginalDist, evt.Phase1Dist)
	case engine.EventTwoOptStart:
		fmt.Fprintln(os.Stderr, "two-opt: starting refinement")
	case engine.EventPhase2Result:
		fmt.Fprintf(os.Stderr, "two-opt: %d iterations, %.2fmm -> %.2fmm\n", evt.Iterations, evt.OriginalDist, evt.FinalDist)
	case engine.EventLog:
		fmt.Fprintln(os.Stderr, evt.Msg)
	}
}

package gcode

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"penplotter/pkg/engine"
)

// Meta carries the machine parameters recovered from (or destined for)
// a G-code file's pen-up/pen-down Z heights and cut feedrate.
type Meta struct {
	ZUp      float64
	ZDown    float64
	Feedrate float64
}

var defaultMeta = Meta{ZUp: 2.0, ZDown: 0.0, Feedrate: 1000}

var zValueRE = regexp.MustCompile(`Z(-?\d+\.?\d*)`)

// Parse extracts the drawn polylines from a G-code program, recovering
// each pen-down run as one Path. It first scans for the two most
// distinct Z heights used on G0/G1 moves to infer the pen-up and
// pen-down Z, then walks the program tracking position and pen state.
func Parse(text string) ([]engine.Path, Meta, error) {
	lines := strings.Split(text, "\n")
	meta := defaultMeta

	zValues := map[float64]struct{}{}
	for _, line := range lines {
		clean := stripComment(line)
		if strings.Contains(clean, "Z") && (strings.Contains(clean, "G0") || strings.Contains(clean, "G1")) {
			if m := zValueRE.FindStringSubmatch(clean); m != nil {
				if z, err := strconv.ParseFloat(m[1], 64); err == nil {
					zValues[z] = struct{}{}
				}
			}
		}
	}
	if len(zValues) >= 2 {
		sorted := make([]float64, 0, len(zValues))
		for z := range zValues {
			sorted = append(sorted, z)
		}
		sort.Float64s(sorted)
		meta.ZDown = sorted[0]
		meta.ZUp = sorted[len(sorted)-1]
	}

	var paths []engine.Path
	var current []engine.Point
	drawing := false
	curX, curY := 0.0, 0.0

	flush := func() {
		if drawing && len(current) > 1 {
			if p, err := engine.NewPath(current); err == nil {
				paths = append(paths, p)
			}
		}
		current = nil
	}

	for _, line := range lines {
		clean := stripComment(line)
		if clean == "" {
			continue
		}
		fields := strings.Fields(clean)
		cmd := strings.ToUpper(fields[0])

		var x, y, z, f *float64
		for _, part := range fields[1:] {
			if len(part) < 2 {
				continue
			}
			val, err := strconv.ParseFloat(part[1:], 64)
			if err != nil {
				continue
			}
			switch part[0] {
			case 'X', 'x':
				x = &val
			case 'Y', 'y':
				y = &val
			case 'Z', 'z':
				z = &val
			case 'F', 'f':
				f = &val
			}
		}

		if f != nil {
			meta.Feedrate = *f
		}
		if x != nil {
			curX = *x
		}
		if y != nil {
			curY = *y
		}

		if cmd != "G0" && cmd != "G1" {
			continue
		}

		if z != nil {
			if *z <= meta.ZDown+0.1 {
				drawing = true
				current = []engine.Point{{X: curX, Y: curY}}
			} else {
				flush()
				drawing = false
			}
		} else if drawing {
			current = append(current, engine.Point{X: curX, Y: curY})
		}
	}
	flush()

	return paths, meta, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Emit renders an ordered, optimized path sequence back to G-code using
// the machine parameters in meta.
func Emit(seq engine.PathSequence, meta Meta) string {
	var b strings.Builder
	b.WriteString("; Optimized toolpath\n")
	b.WriteString("G90 ; Absolute positioning\n")
	b.WriteString("G21 ; Millimeters\n")
	b.WriteString("G0 Z" + formatCoord(meta.ZUp) + " ; Pen up\n")

	for i := 0; i < seq.Len(); i++ {
		entry := seq.Entries()[i]
		path := seq.Path(i)
		points := path.Points()
		if entry.Flipped {
			points = path.Reversed().Points()
		}
		if len(points) == 0 {
			continue
		}
		b.WriteString("G0 X" + formatCoord(points[0].X) + " Y" + formatCoord(points[0].Y) + "\n")
		b.WriteString("G0 Z" + formatCoord(meta.ZDown) + "\n")
		for _, p := range points[1:] {
			b.WriteString("G1 X" + formatCoord(p.X) + " Y" + formatCoord(p.Y) + " F" + formatCoord(meta.Feedrate) + "\n")
		}
		b.WriteString("G0 Z" + formatCoord(meta.ZUp) + "\n")
	}

	b.WriteString("G0 X0 Y0 ; Return to home\n")
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Package export renders stored trajectories to image formats.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 800
	background    = "#0a0a0a"
)

var ErrTooFewFrames = errors.New("export: need at least 2 frames")

// Fallback stroke for bodies without a color.
var defaultStroke = colorful.Color{R: 0, G: 1, B: 0}

// WriteSVG draws every body's path in the x-y plane. All bodies share one
// scale so relative distances are preserved, and each body's final position
// is marked with a dot.
func WriteSVG(w io.Writer, frames []sim.Frame, colors []colorful.Color, width, height int) error {
	if len(frames) < 2 {
		return ErrTooFewFrames
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, f := range frames {
		for _, p := range f.Positions {
			x, y := float64(p[0]), float64(p[1])
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	scale := math.Min(float64(width), float64(height)) / span

	project := func(x, y float32) (float64, float64) {
		return float64(width)/2 + (float64(x)-cx)*scale,
			float64(height)/2 - (float64(y)-cy)*scale
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	n := len(frames[0].Positions)
	for i := 0; i < n; i++ {
		stroke := defaultStroke
		if i < len(colors) {
			stroke = colors[i]
		}
		fmt.Fprintf(bw, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke.Hex())
		var lastX, lastY float64
		for j, f := range frames {
			if i >= len(f.Positions) {
				continue
			}
			lastX, lastY = project(f.Positions[i][0], f.Positions[i][1])
			if j == 0 {
				fmt.Fprintf(bw, "M%.1f,%.1f", lastX, lastY)
			} else {
				fmt.Fprintf(bw, " L%.1f,%.1f", lastX, lastY)
			}
		}
		fmt.Fprintf(bw, "\"/>\n<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"/>\n", lastX, lastY, stroke.Hex())
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

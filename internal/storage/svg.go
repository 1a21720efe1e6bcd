package storage

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// WriteSVG draws the curve (xs[i], ys[i]) as a single SVG path scaled
// to width x height, with 10% padding around the data.
func WriteSVG(w io.Writer, xs, ys []float64, width, height int, stroke string) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("svg: %d x values but %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return fmt.Errorf("svg: need at least two points, got %d", len(xs))
	}

	minX, maxX := span(xs)
	minY, maxY := span(ys)
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`, width, height, width, height, stroke)

	for i := range xs {
		px := (xs[i] - minX) / rangeX * float64(width)
		py := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, px, py)
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func span(data []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

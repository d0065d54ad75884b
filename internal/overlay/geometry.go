package overlay

import (
	"math"

	"github.com/set-night/skyvqa/internal/domain"
)

// maxCornerExtent bounds corner coordinates in pixels. Beyond it float32
// rasterization loses integer precision or overflows.
const maxCornerExtent = 1 << 24

// Point is a position in pixel space, y growing downwards.
type Point struct {
	X, Y float64
}

// StrokeWidth scales the outline with the image but never below 3px.
func StrokeWidth(width, height int) float64 {
	return math.Max(3, math.Floor(float64(min(width, height))/200))
}

// OrientedCorners converts a normalized box into its four pixel corners,
// rotated by the box angle about the box center. The x pair is scaled by
// width and the y pair by height. ok is false for malformed boxes and for
// boxes whose corners land outside the rasterizable range.
func OrientedCorners(b domain.DetectionBox, width, height int) (corners [4]Point, ok bool) {
	if !b.Valid() {
		return corners, false
	}
	for _, v := range b.Coords[:min(len(b.Coords), 5)] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return corners, false
		}
	}

	w, h := float64(width), float64(height)
	x1 := b.Coords[0] / 100 * w
	y1 := b.Coords[1] / 100 * h
	x2 := b.Coords[2] / 100 * w
	y2 := b.Coords[3] / 100 * h

	cx, cy := (x1+x2)/2, (y1+y2)/2
	hw, hh := (x2-x1)/2, (y2-y1)/2

	rad := b.Angle() * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	offsets := [4]Point{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}
	for i, o := range offsets {
		p := Point{
			X: cx + o.X*cos - o.Y*sin,
			Y: cy + o.X*sin + o.Y*cos,
		}
		if !inRasterRange(p.X) || !inRasterRange(p.Y) {
			return [4]Point{}, false
		}
		corners[i] = p
	}
	return corners, true
}

func inRasterRange(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= maxCornerExtent
}

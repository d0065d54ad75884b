package overlay

import (
	"math"

	"golang.org/x/image/vector"
)

// addPolygonStroke adds the outline of the closed polygon pts to z.
// Every edge becomes a square-capped quad of the given width, built from the
// edge direction, so all quads share one winding and overlaps never cancel.
// It reports whether any edge was added.
func addPolygonStroke(z *vector.Rasterizer, pts []Point, width float64) bool {
	half := width / 2

	added := false
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		dx, dy := q.X-p.X, q.Y-p.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}

		ux, uy := dx/length*half, dy/length*half
		nx, ny := -uy, ux
		ax, ay := p.X-ux, p.Y-uy
		bx, by := q.X+ux, q.Y+uy

		z.MoveTo(float32(ax+nx), float32(ay+ny))
		z.LineTo(float32(bx+nx), float32(by+ny))
		z.LineTo(float32(bx-nx), float32(by-ny))
		z.LineTo(float32(ax-nx), float32(ay-ny))
		z.ClosePath()
		added = true
	}
	return added
}

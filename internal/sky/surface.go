package sky

import (
	"image/color"
	"math"
)

// Point is a position in surface pixel coordinates.
type Point struct {
	X, Y float64
}

// Surface is the drawing backend the animator paints onto. Coordinates are
// logical surface pixels; a backend may scale them to its own resolution.
type Surface interface {
	// Resize sets the surface dimensions in pixels.
	Resize(width, height int)

	// Clear fills the whole surface with an opaque colour.
	Clear(c color.Color)

	// FillStar fills a five-pointed star centred at (x, y) with one point
	// straight up. See StarPath for the exact outline.
	FillStar(x, y, radius float64, c color.Color)

	// Polyline strokes a connected path through pts, joining the last
	// point back to the first when closed is set.
	Polyline(pts []Point, closed bool, width float64, c color.Color)

	// RadialVignette darkens the surface around (cx, cy): transparent up to
	// inner, fading linearly to alpha-opacity black at outer and beyond.
	RadialVignette(cx, cy, inner, outer, alpha float64)
}

// StarPath returns the ten outline vertices of a five-pointed star centred
// at (x, y). Vertices alternate between radius and 0.6*radius, 36 degrees
// apart, clockwise on a y-down surface, starting straight up.
func StarPath(x, y, radius float64) []Point {
	pts := make([]Point, 10)
	for k := range pts {
		d := radius
		if k%2 == 1 {
			d = radius * starInnerRatio
		}
		theta := float64(k) * math.Pi / 5
		pts[k] = Point{
			X: x + d*math.Sin(theta),
			Y: y - d*math.Cos(theta),
		}
	}
	return pts
}

// Bounds returns the axis-aligned bounding box of pts grown by pad on every
// side.
func Bounds(pts []Point, pad float64) (minX, minY, maxX, maxY float64) {
	if len(pts) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX - pad, minY - pad, maxX + pad, maxY + pad
}

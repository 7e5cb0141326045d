// Package raster paints sky frames into an in-memory RGBA image.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"

	"github.com/litescript/ls-nightsky/internal/sky"
)

// Canvas is a sky.Surface backed by an *image.RGBA. Logical coordinates are
// multiplied by the scale factor, so a 1280x720 sky can be painted into a
// terminal-sized image.
type Canvas struct {
	img   *image.RGBA
	scale float64
	z     *vector.Rasterizer

	vignette vignetteMask
}

var _ sky.Surface = (*Canvas)(nil)

// New creates a canvas for a logical surface of width x height pixels.
func New(width, height int, scale float64) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	c := &Canvas{
		scale: scale,
		z:     vector.NewRasterizer(1, 1),
	}
	c.Resize(width, height)
	return c
}

// Image returns the backing image. It is reused across frames.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Scale returns the logical-to-device scale factor.
func (c *Canvas) Scale() float64 {
	return c.scale
}

// SetScale changes the scale factor. It takes effect on the next Resize.
func (c *Canvas) SetScale(scale float64) {
	if scale > 0 {
		c.scale = scale
	}
}

// Resize implements sky.Surface.
func (c *Canvas) Resize(width, height int) {
	w := int(math.Ceil(float64(width) * c.scale))
	h := int(math.Ceil(float64(height) * c.scale))
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	if c.img != nil && c.img.Bounds().Dx() == w && c.img.Bounds().Dy() == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.vignette = vignetteMask{}
}

// Clear implements sky.Surface.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(Opaque(col)), image.Point{}, draw.Src)
}

// FillStar implements sky.Surface.
func (c *Canvas) FillStar(x, y, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	c.fill([][]sky.Point{sky.StarPath(x, y, radius)}, col)
}

// miterLimit is the longest miter, in stroke widths, before a join falls
// back to a bevel. Same default as an HTML canvas.
const miterLimit = 10

// Polyline implements sky.Surface. Each segment is stroked as a quad with
// butt ends and each vertex between two segments gets a miter join, or a
// bevel past the miter limit. All pieces share one coverage mask.
func (c *Canvas) Polyline(pts []sky.Point, closed bool, width float64, col color.Color) {
	if len(pts) < 2 || width <= 0 {
		return
	}

	n := len(pts) - 1
	if closed {
		n = len(pts)
	}

	half := width / 2
	segs := make([]segment, 0, n)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%len(pts)]

		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		segs = append(segs, segment{a: a, b: b, dx: dx / l, dy: dy / l})
	}

	polys := make([][]sky.Point, 0, 2*len(segs))
	for _, s := range segs {
		nx, ny := -s.dy*half, s.dx*half
		polys = append(polys, []sky.Point{
			{X: s.a.X + nx, Y: s.a.Y + ny},
			{X: s.b.X + nx, Y: s.b.Y + ny},
			{X: s.b.X - nx, Y: s.b.Y - ny},
			{X: s.a.X - nx, Y: s.a.Y - ny},
		})
	}

	joins := len(segs) - 1
	if closed && len(segs) > 1 {
		joins = len(segs)
	}
	for i := 0; i < joins; i++ {
		if j := join(segs[i], segs[(i+1)%len(segs)], half); j != nil {
			polys = append(polys, j)
		}
	}

	c.fill(polys, col)
}

// segment is one non-empty polyline edge with its unit direction.
type segment struct {
	a, b   sky.Point
	dx, dy float64
}

// join returns the polygon filling the outer corner where in meets out, or
// nil when the two are collinear.
func join(in, out segment, half float64) []sky.Point {
	cross := in.dx*out.dy - in.dy*out.dx
	if cross == 0 {
		return nil
	}

	// The outer side is away from the turn.
	side := half
	if cross > 0 {
		side = -half
	}
	p := in.b
	n1 := sky.Point{X: -in.dy * side, Y: in.dx * side}
	n2 := sky.Point{X: -out.dy * side, Y: out.dx * side}
	e1 := sky.Point{X: p.X + n1.X, Y: p.Y + n1.Y}
	e2 := sky.Point{X: p.X + n2.X, Y: p.Y + n2.Y}

	mx, my := n1.X+n2.X, n1.Y+n2.Y
	ml := math.Hypot(mx, my)
	if ml == 0 {
		return []sky.Point{p, e1, e2}
	}
	// cos of half the turn, between the miter direction and either normal.
	cos := (mx*n1.X + my*n1.Y) / (ml * half)
	if cos <= 0 || 1/cos > miterLimit {
		return []sky.Point{p, e1, e2}
	}

	d := half / cos / ml
	tip := sky.Point{X: p.X + mx*d, Y: p.Y + my*d}
	return []sky.Point{p, e1, tip, e2}
}

// RadialVignette implements sky.Surface with canvas radial-gradient
// semantics for concentric circles: the gradient position of a pixel at
// distance d is (d-inner)/(outer-inner), clamped to [0, 1]. Equal radii
// paint nothing.
func (c *Canvas) RadialVignette(cx, cy, inner, outer, alpha float64) {
	if outer == inner || alpha <= 0 {
		return
	}

	keep := c.vignette.get(c.img.Bounds(), c.scale, vignetteKey{cx, cy, inner, outer, alpha})
	pix := c.img.Pix
	for i, k := range keep {
		if k == 1 {
			continue
		}
		o := i * 4
		pix[o+0] = uint8(float32(pix[o+0])*k + 0.5)
		pix[o+1] = uint8(float32(pix[o+1])*k + 0.5)
		pix[o+2] = uint8(float32(pix[o+2])*k + 0.5)
	}
}

// fill rasterises the closed paths as a single anti-aliased mask and
// composites col over the image. Only the paths' bounding box is touched.
func (c *Canvas) fill(paths [][]sky.Point, col color.Color) {
	var all []sky.Point
	for _, p := range paths {
		all = append(all, p...)
	}
	if len(all) == 0 {
		return
	}

	minX, minY, maxX, maxY := sky.Bounds(all, 0)
	r := image.Rect(
		int(math.Floor(minX*c.scale)),
		int(math.Floor(minY*c.scale)),
		int(math.Ceil(maxX*c.scale)),
		int(math.Ceil(maxY*c.scale)),
	).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}

	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	c.z.Reset(r.Dx(), r.Dy())
	for _, path := range paths {
		if len(path) < 3 {
			continue
		}
		path = clockwise(path)
		c.z.MoveTo(float32(path[0].X*c.scale-ox), float32(path[0].Y*c.scale-oy))
		for _, p := range path[1:] {
			c.z.LineTo(float32(p.X*c.scale-ox), float32(p.Y*c.scale-oy))
		}
		c.z.ClosePath()
	}
	c.z.Draw(c.img, r, image.NewUniform(col), image.Point{})
}

// clockwise returns path wound clockwise in image space. The rasterizer
// takes the absolute accumulated area, so overlapping paths of opposite
// winding would cancel.
func clockwise(path []sky.Point) []sky.Point {
	var area float64
	for i, p := range path {
		q := path[(i+1)%len(path)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area >= 0 {
		return path
	}
	out := make([]sky.Point, len(path))
	for i, p := range path {
		out[len(path)-1-i] = p
	}
	return out
}

// Opaque drops any alpha from col. Nil and fully transparent colours become
// black.
func Opaque(col color.Color) colorful.Color {
	if col == nil {
		return colorful.Color{}
	}
	cf, ok := colorful.MakeColor(col)
	if !ok {
		return colorful.Color{}
	}
	return cf.Clamped()
}

package raster

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-nightsky/internal/sky"
)

func TestCanvas_ClearIsSolid(t *testing.T) {
	c := New(800, 600, 1)
	c.FillStar(400, 300, 5, color.White)
	c.Clear(color.Black)

	img := c.Image()
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Fatalf("image size = %v, want 800x600", img.Bounds())
	}
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{A: 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want opaque black", x, y, got)
			}
		}
	}
}

func TestCanvas_ClearDropsAlpha(t *testing.T) {
	c := New(4, 4, 1)
	c.Clear(color.RGBA{})

	if got := c.Image().RGBAAt(1, 1); got.A != 255 {
		t.Errorf("alpha = %d, want 255", got.A)
	}
}

func TestCanvas_Scale(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		scale        float64
		wantW, wantH int
	}{
		{"identity", 100, 50, 1, 100, 50},
		{"half", 100, 50, 0.5, 50, 25},
		{"rounds up", 101, 51, 0.5, 51, 26},
		{"zero scale defaults to 1", 10, 10, 0, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.w, tt.h, tt.scale)
			b := c.Image().Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCanvas_FillStar(t *testing.T) {
	c := New(100, 100, 1)
	c.Clear(color.Black)
	c.FillStar(50, 50, 10, color.White)

	img := c.Image()
	if got := img.RGBAAt(50, 50); got.R < 250 {
		t.Errorf("centre = %v, want white", got)
	}
	// Tip of the upper point.
	if got := img.RGBAAt(50, 42); got.R < 200 {
		t.Errorf("upper point = %v, want lit", got)
	}
	// Between the two upper points, outside the inner radius.
	if got := img.RGBAAt(56, 41); got.R != 0 {
		t.Errorf("notch = %v, want black", got)
	}
	if got := img.RGBAAt(5, 5); got.R != 0 {
		t.Errorf("far corner = %v, want black", got)
	}
}

func TestCanvas_FillStarOffEdge(t *testing.T) {
	c := New(20, 20, 1)
	c.Clear(color.Black)

	// Must not panic when partially or fully outside.
	c.FillStar(1, 10, 5, color.White)
	c.FillStar(100, 100, 5, color.White)
	c.FillStar(10, 18, 0, color.White)

	if got := c.Image().RGBAAt(1, 10); got.R < 250 {
		t.Error("visible part of a clipped star not painted")
	}
}

func TestCanvas_Polyline(t *testing.T) {
	c := New(100, 100, 1)
	c.Clear(color.Black)
	c.Polyline([]sky.Point{{X: 10, Y: 50}, {X: 90, Y: 50}}, false, 4, color.White)

	img := c.Image()
	if got := img.RGBAAt(50, 50); got.R < 250 {
		t.Errorf("on line = %v, want white", got)
	}
	if got := img.RGBAAt(50, 60); got.R != 0 {
		t.Errorf("off line = %v, want black", got)
	}
	if got := img.RGBAAt(5, 50); got.R != 0 {
		t.Errorf("before start = %v, want black", got)
	}
}

func TestCanvas_PolylineClosed(t *testing.T) {
	pts := []sky.Point{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 90, Y: 90}}

	open := New(100, 100, 1)
	open.Clear(color.Black)
	open.Polyline(pts, false, 2, color.White)

	closed := New(100, 100, 1)
	closed.Clear(color.Black)
	closed.Polyline(pts, true, 2, color.White)

	// The closing diagonal passes through (50, 50).
	if got := open.Image().RGBAAt(50, 50); got.R != 0 {
		t.Errorf("open polyline painted the closing edge: %v", got)
	}
	if got := closed.Image().RGBAAt(50, 50); got.R == 0 {
		t.Error("closed polyline missing the closing edge")
	}
}

func TestCanvas_PolylineCorners(t *testing.T) {
	c := New(100, 100, 1)
	c.Clear(color.Black)
	c.Polyline([]sky.Point{{X: 10, Y: 50}, {X: 50, Y: 50}, {X: 50, Y: 90}}, false, 4, color.White)

	img := c.Image()
	tests := []struct {
		name  string
		x, y  int
		white bool
	}{
		{"first segment", 30, 49, true},
		{"second segment", 51, 70, true},
		{"miter corner", 51, 48, true},
		{"inside miter", 51, 49, true},
		{"beyond miter tip", 53, 47, false},
	}

	for _, tt := range tests {
		got := img.RGBAAt(tt.x, tt.y).R
		if tt.white && got < 250 {
			t.Errorf("%s (%d,%d) R = %d, want white", tt.name, tt.x, tt.y, got)
		}
		if !tt.white && got != 0 {
			t.Errorf("%s (%d,%d) R = %d, want black", tt.name, tt.x, tt.y, got)
		}
	}
}

func TestCanvas_PolylineClosedJoin(t *testing.T) {
	// The closing vertex (20, 20) joins the edge up from (20, 80) with the
	// closing edge to (80, 20) at a right angle; its outer corner is up and
	// to the left.
	pts := []sky.Point{{X: 20, Y: 20}, {X: 80, Y: 20}, {X: 20, Y: 80}}

	open := New(100, 100, 1)
	open.Clear(color.Black)
	open.Polyline([]sky.Point{pts[0], pts[1]}, false, 4, color.White)

	closed := New(100, 100, 1)
	closed.Clear(color.Black)
	closed.Polyline([]sky.Point{pts[1], pts[2], pts[0]}, true, 4, color.White)

	if got := open.Image().RGBAAt(18, 18).R; got != 0 {
		t.Errorf("butt end painted the corner: R = %d", got)
	}
	if got := closed.Image().RGBAAt(18, 18).R; got < 250 {
		t.Errorf("closing join corner R = %d, want white", got)
	}
}

func TestCanvas_PolylineBevelPastMiterLimit(t *testing.T) {
	c := New(100, 100, 1)
	c.Clear(color.Black)
	// Almost a full reversal: a miter would reach far past the vertex.
	c.Polyline([]sky.Point{{X: 10, Y: 50}, {X: 80, Y: 50}, {X: 10, Y: 51}}, false, 4, color.White)

	img := c.Image()
	for x := 84; x < 100; x++ {
		if got := img.RGBAAt(x, 50).R; got != 0 {
			t.Fatalf("pixel (%d,50) R = %d, want black past the bevel", x, got)
		}
	}
	if got := img.RGBAAt(79, 50).R; got < 250 {
		t.Errorf("vertex R = %d, want white", got)
	}
}

func TestJoin(t *testing.T) {
	in := segment{a: sky.Point{X: 0, Y: 0}, b: sky.Point{X: 10, Y: 0}, dx: 1, dy: 0}

	straight := segment{a: in.b, b: sky.Point{X: 20, Y: 0}, dx: 1, dy: 0}
	if j := join(in, straight, 2); j != nil {
		t.Errorf("collinear join = %v, want nil", j)
	}

	down := segment{a: in.b, b: sky.Point{X: 10, Y: 10}, dx: 0, dy: 1}
	j := join(in, down, 2)
	if len(j) != 4 {
		t.Fatalf("right-angle join has %d points, want a 4 point miter", len(j))
	}
	if tip := j[2]; math.Abs(tip.X-12) > 1e-9 || math.Abs(tip.Y+2) > 1e-9 {
		t.Errorf("miter tip = %v, want (12, -2)", tip)
	}
}

func TestClockwise(t *testing.T) {
	cw := []sky.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	ccw := []sky.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}}

	if got := clockwise(cw); got[1] != cw[1] {
		t.Errorf("clockwise path was reordered: %v", got)
	}
	got := clockwise(ccw)
	if got[0] != ccw[2] || got[2] != ccw[0] {
		t.Errorf("counter-clockwise path not reversed: %v", got)
	}
}

func TestOpaque(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want color.RGBA
	}{
		{"nil", nil, color.RGBA{A: 255}},
		{"transparent", color.RGBA{}, color.RGBA{A: 255}},
		{"half red", color.RGBA{R: 128, A: 128}, color.RGBA{R: 255, A: 255}},
		{"opaque", color.RGBA{R: 0xf7, G: 0xea, B: 0xda, A: 255}, color.RGBA{R: 0xf7, G: 0xea, B: 0xda, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := color.RGBAModel.Convert(Opaque(tt.in)).(color.RGBA)
			if got != tt.want {
				t.Errorf("Opaque(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanvas_PolylineDegenerate(t *testing.T) {
	c := New(10, 10, 1)
	c.Clear(color.Black)
	c.Polyline(nil, true, 4, color.White)
	c.Polyline([]sky.Point{{X: 1, Y: 1}}, true, 4, color.White)
	c.Polyline([]sky.Point{{X: 1, Y: 1}, {X: 1, Y: 1}}, false, 4, color.White)
	c.Polyline([]sky.Point{{X: 1, Y: 1}, {X: 8, Y: 8}}, false, 0, color.White)

	for i := 0; i < len(c.Image().Pix); i += 4 {
		if c.Image().Pix[i] != 0 {
			t.Fatal("degenerate polyline painted pixels")
		}
	}
}

func TestCanvas_RadialVignette(t *testing.T) {
	c := New(1000, 600, 1)
	c.Clear(color.White)
	c.RadialVignette(500, 300, 250, 500, 0.75)

	img := c.Image()
	if got := img.RGBAAt(500, 300); got.R != 255 {
		t.Errorf("centre = %v, want untouched", got)
	}
	if got := img.RGBAAt(700, 300); got.R != 255 {
		t.Errorf("inside inner radius = %v, want untouched", got)
	}
	// Corner is beyond the outer radius: 25% brightness.
	if got := img.RGBAAt(0, 0); got.R < 62 || got.R > 66 {
		t.Errorf("corner = %v, want ~64", got)
	}
	// Halfway between inner and outer: 1 - 0.75*0.5.
	if got := img.RGBAAt(875, 300); got.R < 157 || got.R > 162 {
		t.Errorf("midway = %v, want ~159", got)
	}
	if got := img.RGBAAt(0, 0); got.A != 255 {
		t.Errorf("alpha = %d, want 255", got.A)
	}
}

func TestCanvas_RadialVignetteEqualRadii(t *testing.T) {
	c := New(10, 10, 1)
	c.Clear(color.White)
	c.RadialVignette(5, 5, 3, 3, 0.75)

	if got := c.Image().RGBAAt(0, 0); got.R != 255 {
		t.Errorf("corner = %v, want untouched", got)
	}
}

func TestCanvas_AnimatorFrame(t *testing.T) {
	c := New(0, 0, 0.25)
	opts := sky.ConstellationOptions()
	opts.Seed = 7
	a := sky.New(c, opts)
	a.Initialize(800, 600)
	a.Populate(sky.DefaultStarCount)

	for i := 0; i < 10; i++ {
		a.Tick(time.Duration(i) * 16 * time.Millisecond)
	}

	img := c.Image()
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 150 {
		t.Fatalf("image size = %v, want 200x150", img.Bounds())
	}

	lit := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no stars visible after ten frames")
	}
}

// Package svgsky writes sky frames as SVG documents.
package svgsky

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nightsky/internal/sky"
)

// Writer is a sky.Surface that emits SVG elements. Callers bracket each
// frame with Begin and End.
type Writer struct {
	out    *errWriter
	canvas *svg.SVG

	width, height int
	gradients     int
}

var _ sky.Surface = (*Writer)(nil)

// New creates a writer emitting to w.
func New(w io.Writer) *Writer {
	ew := &errWriter{w: w}
	return &Writer{
		out:    ew,
		canvas: svg.New(ew),
	}
}

// WriteFrame writes list as one complete SVG document of the given size.
func WriteFrame(w io.Writer, width, height int, list sky.DisplayList) error {
	sw := New(w)
	sw.Resize(width, height)
	sw.Begin()
	list.Replay(sw)
	sw.End()
	return sw.Err()
}

// Begin opens a document at the current size.
func (w *Writer) Begin() {
	w.canvas.Start(w.width, w.height)
	w.canvas.Title("Night sky")
}

// End closes the document.
func (w *Writer) End() {
	w.canvas.End()
}

// Err returns the first error from the underlying writer.
func (w *Writer) Err() error {
	return w.out.err
}

// Resize implements sky.Surface. It applies to the next Begin.
func (w *Writer) Resize(width, height int) {
	w.width = width
	w.height = height
}

// Clear implements sky.Surface.
func (w *Writer) Clear(c color.Color) {
	w.canvas.Rect(0, 0, w.width, w.height, "fill:"+hexColor(c))
}

// FillStar implements sky.Surface.
func (w *Writer) FillStar(x, y, radius float64, c color.Color) {
	if radius <= 0 {
		return
	}
	w.canvas.Path(pathData(sky.StarPath(x, y, radius), true), "fill:"+hexColor(c))
}

// Polyline implements sky.Surface.
func (w *Writer) Polyline(pts []sky.Point, closed bool, width float64, c color.Color) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s;stroke-linejoin:miter",
		hexColor(c), num(width))
	w.canvas.Path(pathData(pts, closed), style)
}

// RadialVignette implements sky.Surface. SVG gradient radii are relative to
// the bounding box of the filled shape, so the overlay is a square centred
// on (cx, cy) that covers the whole surface.
func (w *Writer) RadialVignette(cx, cy, inner, outer, alpha float64) {
	if inner == outer || alpha <= 0 {
		return
	}

	half := math.Max(math.Max(cx, float64(w.width)-cx), math.Max(cy, float64(w.height)-cy))
	if half <= 0 {
		return
	}

	// Stops run from the smaller radius to the larger; a reversed gradient
	// darkens the centre instead of the rim.
	near, far := inner, outer
	nearOpacity, farOpacity := 0.0, alpha
	if outer < inner {
		near, far = outer, inner
		nearOpacity, farOpacity = alpha, 0
	}

	w.gradients++
	id := fmt.Sprintf("vignette%d", w.gradients)

	w.canvas.Def()
	w.canvas.RadialGradient(id, 50, 50, percent(far/(2*half)), 50, 50, []svg.Offcolor{
		{Offset: percent(near / far), Color: "black", Opacity: nearOpacity},
		{Offset: 100, Color: "black", Opacity: farOpacity},
	})
	w.canvas.DefEnd()

	side := int(math.Ceil(2 * half))
	w.canvas.Rect(int(math.Floor(cx-half)), int(math.Floor(cy-half)), side, side, "fill:url(#"+id+")")
}

func pathData(pts []sky.Point, closed bool) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p.X))
		b.WriteString(" ")
		b.WriteString(num(p.Y))
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

func percent(f float64) uint8 {
	p := math.Round(f * 100)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return uint8(p)
}

func hexColor(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Clamped().Hex()
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

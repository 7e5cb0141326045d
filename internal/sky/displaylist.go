package sky

import "image/color"

// Op identifies a recorded drawing command.
type Op int

const (
	OpResize Op = iota
	OpClear
	OpStar
	OpPolyline
	OpVignette
)

func (o Op) String() string {
	switch o {
	case OpResize:
		return "resize"
	case OpClear:
		return "clear"
	case OpStar:
		return "star"
	case OpPolyline:
		return "polyline"
	case OpVignette:
		return "vignette"
	default:
		return "unknown"
	}
}

// Command is one recorded Surface call. Only the fields relevant to Op are
// set.
type Command struct {
	Op Op

	Width, Height int // resize

	X, Y, Radius float64 // star centre and radius, vignette centre

	Points      []Point // polyline
	Closed      bool
	StrokeWidth float64

	Inner, Outer, Alpha float64 // vignette

	Color color.Color
}

// DisplayList records Surface calls instead of painting them. It is the
// output of Animator.Frame and can be replayed onto any Surface.
type DisplayList []Command

var _ Surface = (*DisplayList)(nil)

// Resize implements Surface.
func (l *DisplayList) Resize(width, height int) {
	*l = append(*l, Command{Op: OpResize, Width: width, Height: height})
}

// Clear implements Surface.
func (l *DisplayList) Clear(c color.Color) {
	*l = append(*l, Command{Op: OpClear, Color: c})
}

// FillStar implements Surface.
func (l *DisplayList) FillStar(x, y, radius float64, c color.Color) {
	*l = append(*l, Command{Op: OpStar, X: x, Y: y, Radius: radius, Color: c})
}

// Polyline implements Surface. The points are copied because callers pass
// positions of stars that keep moving.
func (l *DisplayList) Polyline(pts []Point, closed bool, width float64, c color.Color) {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	*l = append(*l, Command{Op: OpPolyline, Points: cp, Closed: closed, StrokeWidth: width, Color: c})
}

// RadialVignette implements Surface.
func (l *DisplayList) RadialVignette(cx, cy, inner, outer, alpha float64) {
	*l = append(*l, Command{Op: OpVignette, X: cx, Y: cy, Inner: inner, Outer: outer, Alpha: alpha})
}

// Replay issues every recorded command, in order, on s.
func (l DisplayList) Replay(s Surface) {
	for _, c := range l {
		switch c.Op {
		case OpResize:
			s.Resize(c.Width, c.Height)
		case OpClear:
			s.Clear(c.Color)
		case OpStar:
			s.FillStar(c.X, c.Y, c.Radius, c.Color)
		case OpPolyline:
			s.Polyline(c.Points, c.Closed, c.StrokeWidth, c.Color)
		case OpVignette:
			s.RadialVignette(c.X, c.Y, c.Inner, c.Outer, c.Alpha)
		}
	}
}

// Count returns how many commands of the given kind were recorded.
func (l DisplayList) Count(op Op) int {
	n := 0
	for _, c := range l {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the sequence of recorded command kinds.
func (l DisplayList) Ops() []Op {
	ops := make([]Op, len(l))
	for i, c := range l {
		ops[i] = c.Op
	}
	return ops
}

// Reset drops all recorded commands, keeping the backing array.
func (l *DisplayList) Reset() {
	*l = (*l)[:0]
}

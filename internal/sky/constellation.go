package sky

import "math"

// Rect is an axis-aligned region of the sky.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether (x, y) lies strictly inside r.
func (r Rect) Contains(x, y float64) bool {
	return x > r.MinX && x < r.MaxX && y > r.MinY && y < r.MaxY
}

// Constellation links a handful of stars that were close together when it
// was created. Members point into the animator's star slice, so the lines
// follow the stars as they drift.
type Constellation struct {
	members []*Star
	closed  bool
	width   float64
	region  Rect
}

// drawable reports whether the constellation has anything to show.
func (c *Constellation) drawable() bool {
	return c != nil && len(c.members) > 2 && c.width > 0
}

// decay thins the stroke by step, never below zero.
func (c *Constellation) decay(step float64) {
	c.width = math.Max(c.width-step, 0)
}

func (c *Constellation) points() []Point {
	pts := make([]Point, len(c.members))
	for i, s := range c.members {
		pts[i] = Point{X: s.X, Y: s.Y}
	}
	return pts
}

func (c *Constellation) info() *ConstellationInfo {
	return &ConstellationInfo{
		Members: len(c.members),
		Closed:  c.closed,
		Width:   c.width,
		Points:  c.points(),
		Region:  c.region,
	}
}

// ConstellationInfo is a read-only view of a constellation.
type ConstellationInfo struct {
	Members int
	Closed  bool
	Width   float64
	Points  []Point

	// Region is the rectangle the members were sampled from.
	Region Rect
}

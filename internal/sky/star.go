package sky

import "image/color"

// Star is one drifting particle. Radius twinkles around BaseRadius every
// tick and always stays within [0.5, 0.75] of it.
type Star struct {
	X, Y       float64
	Speed      float64
	BaseRadius float64
	Radius     float64
	Color      color.Color
}

// advance moves the star one tick along its drift curve on a surface of the
// given width, applies the twinkle factor and recycles the star to just off
// the left edge once it has left on the right. It reports whether the star
// wrapped.
func (s *Star) advance(width, jitter float64) bool {
	s.X += s.Speed
	s.Y -= s.Speed * (width/2 - s.X) / driftDivisor
	s.Radius = s.BaseRadius * jitter

	if s.X > width+2*s.Radius {
		s.X = -2 * s.Radius
		return true
	}
	return false
}

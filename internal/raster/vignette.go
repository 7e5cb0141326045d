package raster

import (
	"image"
	"math"
)

type vignetteKey struct {
	cx, cy, inner, outer, alpha float64
}

// vignetteMask caches the per-pixel brightness factor of the last vignette,
// which only changes when the surface is resized.
type vignetteMask struct {
	key    vignetteKey
	bounds image.Rectangle
	scale  float64
	keep   []float32
}

func (m *vignetteMask) get(bounds image.Rectangle, scale float64, key vignetteKey) []float32 {
	if m.keep != nil && m.key == key && m.bounds == bounds && m.scale == scale {
		return m.keep
	}

	w, h := bounds.Dx(), bounds.Dy()
	keep := make([]float32, w*h)
	span := key.outer - key.inner
	for y := 0; y < h; y++ {
		ly := (float64(y)+0.5)/scale - key.cy
		for x := 0; x < w; x++ {
			lx := (float64(x)+0.5)/scale - key.cx
			t := (math.Hypot(lx, ly) - key.inner) / span
			t = math.Max(0, math.Min(1, t))
			keep[y*w+x] = float32(1 - key.alpha*t)
		}
	}

	m.key = key
	m.bounds = bounds
	m.scale = scale
	m.keep = keep
	return keep
}

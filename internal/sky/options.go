// Package sky animates a drifting field of five-pointed stars with a
// vignette overlay and, optionally, short-lived constellations.
package sky

import (
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultStarCount is the number of stars a host populates at startup.
const DefaultStarCount = 700

const (
	// Star generation
	minRadius    = 2.0
	radiusSpread = 3.0 // radius in [2, 5]

	// Twinkle: current radius = base * [0.5, 0.75)
	jitterMin    = 0.5
	jitterSpread = 0.25

	// Vertical bias of the drift curve
	driftDivisor = 3000.0

	// Inner vertex distance of the star shape, as a fraction of the radius
	starInnerRatio = 0.6

	// Constellations
	constellationWidth = 4.0
	constellationDecay = 0.04
	minMembers         = 3
	memberSpread       = 7 // cap in [3, 10]
	regionJitterX      = 250.0
	regionJitterY      = 150.0

	firstSpawnBase   = 1000 * time.Millisecond
	firstSpawnSpread = 3000 * time.Millisecond
	respawnBase      = 3000 * time.Millisecond
	respawnSpread    = 600 * time.Millisecond

	// Vignette
	vignetteInner = 250.0
	vignetteAlpha = 0.75
)

var (
	black        = colorful.Color{}
	white        = colorful.Color{R: 1, G: 1, B: 1}
	warmWhite, _ = colorful.Hex("#f7eada")
)

// Options configures an Animator. The two variants of the effect differ
// only in MaxSpeed and Constellations.
type Options struct {
	// Surface size in pixels, applied by Initialize when New is given a
	// non-zero size.
	Width  int
	Height int

	// Star speed is drawn uniformly from [0, MaxSpeed] pixels per tick.
	MaxSpeed float64

	// Constellations enables the transient constellation overlay.
	Constellations bool

	Background         color.Color
	StarColor          color.Color
	ConstellationColor color.Color

	// Vignette is transparent inside VignetteInner and reaches
	// VignetteAlpha black at half the surface width. Zero selects the
	// default; a negative VignetteAlpha turns the vignette off.
	VignetteInner float64
	VignetteAlpha float64

	// ConstellationDecay is subtracted from the stroke width every tick.
	// Zero selects the default; a negative value keeps the stroke at full
	// width.
	ConstellationDecay float64

	// Seed for the random source; 0 seeds from the clock.
	Seed int64
}

// ClassicOptions returns the plain drifting-stars variant.
func ClassicOptions() Options {
	return Options{
		MaxSpeed:           0.3,
		Constellations:     false,
		Background:         black,
		StarColor:          white,
		ConstellationColor: warmWhite,
		VignetteInner:      vignetteInner,
		VignetteAlpha:      vignetteAlpha,
		ConstellationDecay: constellationDecay,
	}
}

// ConstellationOptions returns the richer variant with faster stars and
// randomly timed constellations.
func ConstellationOptions() Options {
	opts := ClassicOptions()
	opts.MaxSpeed = 0.6
	opts.Constellations = true
	return opts
}

// withDefaults fills zero-valued fields from ClassicOptions.
func (o Options) withDefaults() Options {
	def := ClassicOptions()
	if o.Background == nil {
		o.Background = def.Background
	}
	if o.StarColor == nil {
		o.StarColor = def.StarColor
	}
	if o.ConstellationColor == nil {
		o.ConstellationColor = def.ConstellationColor
	}
	if o.VignetteInner <= 0 {
		o.VignetteInner = def.VignetteInner
	}
	switch {
	case o.VignetteAlpha < 0:
		o.VignetteAlpha = 0
	case o.VignetteAlpha == 0:
		o.VignetteAlpha = def.VignetteAlpha
	}
	switch {
	case o.ConstellationDecay < 0:
		o.ConstellationDecay = 0
	case o.ConstellationDecay == 0:
		o.ConstellationDecay = def.ConstellationDecay
	}
	if o.MaxSpeed < 0 {
		o.MaxSpeed = 0
	}
	return o
}

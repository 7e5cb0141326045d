package sky

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrNoSurface is returned by Run when the animator has nothing to paint on.
var ErrNoSurface = errors.New("sky: no surface")

// FrameInfo summarises one tick.
type FrameInfo struct {
	Frame   uint64        // 1-based tick counter
	Now     time.Duration // timestamp passed to the tick
	Stars   int
	Wrapped int // stars recycled to the left edge this tick

	// Spawned is set when a new constellation was created this tick.
	Spawned *ConstellationInfo
}

// Animator owns the star field and the current constellation. It is not
// safe for concurrent use; the host scheduler serialises ticks.
type Animator struct {
	surface Surface
	opts    Options
	rng     *rand.Rand

	width  float64
	height float64

	stars         []Star
	constellation *Constellation

	lastSpawn time.Duration
	nextSpawn time.Duration
	frame     uint64
}

// New creates an animator painting onto surface. surface may be nil when the
// caller only uses Frame. If opts carries a size, the surface is initialized
// with it.
func New(surface Surface, opts Options) *Animator {
	opts = opts.withDefaults()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &Animator{
		surface: surface,
		opts:    opts,
		rng:     rand.New(rand.NewSource(seed)),
	}
	a.nextSpawn = firstSpawnBase + a.randDuration(firstSpawnSpread)

	if opts.Width > 0 && opts.Height > 0 {
		a.Initialize(opts.Width, opts.Height)
	}
	return a
}

// Initialize sizes the surface and clears it to the background colour. It
// must be called before the first tick; calling it again resizes the sky
// without touching the stars.
func (a *Animator) Initialize(width, height int) {
	a.width = float64(width)
	a.height = float64(height)
	a.opts.Width = width
	a.opts.Height = height

	if a.surface != nil {
		a.surface.Resize(width, height)
		a.surface.Clear(a.opts.Background)
	}
}

// Populate replaces the star field with count random stars. The current
// constellation is dropped since its members no longer exist.
func (a *Animator) Populate(count int) {
	if count < 0 {
		count = 0
	}

	stars := make([]Star, count)
	for i := range stars {
		base := a.rng.Float64()*radiusSpread + minRadius
		stars[i] = Star{
			X:          a.rng.Float64() * a.width,
			Y:          a.rng.Float64() * a.height,
			Speed:      a.rng.Float64() * a.opts.MaxSpeed,
			BaseRadius: base,
			Radius:     base * a.jitter(),
			Color:      a.opts.StarColor,
		}
	}

	a.stars = stars
	a.constellation = nil
}

// SetStars replaces the star field with a copy of stars.
func (a *Animator) SetStars(stars []Star) {
	a.stars = make([]Star, len(stars))
	copy(a.stars, stars)
	for i := range a.stars {
		if a.stars[i].Color == nil {
			a.stars[i].Color = a.opts.StarColor
		}
	}
	a.constellation = nil
}

// Stars returns a copy of the current star field.
func (a *Animator) Stars() []Star {
	out := make([]Star, len(a.stars))
	copy(out, a.stars)
	return out
}

// Constellation returns the live constellation, or nil if none has been
// created yet.
func (a *Animator) Constellation() *ConstellationInfo {
	if a.constellation == nil {
		return nil
	}
	return a.constellation.info()
}

// SetConstellations enables or disables the constellation overlay. Turning
// it off discards the current constellation.
func (a *Animator) SetConstellations(enabled bool) {
	a.opts.Constellations = enabled
	if !enabled {
		a.constellation = nil
	}
}

// Options returns the effective options.
func (a *Animator) Options() Options {
	return a.opts
}

// Size returns the surface size set by Initialize.
func (a *Animator) Size() (width, height int) {
	return int(a.width), int(a.height)
}

// Surface returns the bound surface, possibly nil.
func (a *Animator) Surface() Surface {
	return a.surface
}

// Tick advances one frame and paints it onto the bound surface.
func (a *Animator) Tick(now time.Duration) FrameInfo {
	list, info := a.Frame(now)
	if a.surface != nil {
		list.Replay(a.surface)
	}
	return info
}

// Frame advances the animation by one tick and returns the commands that
// paint it, in order: clear, constellation, stars, vignette. The stars are
// drawn at their position from before the update.
func (a *Animator) Frame(now time.Duration) (DisplayList, FrameInfo) {
	list := make(DisplayList, 0, len(a.stars)+3)

	list.Clear(a.opts.Background)

	if a.opts.Constellations && a.constellation.drawable() {
		list.Polyline(a.constellation.points(), a.constellation.closed,
			a.constellation.width, a.opts.ConstellationColor)
	}

	for i := range a.stars {
		s := &a.stars[i]
		list.FillStar(s.X, s.Y, s.Radius, s.Color)
	}

	wrapped := 0
	for i := range a.stars {
		if a.stars[i].advance(a.width, a.jitter()) {
			wrapped++
		}
	}

	if a.opts.Constellations && a.constellation != nil {
		a.constellation.decay(a.opts.ConstellationDecay)
	}

	list.RadialVignette(a.width/2, a.height/2, a.opts.VignetteInner, a.width/2, a.opts.VignetteAlpha)

	a.frame++
	info := FrameInfo{
		Frame:   a.frame,
		Now:     now,
		Stars:   len(a.stars),
		Wrapped: wrapped,
	}

	if a.opts.Constellations && now-a.lastSpawn > a.nextSpawn {
		a.lastSpawn = now
		a.nextSpawn = respawnBase + a.randDuration(respawnSpread)
		a.constellation = a.spawnConstellation()
		info.Spawned = a.constellation.info()
	}

	return list, info
}

// Run drives the animator from sched until the context is cancelled or the
// scheduler stops. after, if non-nil, is called once every tick has been
// painted.
func (a *Animator) Run(ctx context.Context, sched Scheduler, after func(FrameInfo)) error {
	if a.surface == nil {
		return ErrNoSurface
	}

	for {
		now, err := sched.Next(ctx)
		if err != nil {
			return err
		}

		info := a.Tick(now)
		if after != nil {
			after(info)
		}
	}
}

// spawnConstellation samples a rectangle near the middle of the sky and
// links up to ten of the stars currently inside it.
func (a *Animator) spawnConstellation() *Constellation {
	cx := a.width/2 + (a.rng.Float64()*2*regionJitterX - regionJitterX)
	cy := a.height/2 + (a.rng.Float64()*2*regionJitterY - regionJitterY)
	half := (a.height/2)*a.rng.Float64()*0.5 + 0.5

	region := Rect{
		MinX: cx - half,
		MinY: cy - half,
		MaxX: cx + half,
		MaxY: cy + half,
	}
	limit := int(math.Round(a.rng.Float64()*memberSpread + minMembers))

	var members []*Star
	for i := range a.stars {
		if len(members) == limit {
			break
		}
		if region.Contains(a.stars[i].X, a.stars[i].Y) {
			members = append(members, &a.stars[i])
		}
	}

	return &Constellation{
		members: members,
		closed:  a.rng.Float64() > 0.5,
		width:   constellationWidth,
		region:  region,
	}
}

func (a *Animator) jitter() float64 {
	return jitterMin + a.rng.Float64()*jitterSpread
}

func (a *Animator) randDuration(spread time.Duration) time.Duration {
	return time.Duration(a.rng.Float64() * float64(spread))
}

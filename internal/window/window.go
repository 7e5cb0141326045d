// Package window shows the night sky in a desktop window using Ebitengine.
package window

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/litescript/ls-nightsky/internal/logging"
	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/sky"
	"github.com/litescript/ls-nightsky/internal/stats"
)

// Game is an ebiten.Game that ticks the sky once per update.
type Game struct {
	anim   *sky.Animator
	canvas *raster.Canvas
	stats  *stats.Manager
	log    *logging.Logger
	stars  int

	width  int
	height int

	start    time.Time
	paused   bool
	pausedAt time.Time
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a game showing stars stars with opts. opts must carry a
// surface size.
func NewGame(opts sky.Options, stars int, st *stats.Manager, log *logging.Logger) *Game {
	canvas := raster.New(opts.Width, opts.Height, 1)
	anim := sky.New(canvas, opts)
	anim.Populate(stars)

	return &Game{
		anim:   anim,
		canvas: canvas,
		stats:  st,
		log:    log,
		stars:  stars,
		width:  opts.Width,
		height: opts.Height,
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	now := time.Now()
	if g.start.IsZero() {
		g.start = now
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.togglePause(now)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.anim.SetConstellations(!g.anim.Options().Constellations)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.anim.Populate(g.stars)
		g.stats.AddEvent(stats.Event{Type: stats.EventRepopulate})
	}

	if g.paused {
		return nil
	}

	info := g.anim.Tick(now.Sub(g.start))
	g.stats.Record(info)
	if info.Spawned != nil {
		g.log.Debug("frame %d: constellation of %d stars", info.Frame, info.Spawned.Members)
	}
	return nil
}

// togglePause freezes the animation clock. Time spent paused is skipped by
// moving the start forward on resume.
func (g *Game) togglePause(now time.Time) {
	if g.paused {
		g.start = g.start.Add(now.Sub(g.pausedAt))
	} else {
		g.pausedAt = now
	}
	g.paused = !g.paused
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.canvas.Image().Pix)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens the window and blocks until it is closed. tps sets the update
// rate, and so the animation frame rate.
func Run(g *Game, title string, tps int) error {
	if tps > 0 {
		ebiten.SetTPS(tps)
	}
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.log.Info("window %dx%d at %d TPS", g.width, g.height, ebiten.TPS())
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

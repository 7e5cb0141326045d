// Package export renders the sky offline to image files.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/sky"
	"github.com/litescript/ls-nightsky/internal/svgsky"
)

// Options controls a capture.
type Options struct {
	Frames int     // frames to render
	FPS    int     // animation rate used for timestamps and GIF delays
	Scale  float64 // logical to output pixel scale for raster formats
	Stars  int     // star count passed to Populate
}

func (o Options) withDefaults() Options {
	if o.Frames <= 0 {
		o.Frames = 1
	}
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Stars < 0 {
		o.Stars = 0
	}
	return o
}

func (o Options) step() time.Duration {
	return time.Second / time.Duration(o.FPS)
}

// GIF renders an animated GIF. The palette spans black to the star and
// constellation colours, so frames are mapped without dithering.
func GIF(ctx context.Context, w io.Writer, opts sky.Options, o Options) error {
	o = o.withDefaults()

	canvas := raster.New(opts.Width, opts.Height, o.Scale)
	anim := sky.New(canvas, opts)
	anim.Populate(o.Stars)

	pal := Palette(anim.Options())
	delay := 100 / o.FPS
	if delay < 2 {
		delay = 2
	}

	out := &gif.GIF{}
	err := anim.Run(ctx, sky.NewStepScheduler(o.step(), o.Frames), func(sky.FrameInfo) {
		src := canvas.Image()
		dst := image.NewPaletted(src.Bounds(), pal)
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		out.Image = append(out.Image, dst)
		out.Delay = append(out.Delay, delay)
	})
	if !errors.Is(err, sky.ErrSchedulerDone) {
		return err
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// PNG renders o.Frames frames and writes the last one.
func PNG(ctx context.Context, w io.Writer, opts sky.Options, o Options) error {
	o = o.withDefaults()

	canvas := raster.New(opts.Width, opts.Height, o.Scale)
	anim := sky.New(canvas, opts)
	anim.Populate(o.Stars)

	err := anim.Run(ctx, sky.NewStepScheduler(o.step(), o.Frames), nil)
	if !errors.Is(err, sky.ErrSchedulerDone) {
		return err
	}

	if err := png.Encode(w, canvas.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SVG writes one document per frame into dir as frame-0000.svg,
// frame-0001.svg and so on, returning the paths written.
func SVG(ctx context.Context, dir string, opts sky.Options, o Options) ([]string, error) {
	o = o.withDefaults()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	anim := sky.New(nil, opts)
	anim.Populate(o.Stars)
	width, height := anim.Size()

	paths := make([]string, 0, o.Frames)
	for i := 0; i < o.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		list, _ := anim.Frame(time.Duration(i) * o.step())
		path := filepath.Join(dir, fmt.Sprintf("frame-%04d.svg", i))
		if err := writeSVG(path, width, height, list); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSVG(path string, width, height int, list sky.DisplayList) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := svgsky.WriteFrame(f, width, height, list); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Palette returns a 256 colour GIF palette: a ramp from the background to
// the star colour, a ramp to the constellation colour, and a grey ramp for
// everything else.
func Palette(opts sky.Options) color.Palette {
	bg := raster.Opaque(opts.Background)
	star := raster.Opaque(opts.StarColor)
	line := raster.Opaque(opts.ConstellationColor)

	pal := make(color.Palette, 0, 256)
	pal = appendRamp(pal, bg, star, 128)
	pal = appendRamp(pal, bg, line, 64)
	pal = appendRamp(pal, colorful.Color{}, colorful.Color{R: 1, G: 1, B: 1}, 64)
	return pal
}

func appendRamp(pal color.Palette, from, to colorful.Color, n int) color.Palette {
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		r, g, b := from.BlendRgb(to, t).Clamped().RGB255()
		pal = append(pal, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return pal
}

package ledstream

import (
	"context"
	"errors"
	"time"

	"github.com/litescript/ls-nightsky/internal/config"
	"github.com/litescript/ls-nightsky/internal/logging"
	"github.com/litescript/ls-nightsky/internal/raster"
	"github.com/litescript/ls-nightsky/internal/sky"
	"github.com/litescript/ls-nightsky/internal/stats"
)

// oversample is how many canvas pixels feed each LED along a row.
const oversample = 4

// summaryEvery is the number of frames between progress log lines.
const summaryEvery = 300

// Streamer renders the sky into a small canvas and publishes each frame.
type Streamer struct {
	anim     *sky.Animator
	canvas   *raster.Canvas
	pub      Publisher
	stats    *stats.Manager
	log      *logging.Logger
	topic    string
	rows     int
	cols     int
	gain     float64
	interval time.Duration

	failures uint64
}

// NewStreamer creates a streamer publishing stars from opts to the matrix
// described by cfg. st may be nil.
func NewStreamer(pub Publisher, cfg config.MQTT, interval time.Duration, opts sky.Options, stars int, st *stats.Manager, log *logging.Logger) *Streamer {
	scale := 1.0
	if opts.Width > 0 {
		scale = float64(cfg.Cols*oversample) / float64(opts.Width)
	}
	canvas := raster.New(opts.Width, opts.Height, scale)

	anim := sky.New(canvas, opts)
	anim.Populate(stars)

	if st == nil {
		st = stats.NewManager(stats.DefaultConfig())
	}

	return &Streamer{
		anim:     anim,
		canvas:   canvas,
		pub:      pub,
		stats:    st,
		log:      log,
		topic:    cfg.Topic,
		rows:     cfg.Rows,
		cols:     cfg.Cols,
		gain:     cfg.Gain,
		interval: interval,
	}
}

// Animator returns the animator driving the stream.
func (s *Streamer) Animator() *sky.Animator {
	return s.anim
}

// Failures returns the number of frames that could not be published.
func (s *Streamer) Failures() uint64 {
	return s.failures
}

// Run publishes frames until ctx is cancelled.
func (s *Streamer) Run(ctx context.Context) error {
	sched := sky.NewTickerScheduler(s.interval)
	defer sched.Stop()

	return s.RunWith(ctx, sched)
}

// RunWith publishes one frame per tick of sched. A cancelled context or an
// exhausted scheduler ends the stream without error.
func (s *Streamer) RunWith(ctx context.Context, sched sky.Scheduler) error {
	s.log.Info("streaming %dx%d to %s every %v", s.cols, s.rows, s.topic, s.interval)

	err := s.anim.Run(ctx, sched, s.publishFrame)
	if errors.Is(err, context.Canceled) || errors.Is(err, sky.ErrSchedulerDone) {
		return nil
	}
	return err
}

func (s *Streamer) publishFrame(info sky.FrameInfo) {
	s.stats.Record(info)
	if info.Spawned != nil {
		s.log.Debug("constellation of %d stars (closed=%v)", info.Spawned.Members, info.Spawned.Closed)
	}

	f := Sample(s.canvas.Image(), s.rows, s.cols, s.gain)
	if err := s.send(f); err != nil {
		s.failures++
		s.log.Warn("frame %d: %v", info.Frame, err)
		s.stats.AddEvent(stats.Event{
			Type:   stats.EventPublishFailed,
			Frame:  info.Frame,
			Detail: err.Error(),
		})
	}

	if info.Frame%summaryEvery == 0 {
		snap := s.stats.Snapshot()
		s.log.Info("frames=%d fps=%.1f constellations=%d failures=%d",
			snap.Frames, snap.FPS, snap.Constellations, s.failures)
	}
}

func (s *Streamer) send(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	return s.pub.Publish(s.topic, b)
}

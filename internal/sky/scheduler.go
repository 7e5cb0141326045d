package sky

import (
	"context"
	"errors"
	"time"
)

// ErrSchedulerDone is returned by a Scheduler that has no more frames.
var ErrSchedulerDone = errors.New("sky: scheduler done")

// Scheduler hands out frame timestamps. Next blocks until the next frame is
// due and returns a monotonically increasing time since the scheduler
// started.
type Scheduler interface {
	Next(ctx context.Context) (time.Duration, error)
}

// TickerScheduler paces frames with a time.Ticker.
type TickerScheduler struct {
	ticker *time.Ticker
	start  time.Time
}

// NewTickerScheduler creates a scheduler firing every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerScheduler{
		ticker: time.NewTicker(interval),
		start:  time.Now(),
	}
}

// Next implements Scheduler.
func (s *TickerScheduler) Next(ctx context.Context) (time.Duration, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case t := <-s.ticker.C:
		return t.Sub(s.start), nil
	}
}

// Stop releases the ticker.
func (s *TickerScheduler) Stop() {
	s.ticker.Stop()
}

// StepScheduler returns evenly spaced timestamps without waiting, for
// offline rendering. It stops after a fixed number of frames.
type StepScheduler struct {
	step   time.Duration
	frames int
	n      int
}

// NewStepScheduler creates a scheduler yielding frames timestamps step
// apart, starting at 0.
func NewStepScheduler(step time.Duration, frames int) *StepScheduler {
	return &StepScheduler{step: step, frames: frames}
}

// Next implements Scheduler.
func (s *StepScheduler) Next(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.n >= s.frames {
		return 0, ErrSchedulerDone
	}
	now := time.Duration(s.n) * s.step
	s.n++
	return now, nil
}

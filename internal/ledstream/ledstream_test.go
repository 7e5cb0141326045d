package ledstream

import (
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nightsky/internal/config"
	"github.com/litescript/ls-nightsky/internal/logging"
	"github.com/litescript/ls-nightsky/internal/sky"
	"github.com/litescript/ls-nightsky/internal/stats"
)

type fakePublisher struct {
	topics   []string
	payloads [][]byte
	err      error
	closed   bool
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) Close() {
	p.closed = true
}

func TestFrame_MarshalBinary(t *testing.T) {
	f := NewFrame(1, 2)
	f.Set(0, 0, colorful.Color{R: 1})
	f.Set(0, 1, colorful.Color{R: 2, G: 0.5, B: -1}) // clamped

	data, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	want := []byte{2, 0, 255, 0, 0, 255, 128, 0}
	if string(data) != string(want) {
		t.Errorf("MarshalBinary() = %v, want %v", data, want)
	}
}

func TestFrame_MarshalBinaryTooLarge(t *testing.T) {
	f := NewFrame(256, 256)
	if _, err := f.MarshalBinary(); err == nil {
		t.Error("MarshalBinary() should fail above the uint16 pixel count")
	}
}

func TestSample_Uniform(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	f := Sample(img, 2, 4, 0.5)
	if f.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", f.Len())
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 4; col++ {
			r, g, b := f.At(row, col).RGB255()
			if r != 128 || g != 128 || b != 128 {
				t.Errorf("pixel (%d,%d) = %d,%d,%d, want 128 grey", row, col, r, g, b)
			}
		}
	}
}

func TestSample_BoxAverage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(img, image.Rect(0, 0, 2, 2), image.NewUniform(color.White), image.Point{}, draw.Src)

	f := Sample(img, 1, 2, 1)
	if got := f.At(0, 0); got.R != 1 || got.G != 1 || got.B != 1 {
		t.Errorf("left cell = %v, want white", got)
	}
	if got := f.At(0, 1); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("right cell = %v, want black", got)
	}

	// One cell over both halves averages to 0.5, eased to 0.25.
	f = Sample(img, 1, 1, 1)
	if got := f.At(0, 0).R; got != 0.25 {
		t.Errorf("merged cell R = %v, want 0.25", got)
	}
}

func TestSample_MoreCellsThanPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	f := Sample(img, 4, 4, 1)
	if f.Len() != 16 {
		t.Errorf("Len() = %d, want 16", f.Len())
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		i, n, size int
		lo, hi     int
	}{
		{0, 4, 16, 0, 4},
		{3, 4, 16, 12, 16},
		{0, 3, 10, 0, 3},
		{2, 3, 10, 6, 10},
		{3, 4, 2, 1, 2},
	}

	for _, tt := range tests {
		lo, hi := span(tt.i, tt.n, tt.size)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("span(%d, %d, %d) = %d, %d, want %d, %d", tt.i, tt.n, tt.size, lo, hi, tt.lo, tt.hi)
		}
	}
}

func testStreamer(pub Publisher) (*Streamer, *stats.Manager) {
	cfg := config.Default().MQTT
	cfg.Rows, cfg.Cols = 4, 8
	cfg.Topic = "test/sky"

	opts := sky.ConstellationOptions()
	opts.Width, opts.Height = 64, 32
	opts.Seed = 1

	st := stats.NewManager(stats.DefaultConfig())
	return NewStreamer(pub, cfg, 10*time.Millisecond, opts, 50, st, logging.Discard()), st
}

func TestStreamer_PublishesEveryFrame(t *testing.T) {
	pub := &fakePublisher{}
	s, st := testStreamer(pub)

	if err := s.RunWith(context.Background(), sky.NewStepScheduler(16*time.Millisecond, 10)); err != nil {
		t.Fatalf("RunWith() error = %v", err)
	}

	if len(pub.payloads) != 10 {
		t.Fatalf("published %d frames, want 10", len(pub.payloads))
	}
	for i, p := range pub.payloads {
		if pub.topics[i] != "test/sky" {
			t.Errorf("topic = %q, want test/sky", pub.topics[i])
		}
		if len(p) != 2+32*3 {
			t.Errorf("payload %d len = %d, want %d", i, len(p), 2+32*3)
		}
		if n := binary.LittleEndian.Uint16(p); n != 32 {
			t.Errorf("payload %d count = %d, want 32", i, n)
		}
	}

	if got := st.Snapshot().Frames; got != 10 {
		t.Errorf("stats Frames = %d, want 10", got)
	}
}

func TestStreamer_PublishFailuresAreNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	s, st := testStreamer(pub)

	if err := s.RunWith(context.Background(), sky.NewStepScheduler(16*time.Millisecond, 3)); err != nil {
		t.Fatalf("RunWith() error = %v", err)
	}

	if s.Failures() != 3 {
		t.Errorf("Failures() = %d, want 3", s.Failures())
	}

	events := st.RecentEvents(10)
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	for _, e := range events {
		if e.Type != stats.EventPublishFailed || e.Detail != "broker down" {
			t.Errorf("event = %+v", e)
		}
	}
}

func TestStreamer_Cancelled(t *testing.T) {
	s, _ := testStreamer(&fakePublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx); err != nil {
		t.Errorf("Run() on cancelled context = %v, want nil", err)
	}
}

func TestMQTTPublisher_AtMostOnce(t *testing.T) {
	if qos != 0 {
		t.Errorf("qos = %d, want 0", qos)
	}
}

func TestMQTTPublisher_PublishBeforeConnect(t *testing.T) {
	cfg := config.Default().MQTT
	cfg.URL = "tcp://127.0.0.1:1"
	p := NewMQTTPublisher(cfg, logging.Discard())

	err := p.Publish(cfg.Topic, []byte{0, 0})
	if !errors.Is(err, mqtt.ErrNotConnected) {
		t.Errorf("Publish() = %v, want ErrNotConnected", err)
	}
}

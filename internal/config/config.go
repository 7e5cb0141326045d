// Package config loads the night sky settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/litescript/ls-nightsky/internal/sky"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Variant names.
const (
	VariantClassic        = "classic"
	VariantConstellations = "constellations"
)

const (
	minFPS = 1
	maxFPS = 240

	// MaxStars bounds the star count accepted from files, flags and keys.
	MaxStars = 5000
)

// MQTT configures the LED matrix streamer.
type MQTT struct {
	URL      string  `yaml:"url"`
	Username string  `yaml:"username"`
	Password string  `yaml:"password"`
	ClientID string  `yaml:"client_id"`
	Topic    string  `yaml:"topic"`
	Rows     int     `yaml:"rows"`
	Cols     int     `yaml:"cols"`
	FPS      int     `yaml:"fps"`
	Gain     float64 `yaml:"gain"`
}

// Config holds all settings.
type Config struct {
	Variant  string `yaml:"variant"`
	Stars    int    `yaml:"stars"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	FPS      int    `yaml:"fps"`
	Seed     int64  `yaml:"seed"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	MQTT MQTT `yaml:"mqtt"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Variant:  VariantConstellations,
		Stars:    sky.DefaultStarCount,
		Width:    1280,
		Height:   720,
		FPS:      60,
		LogLevel: "info",
		MQTT: MQTT{
			URL:      "tcp://localhost:1883",
			ClientID: "ls-nightsky",
			Topic:    "nightsky/stream",
			Rows:     16,
			Cols:     32,
			FPS:      30,
			Gain:     0.6,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads YAML from r on top of the defaults. An empty document yields
// the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Normalize clamps out-of-range rates in place.
func (c *Config) Normalize() {
	c.FPS = clamp(c.FPS, minFPS, maxFPS)
	c.MQTT.FPS = clamp(c.MQTT.FPS, minFPS, maxFPS)
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.Variant {
	case VariantClassic, VariantConstellations:
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalid, c.Variant)
	}
	if c.Stars < 0 || c.Stars > MaxStars {
		return fmt.Errorf("%w: stars must be in [0, %d], got %d", ErrInvalid, MaxStars, c.Stars)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: surface size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.MQTT.Rows <= 0 || c.MQTT.Cols <= 0 {
		return fmt.Errorf("%w: matrix size %dx%d", ErrInvalid, c.MQTT.Rows, c.MQTT.Cols)
	}
	if c.MQTT.Rows*c.MQTT.Cols > 0xffff {
		return fmt.Errorf("%w: matrix of %d pixels exceeds frame limit", ErrInvalid, c.MQTT.Rows*c.MQTT.Cols)
	}
	if c.MQTT.Gain < 0 || c.MQTT.Gain > 1 {
		return fmt.Errorf("%w: gain must be in [0, 1], got %v", ErrInvalid, c.MQTT.Gain)
	}
	return nil
}

// SkyOptions maps the settings onto animator options.
func (c Config) SkyOptions() sky.Options {
	opts := sky.ClassicOptions()
	if c.Variant == VariantConstellations {
		opts = sky.ConstellationOptions()
	}
	opts.Width = c.Width
	opts.Height = c.Height
	opts.Seed = c.Seed
	return opts
}

// FrameInterval is the time between animation frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(clamp(c.FPS, minFPS, maxFPS))
}

// StreamInterval is the time between frames published to the LED matrix.
func (c Config) StreamInterval() time.Duration {
	return time.Second / time.Duration(clamp(c.MQTT.FPS, minFPS, maxFPS))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/litescript/ls-nightsky/internal/config"
)

// resetFlags restores every persistent flag to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("reset %s: %v", f.Name, err)
		}
		f.Changed = false
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetFlags(t)
	if err := tuiCmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(tuiCmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("loadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "sky.yaml")
	if err := os.WriteFile(path, []byte("stars: 10\nvariant: classic\nfps: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := tuiCmd.ParseFlags([]string{"--config", path, "--stars", "42", "--fps", "1000"})
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(tuiCmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Stars != 42 {
		t.Errorf("Stars = %d, want 42 from flag", cfg.Stars)
	}
	if cfg.Variant != config.VariantClassic {
		t.Errorf("Variant = %q, want classic from file", cfg.Variant)
	}
	if cfg.FPS != 240 {
		t.Errorf("FPS = %d, want clamped 240", cfg.FPS)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	resetFlags(t)
	if err := exportCmd.ParseFlags([]string{"--variant", "aurora"}); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(exportCmd); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("loadConfig() = %v, want ErrInvalid", err)
	}
}

func TestNewLogger_File(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "sky.log")

	logger, closeLog, err := newLogger(cfg, true)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Info("hello %d", 1)
	closeLog()

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestIgnoreCanceled(t *testing.T) {
	other := errors.New("connect to broker: refused")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"canceled", context.Canceled, nil},
		{"wrapped canceled", fmt.Errorf("connect: %w", context.Canceled), nil},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ignoreCanceled(tt.in); got != tt.want {
				t.Errorf("ignoreCanceled(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRootCommands(t *testing.T) {
	for _, name := range []string{"tui", "export", "stream", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}

// Command nightsky animates a drifting night sky in the terminal, a desktop
// window, image files or an LED matrix.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-nightsky/internal/config"
	"github.com/litescript/ls-nightsky/internal/logging"
	"github.com/litescript/ls-nightsky/internal/version"
)

// Persistent flags shared by every subcommand.
var (
	configPath string
	logLevel   string
	logFile    string
	variant    string
	stars      int
	seed       int64
	width      int
	height     int
	fps        int
)

var rootCmd = &cobra.Command{
	Use:           "nightsky",
	Short:         "Drifting stars, a vignette and fleeting constellations",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDefault,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr")
	flags.StringVar(&variant, "variant", "", "Sky variant (classic, constellations)")
	flags.IntVar(&stars, "stars", 0, "Number of stars")
	flags.Int64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")
	flags.IntVar(&width, "width", 0, "Logical sky width in pixels")
	flags.IntVar(&height, "height", 0, "Logical sky height in pixels")
	flags.IntVar(&fps, "fps", 0, "Animation frame rate")
}

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runDefault starts the terminal UI when attached to a terminal and prints
// help otherwise.
func runDefault(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return cmd.Help()
	}
	return runTUI(cmd, args)
}

// loadConfig reads the config file, if any, and applies flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("variant") {
		cfg.Variant = variant
	}
	if flags.Changed("stars") {
		cfg.Stars = stars
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg. When quiet is set and no log
// file is configured, output is dropped so it cannot corrupt the terminal.
// The returned func releases the log file.
func newLogger(cfg config.Config, quiet bool) (*logging.Logger, func(), error) {
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		return logger, func() { f.Close() }, nil
	case quiet:
		logger.SetOutput(io.Discard)
	}
	return logger, func() {}, nil
}

// routeMQTTLogs sends paho's internal logging through logger.
func routeMQTTLogs(logger *logging.Logger) {
	l := logger.With("paho")
	mqtt.ERROR = log.New(l.Writer(logging.LevelError), "", 0)
	mqtt.CRITICAL = log.New(l.Writer(logging.LevelError), "", 0)
	mqtt.WARN = log.New(l.Writer(logging.LevelWarn), "", 0)
	mqtt.DEBUG = log.New(l.Writer(logging.LevelDebug), "", 0)
}

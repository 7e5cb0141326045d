package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-nightsky/internal/export"
	"github.com/litescript/ls-nightsky/internal/ledstream"
	"github.com/litescript/ls-nightsky/internal/stats"
	"github.com/litescript/ls-nightsky/internal/ui"
	"github.com/litescript/ls-nightsky/internal/version"
)

// Export flags
var (
	exportFrames int
	exportScale  float64
	exportOut    string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Animate the sky in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var exportCmd = &cobra.Command{
	Use:       "export gif|png|svg",
	Short:     "Render frames to image files",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"gif", "png", "svg"},
	RunE:      runExport,
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream the sky to an LED matrix over MQTT",
	Args:  cobra.NoArgs,
	RunE:  runStream,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nightsky v%s\n", version.Version)
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportFrames, "frames", 120, "Number of frames to render")
	exportCmd.Flags().Float64Var(&exportScale, "scale", 0.5, "Output scale for gif and png")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, or directory for svg")

	rootCmd.AddCommand(tuiCmd, exportCmd, streamCmd, versionCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	model := ui.New(ui.Config{
		Sky:      cfg.SkyOptions(),
		Stars:    cfg.Stars,
		Interval: cfg.FrameInterval(),
	}, stats.NewManager(stats.DefaultConfig()), logger.With("ui"))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && cmd.Context().Err() == nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()
	logger = logger.With("export")

	format := args[0]
	out := exportOut
	if out == "" {
		out = "nightsky." + format
		if format == "svg" {
			out = "nightsky-frames"
		}
	}

	opts := export.Options{
		Frames: exportFrames,
		FPS:    cfg.FPS,
		Scale:  exportScale,
		Stars:  cfg.Stars,
	}
	ctx := cmd.Context()

	if format == "svg" {
		paths, err := export.SVG(ctx, out, cfg.SkyOptions(), opts)
		if err != nil {
			return err
		}
		logger.Info("wrote %d frames to %s", len(paths), out)
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	switch format {
	case "gif":
		err = export.GIF(ctx, f, cfg.SkyOptions(), opts)
	case "png":
		err = export.PNG(ctx, f, cfg.SkyOptions(), opts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out)
		return err
	}

	logger.Info("wrote %s (%d frames)", out, opts.Frames)
	return nil
}

func runStream(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()
	routeMQTTLogs(logger)

	ctx := cmd.Context()
	pub := ledstream.NewMQTTPublisher(cfg.MQTT, logger.With("mqtt"))
	if err := pub.Connect(ctx); err != nil {
		return ignoreCanceled(err)
	}
	defer pub.Close()

	s := ledstream.NewStreamer(pub, cfg.MQTT, cfg.StreamInterval(), cfg.SkyOptions(), cfg.Stars,
		stats.NewManager(stats.DefaultConfig()), logger.With("stream"))
	return s.Run(ctx)
}

// ignoreCanceled treats a cancelled context as a clean exit.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

//go:build !nowindow

package main

import (
	"github.com/spf13/cobra"

	"github.com/litescript/ls-nightsky/internal/stats"
	"github.com/litescript/ls-nightsky/internal/window"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Animate the sky in a desktop window",
	Args:  cobra.NoArgs,
	RunE:  runWindow,
}

func init() {
	rootCmd.AddCommand(windowCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	g := window.NewGame(cfg.SkyOptions(), cfg.Stars, stats.NewManager(stats.DefaultConfig()), logger.With("window"))
	return window.Run(g, "Night sky", cfg.FPS)
}

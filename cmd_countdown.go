package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/festive-greeting/internal/tui"
)

// countdownCmd runs the countdown in the terminal
var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Show the countdown and snow in the terminal",
	RunE:  runCountdown,
}

func runCountdown(cmd *cobra.Command, args []string) error {
	target, err := cfg.TargetTime(time.Now())
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Log lines would tear the screen, so the view runs without a logger.
	return tui.New(screen, target, cfg.Quotes, nil, nil, nil).Run(ctx)
}

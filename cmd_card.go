package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/festive-greeting/internal/card"
	"github.com/iburimskiy/festive-greeting/internal/scene"
)

var (
	cardTo       []string
	cardMessage  string
	cardOut      string
	cardParallel int
)

// cardCmd renders gift cards without opening a window
var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Render gift card PNGs",
	Long: `Writes a 1200x630 gift card for every recipient given by --to. The message
comes from --message when set, from Gemini when an API key is configured, and
from the built-in messages otherwise. Prints one saved path per line.`,
	Example: `  greeting card --to Ada
  greeting card --to Ada --to Bob -o ~/Pictures`,
	RunE: runCard,
}

func init() {
	cardCmd.Flags().StringArrayVar(&cardTo, "to", nil, "Recipient name (repeatable, required)")
	cardCmd.Flags().StringVarP(&cardMessage, "message", "m", "", "Use this message instead of generating one")
	cardCmd.Flags().StringVarP(&cardOut, "out", "o", "", "Output directory (default: card.output_dir)")
	cardCmd.Flags().IntVar(&cardParallel, "parallel", 4, "Cards rendered at once")
	_ = cardCmd.MarkFlagRequired("to")
}

// staticGreeter returns a fixed message.
type staticGreeter string

func (g staticGreeter) Generate(context.Context, string) string { return string(g) }

func runCard(cmd *cobra.Command, args []string) error {
	var names []string
	for _, n := range cardTo {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return errors.New("--to must name at least one recipient")
	}

	target, err := cfg.TargetTime(time.Now())
	if err != nil {
		return err
	}
	year := target.Year()
	out := cardOut
	if out == "" {
		out = cfg.Card.OutputDir
	}

	// Renderers and generators carry their own rand and font faces, so
	// every card gets fresh ones.
	newCard := func() (*scene.GiftCard, error) {
		rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		renderer, err := card.NewRenderer(rng)
		if err != nil {
			return nil, fmt.Errorf("load card fonts: %w", err)
		}
		var greeter scene.Greeter = staticGreeter(cardMessage)
		if strings.TrimSpace(cardMessage) == "" {
			greeter = newGenerator(cmd.Context(), year, rng)
		}
		return &scene.GiftCard{
			Greeter:   greeter,
			Renderer:  renderer,
			Year:      year,
			OutputDir: out,
			UniqueIDs: cfg.Card.UniqueIDs,
			Log:       logger,
		}, nil
	}

	results, err := scene.Batch(cmd.Context(), names, cardParallel, newCard)
	for _, res := range results {
		if res.Path == "" || res.Err != nil {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	}
	return err
}

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/festive-greeting/internal/card"
	"github.com/iburimskiy/festive-greeting/internal/config"
	"github.com/iburimskiy/festive-greeting/internal/desktop"
	"github.com/iburimskiy/festive-greeting/internal/game"
	"github.com/iburimskiy/festive-greeting/internal/greeting"
	"github.com/iburimskiy/festive-greeting/internal/logging"
	"github.com/iburimskiy/festive-greeting/internal/music"
	"github.com/iburimskiy/festive-greeting/internal/particles"
	"github.com/iburimskiy/festive-greeting/internal/share"
)

var (
	// Global flags
	configPath string
	senderFlag string
	verbose    bool
	watch      bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "greeting",
	Short: "A Christmas countdown with a morphing particle tree",
	Long: `Opens a window with a live countdown to Christmas, falling snow and a
particle tree that reacts to the pointer. Gift cards can be generated and
saved, and share links can be opened for the common social networks.

Keys: Space music, T morph, G gift card, N set name, -/= volume, C copy link,
Esc/Q quit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Logging.Development)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWindow,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&senderFlag, "name", "", "Sender name, or a share link carrying ?name=")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Reload the config file when it changes")

	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(countdownCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	raster, err := particles.NewGlyphRasterizer(nil)
	if err != nil {
		return fmt.Errorf("load glyph font: %w", err)
	}
	field := particles.NewField(particles.NewShapeSampler(raster, rng), rng)

	renderer, err := card.NewRenderer(rng)
	if err != nil {
		return fmt.Errorf("load card fonts: %w", err)
	}

	target, err := cfg.TargetTime(time.Now())
	if err != nil {
		return err
	}

	player := music.New(music.SpeakerSink{}, cfg.Music.Tracks, cfg.Music.Volume, logger)
	sharer := &share.Dispatcher{
		Base:   cfg.Share.BaseURL,
		Sender: cfg.Share.Sender,
		Opener: desktop.BrowserOpener{},
		Clip:   &desktop.SystemClipboard{},
		Log:    logger,
	}

	var reload <-chan *config.Config
	if watch && configPath != "" {
		w, err := config.Watch(configPath)
		if err != nil {
			logger.Warn("config watch disabled", zap.String("path", configPath), zap.Error(err))
		} else {
			defer w.Close()
			reload = w.Updates
			go func() {
				for err := range w.Errors {
					logger.Warn("config reload", zap.Error(err))
				}
			}()
		}
	}

	g, err := game.New(game.Options{
		Config:   cfg,
		Field:    field,
		Player:   player,
		Greeter:  newGenerator(cmd.Context(), target.Year(), rng),
		Renderer: renderer,
		Dialogs:  desktop.Dialogs{},
		Sharer:   sharer,
		Sender:   senderName(senderFlag),
		Reload:   reload,
		Rand:     rng,
		Log:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("starting", zap.Time("target", target), zap.Bool("gemini", cfg.Greeting.APIKey != ""))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// newGenerator returns a message generator backed by Gemini when an API key
// is configured, and by the canned messages otherwise.
func newGenerator(ctx context.Context, year int, rng *rand.Rand) *greeting.Generator {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout, _ := cfg.GreetingTimeout()

	var model greeting.TextModel
	if cfg.Greeting.APIKey == "" {
		logger.Info("no Gemini API key, using built-in messages")
	} else if m, err := greeting.NewGeminiModel(ctx, cfg.Greeting.APIKey, cfg.Greeting.Model); err != nil {
		logger.Warn("gemini client", zap.Error(err))
	} else {
		model = m
	}
	return greeting.NewGenerator(model, year, timeout, rng, logger)
}

// senderName accepts a plain name or a share link and returns the name.
func senderName(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "://") || strings.HasPrefix(s, "?") {
		return share.ParseName(s)
	}
	return s
}

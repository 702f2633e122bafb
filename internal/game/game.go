package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/iburimskiy/festive-greeting/internal/config"
	"github.com/iburimskiy/festive-greeting/internal/countdown"
	"github.com/iburimskiy/festive-greeting/internal/logging"
	"github.com/iburimskiy/festive-greeting/internal/music"
	"github.com/iburimskiy/festive-greeting/internal/particles"
	"github.com/iburimskiy/festive-greeting/internal/scene"
	"github.com/iburimskiy/festive-greeting/internal/share"
)

// Options wires the scene's collaborators. Player, Greeter, Renderer and
// Dialogs may be nil; the matching controls then do nothing.
type Options struct {
	Config   *config.Config
	Field    *particles.Field
	Player   *music.Player
	Greeter  scene.Greeter
	Renderer scene.CardRenderer
	Dialogs  scene.Prompter
	Sharer   *share.Dispatcher

	// Sender is the name carried by an incoming share link. A non-empty
	// sender shows the entry overlay first.
	Sender string
	// Reload delivers hot-reloaded configs.
	Reload <-chan *config.Config

	Rand *rand.Rand
	Log  *zap.Logger
	Now  func() time.Time
}

type Game struct {
	cfg *config.Config
	log *zap.Logger
	now func() time.Time

	field  *particles.Field
	snow   *scene.Snowfall
	quotes *scene.Rotator
	clock  *countdown.Countdown
	player *music.Player
	sharer *share.Dispatcher
	toast  *share.Toast
	jobs   *scene.Jobs
	gift   *scene.GiftCard
	dlg    scene.Prompter
	reload <-chan *config.Config

	ctx    context.Context
	cancel context.CancelFunc

	layout        scene.Layout
	width, height int
	scale         float64
	frame         int

	christmas bool
	overlay   bool
	sender    string
	shareName string
	status    string

	// input edge detection
	pressed int

	art *artwork

	closed bool
}

// New builds the scene. The countdown completing, now or later, switches to
// celebration mode.
func New(opts Options) (*Game, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Field == nil {
		return nil, errors.New("particle field is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := logging.OrNop(opts.Log)
	now := opts.Now()

	target, err := opts.Config.TargetTime(now)
	if err != nil {
		return nil, err
	}
	art, err := newArtwork(opts.Config)
	if err != nil {
		return nil, err
	}

	toast := share.NewToast(opts.Now)
	sharer := opts.Sharer
	if sharer == nil {
		sharer = &share.Dispatcher{Base: opts.Config.Share.BaseURL, Sender: opts.Config.Share.Sender, Log: log}
	}
	if sharer.Toast == nil {
		sharer.Toast = toast
	} else {
		toast = sharer.Toast
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:     opts.Config,
		log:     log,
		now:     opts.Now,
		field:   opts.Field,
		snow:    scene.NewSnowfall(opts.Rand),
		quotes:  scene.NewRotator(opts.Config.Quotes, config.QuoteInterval, config.QuoteFade, now),
		player:  opts.Player,
		sharer:  sharer,
		toast:   toast,
		jobs:    scene.NewJobs(),
		dlg:     opts.Dialogs,
		reload:  opts.Reload,
		ctx:     ctx,
		cancel:  cancel,
		scale:   1,
		sender:  opts.Sender,
		overlay: opts.Sender != "",
		pressed: -1,
		art:     art,
	}
	g.clock = countdown.New(target, g.celebrate)
	if opts.Greeter != nil && opts.Renderer != nil {
		g.gift = &scene.GiftCard{
			Dialogs:   opts.Dialogs,
			Greeter:   opts.Greeter,
			Renderer:  opts.Renderer,
			Year:      g.clock.Year(),
			OutputDir: opts.Config.Card.OutputDir,
			UniqueIDs: opts.Config.Card.UniqueIDs,
			Log:       log,
		}
	}
	g.clock.Update(now)

	if g.player != nil && opts.Config.Music.Autoplay && !g.overlay {
		g.player.SetPlaying(true)
	}
	return g, nil
}

// celebrate switches to celebration mode. It runs once, from the countdown.
func (g *Game) celebrate() {
	g.log.Info("countdown complete", zap.Int("year", g.clock.Year()))
	g.christmas = true
	g.field.SetSilhouette(particles.Text)
	g.relayout()
}

func (g *Game) Update() error {
	if g.closed {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		if err := g.Close(); err != nil {
			g.log.Warn("close", zap.Error(err))
		}
		return ebiten.Termination
	}

	g.frame++
	g.clock.Update(g.now())
	g.applyReload()
	g.pollJobs()
	g.handlePointer()
	g.handleKeys()

	if g.player != nil {
		g.player.Advance()
	}
	g.snow.Step()
	if g.field.Running() {
		g.field.Tick()
	}
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	w := int(float64(outsideWidth) * scale)
	h := int(float64(outsideHeight) * scale)
	if w != g.width || h != g.height || scale != g.scale {
		g.width, g.height, g.scale = w, h, scale
		g.relayout()
		g.snow.Resize(w, h)
		g.art.invalidate()
	}
	return g.width, g.height
}

func (g *Game) relayout() {
	if g.width <= 0 || g.height <= 0 {
		return
	}
	g.layout = scene.Arrange(g.width, g.height, g.scale, g.christmas)
	g.field.Initialize(int(g.layout.Field.W), int(g.layout.Field.H))
	g.pressed = -1
}

// Close stops the particle field and the music. Running jobs are cancelled
// but not waited for; a native dialog may still be open.
func (g *Game) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.field.Stop()
	g.cancel()
	if g.player != nil {
		return g.player.Close()
	}
	return nil
}

// pointer returns the primary touch, or the mouse cursor when nothing
// touches the screen.
func (g *Game) pointer() (float64, float64, bool) {
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return float64(x), float64(y), true
	}
	if !ebiten.IsFocused() {
		return 0, 0, false
	}
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y), true
}

func (g *Game) handlePointer() {
	x, y, ok := g.pointer()
	if fx, fy, in := g.layout.FieldPoint(x, y); ok && in && !g.overlay {
		g.field.PointerMove(fx, fy)
	} else {
		g.field.PointerLeave()
	}

	tapped := len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || tapped {
		g.pressed = g.buttonAt(x, y)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) || tapped {
		if g.pressed >= 0 && g.pressed == g.buttonAt(x, y) {
			g.click(g.pressed)
		}
		g.pressed = -1
	}
}

// buttonAt returns the index of the button under (x, y), or -1. While the
// entry overlay is up only its own button (index len(Buttons)) is live.
func (g *Game) buttonAt(x, y float64) int {
	if g.overlay {
		if g.layout.Overlay.Rect.Contains(x, y) {
			return len(g.layout.Buttons)
		}
		return -1
	}
	for i, b := range g.layout.Buttons {
		if b.Rect.Contains(x, y) {
			return i
		}
	}
	return -1
}

func (g *Game) click(i int) {
	if i == len(g.layout.Buttons) {
		g.perform(g.layout.Overlay)
		return
	}
	g.perform(g.layout.Buttons[i])
}

var keyBindings = []struct {
	key    ebiten.Key
	button scene.Button
}{
	{ebiten.KeySpace, scene.Button{Action: scene.ActionMusic}},
	{ebiten.KeyT, scene.Button{Action: scene.ActionMorph}},
	{ebiten.KeyG, scene.Button{Action: scene.ActionGiftCard}},
	{ebiten.KeyN, scene.Button{Action: scene.ActionSetName}},
	{ebiten.KeyMinus, scene.Button{Action: scene.ActionVolumeDown}},
	{ebiten.KeyEqual, scene.Button{Action: scene.ActionVolumeUp}},
	{ebiten.KeyC, scene.Button{Action: scene.ActionShare, Platform: share.Native}},
}

func (g *Game) handleKeys() {
	if g.overlay {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.perform(scene.Button{Action: scene.ActionOpenWish})
		}
		return
	}
	for _, kb := range keyBindings {
		if inpututil.IsKeyJustPressed(kb.key) {
			g.perform(kb.button)
		}
	}
}

func (g *Game) perform(b scene.Button) {
	switch b.Action {
	case scene.ActionOpenWish:
		g.overlay = false
		if g.player != nil && g.cfg.Music.Autoplay {
			g.player.SetPlaying(true)
		}
	case scene.ActionMusic:
		if g.player != nil {
			g.player.Toggle()
		}
	case scene.ActionVolumeDown, scene.ActionVolumeUp:
		if g.player == nil {
			return
		}
		step := config.VolumeStep
		if b.Action == scene.ActionVolumeDown {
			step = -step
		}
		g.player.SetVolume(g.player.Volume() + step)
	case scene.ActionMorph:
		next := particles.Text
		if g.field.Silhouette() == particles.Text {
			next = particles.Tree
		}
		g.field.SetSilhouette(next)
	case scene.ActionGiftCard:
		g.startGiftCard()
	case scene.ActionSetName:
		initial := g.shareName
		if !g.jobs.Start(g.ctx, func(context.Context) scene.Result { return scene.AskName(g.dlg, initial) }) {
			g.toast.Show("Please wait...")
		}
	case scene.ActionShare:
		link := g.sharer.Share(share.Request{
			Platform:  b.Platform,
			Name:      g.shareName,
			Christmas: g.christmas,
			Year:      g.clock.Year(),
		})
		g.log.Debug("shared", zap.String("platform", b.Platform.Label()), zap.String("link", link))
	}
}

func (g *Game) startGiftCard() {
	if g.gift == nil {
		g.toast.Show("Gift cards are unavailable")
		return
	}
	gift := g.gift
	if !g.jobs.Start(g.ctx, func(ctx context.Context) scene.Result { return gift.Run(ctx, "") }) {
		g.toast.Show("Please wait...")
		return
	}
	g.status = "Preparing your gift card..."
}

func (g *Game) pollJobs() {
	res, ok := g.jobs.Poll()
	if !ok {
		return
	}
	g.status = ""
	switch {
	case res.Err != nil:
		g.log.Warn("job failed", zap.Int("kind", int(res.Kind)), zap.Error(res.Err))
		g.toast.Show("Something went wrong")
	case res.Canceled:
	case res.Kind == scene.JobName:
		g.shareName = res.Name
		if res.Name != "" {
			g.toast.Show("Sharing as " + res.Name)
		}
	case res.Kind == scene.JobCard:
		g.toast.Show("Gift card saved!")
		g.status = "Saved " + res.Path
	}
}

func (g *Game) applyReload() {
	if g.reload == nil {
		return
	}
	select {
	case cfg, ok := <-g.reload:
		if !ok {
			g.reload = nil
			return
		}
		g.cfg = cfg
		g.quotes.SetQuotes(cfg.Quotes)
		g.sharer.Base = cfg.Share.BaseURL
		g.sharer.Sender = cfg.Share.Sender
		if err := g.art.setSky(cfg); err != nil {
			g.log.Warn("reload sky colours", zap.Error(err))
		}
		g.log.Info("config reloaded")
	default:
	}
}

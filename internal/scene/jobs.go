package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/festive-greeting/internal/card"
	"github.com/iburimskiy/festive-greeting/internal/logging"
)

// Prompter shows blocking dialogs. ok is false when the user cancels.
type Prompter interface {
	AskName(title, prompt, initial string) (name string, ok bool, err error)
	SaveLocation(title, filename string) (path string, ok bool, err error)
}

type Greeter interface {
	Generate(ctx context.Context, name string) string
}

type CardRenderer interface {
	Render(name, message string, year int) *image.RGBA
}

type JobKind int

const (
	JobName JobKind = iota
	JobCard
)

// Result is what a finished job hands back to the frame loop.
type Result struct {
	Kind     JobKind
	Name     string
	Message  string
	Path     string
	Canceled bool
	Err      error
}

// Jobs runs one blocking job at a time off the frame loop. The frame loop
// collects the result with Poll.
type Jobs struct {
	results chan Result
	busy    atomic.Bool
	wg      sync.WaitGroup
}

func NewJobs() *Jobs {
	return &Jobs{results: make(chan Result, 1)}
}

// Start runs fn in a goroutine. It returns false while another job is still
// pending.
func (j *Jobs) Start(ctx context.Context, fn func(context.Context) Result) bool {
	if !j.busy.CompareAndSwap(false, true) {
		return false
	}
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.results <- fn(ctx)
	}()
	return true
}

// Poll returns a finished result without blocking.
func (j *Jobs) Poll() (Result, bool) {
	select {
	case r := <-j.results:
		j.busy.Store(false)
		return r, true
	default:
		return Result{}, false
	}
}

func (j *Jobs) Busy() bool { return j.busy.Load() }

// Wait blocks until the running job, if any, has finished.
func (j *Jobs) Wait() { j.wg.Wait() }

// AskName asks for the name used in share links.
func AskName(d Prompter, initial string) Result {
	r := Result{Kind: JobName}
	if d == nil {
		r.Err = errors.New("no dialogs available")
		return r
	}
	name, ok, err := d.AskName("Personalize Your Share Link", "Enter your name to share:", initial)
	switch {
	case err != nil:
		r.Err = fmt.Errorf("ask name: %w", err)
	case !ok:
		r.Canceled = true
	default:
		r.Name = strings.TrimSpace(name)
	}
	return r
}

// GiftCard asks for a recipient, generates a message, paints the card and
// saves it.
type GiftCard struct {
	Dialogs   Prompter
	Greeter   Greeter
	Renderer  CardRenderer
	Year      int
	OutputDir string
	UniqueIDs bool
	// ID, when set, is appended to the file name instead of a random one.
	ID  string
	Log *zap.Logger
}

// Run executes the pipeline. A blank name is asked for when dialogs are
// available. Without dialogs the card goes to OutputDir.
func (c *GiftCard) Run(ctx context.Context, name string) Result {
	log := logging.OrNop(c.Log)
	r := Result{Kind: JobCard, Name: strings.TrimSpace(name)}

	if r.Name == "" && c.Dialogs != nil {
		n, ok, err := c.Dialogs.AskName("Your Magic Gift Card", "Who is this gift card for?", "")
		if err != nil {
			r.Err = fmt.Errorf("ask recipient: %w", err)
			return r
		}
		r.Name = strings.TrimSpace(n)
		if !ok {
			r.Canceled = true
			return r
		}
	}
	if r.Name == "" {
		r.Canceled = true
		return r
	}

	r.Message = c.Greeter.Generate(ctx, r.Name)
	img := c.Renderer.Render(r.Name, r.Message, c.Year)

	id := c.ID
	if id == "" && c.UniqueIDs {
		id = card.NewID()
	}
	filename := card.FileName(r.Name, c.Year, id)
	r.Path = filepath.Join(c.OutputDir, filename)

	if c.Dialogs != nil {
		path, ok, err := c.Dialogs.SaveLocation("Save Gift Card", filename)
		switch {
		case err != nil:
			log.Warn("save dialog failed, using output dir", zap.Error(err), zap.String("path", r.Path))
		case !ok:
			r.Canceled = true
			r.Path = ""
			return r
		default:
			r.Path = path
		}
	}

	if err := card.Save(img, r.Path); err != nil {
		r.Err = err
		return r
	}
	log.Info("gift card saved", zap.String("path", r.Path))
	return r
}

// Batch makes one card per name with at most limit cards in flight. newCard
// is called once per name so that no collaborator is shared between
// goroutines. Results keep the order of names. Names that would share a file
// name, such as "Mary Ann" and "Mary_Ann", get a short id after the first.
func Batch(ctx context.Context, names []string, limit int, newCard func() (*GiftCard, error)) ([]Result, error) {
	if limit < 1 {
		limit = 1
	}
	results := make([]Result, len(names))
	ids := collisionIDs(names)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, name := range names {
		eg.Go(func() error {
			gc, err := newCard()
			if err != nil {
				return err
			}
			if ids[i] != "" {
				gc.ID = ids[i]
			}
			results[i] = gc.Run(egCtx, name)
			if err := results[i].Err; err != nil {
				return fmt.Errorf("card for %q: %w", name, err)
			}
			return nil
		})
	}
	return results, eg.Wait()
}

// collisionIDs returns a unique id for every name whose card file name is
// already taken by an earlier name, and "" for the rest. Year and id do not
// change whether two names collide, so neither is needed here.
func collisionIDs(names []string) []string {
	ids := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	for i, name := range names {
		fn := card.FileName(strings.TrimSpace(name), 0, "")
		if taken[fn] {
			for {
				ids[i] = card.NewID()
				if fn = card.FileName(strings.TrimSpace(name), 0, ids[i]); !taken[fn] {
					break
				}
			}
		}
		taken[fn] = true
	}
	return ids
}

package slideshow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/wordpress"
)

// Status is what a deck currently has to show
type Status int

const (
	StatusIdle    Status = iota
	StatusLoading        // a load for the current generation is in flight
	StatusReady          // slides rendered
	StatusEmpty          // the source returned no posts
	StatusFailed         // the last load failed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Deck is the handle for one slideshow instance: an engine bound to a
// content source. Loads are tagged with a generation so a response for a
// superseded source is never applied.
type Deck struct {
	Name         string
	HeadingLevel int // 1-6, title emphasis on rendered slides

	engine     *Engine
	source     string
	generation uint64
	status     Status
	err        error
	fromCache  bool
	logger     *slog.Logger
}

// NewDeck creates an idle deck for source
func NewDeck(name, source string, headingLevel int, opts Options, width int, logger *slog.Logger) (*Deck, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if headingLevel < 1 || headingLevel > 6 {
		return nil, fmt.Errorf("%w: heading level %d", domain.ErrInvalidConfiguration, headingLevel)
	}
	engine, err := NewEngine(opts, width)
	if err != nil {
		return nil, err
	}
	return &Deck{
		Name:         name,
		HeadingLevel: headingLevel,
		engine:       engine,
		source:       wordpress.NormalizeSource(source),
		logger:       logger.With("deck", name),
	}, nil
}

// Engine returns the deck's slide engine
func (d *Deck) Engine() *Engine { return d.engine }

// Source returns the normalized content source
func (d *Deck) Source() string { return d.source }

// Status returns the deck status
func (d *Deck) Status() Status { return d.status }

// Err returns the error of the last failed load
func (d *Deck) Err() error { return d.err }

// FromCache reports whether the rendered posts came from the local cache
func (d *Deck) FromCache() bool { return d.fromCache }

// Generation returns the current load generation
func (d *Deck) Generation() uint64 { return d.generation }

// BeginLoad starts a new load of the current source and returns its generation
func (d *Deck) BeginLoad() uint64 {
	d.generation++
	d.status = StatusLoading
	d.err = nil
	d.logger.Debug("loading", "source", d.source, "generation", d.generation)
	return d.generation
}

// ChangeSource replaces the source, discards the rendered slides and markers,
// cancels autoplay and starts a new load.
func (d *Deck) ChangeSource(source string) uint64 {
	d.source = wordpress.NormalizeSource(source)
	d.engine.Reset()
	d.logger.Info("changing source", "source", d.source)
	return d.BeginLoad()
}

// Apply installs the result of the load tagged generation. Results for a
// superseded generation are dropped and false is returned. Errors are kept
// on the deck; they never reach the caller.
func (d *Deck) Apply(generation uint64, posts []domain.Post, fromCache bool, loadErr error) bool {
	if generation != d.generation {
		d.logger.Debug("dropping stale load", "generation", generation, "current", d.generation)
		return false
	}

	d.fromCache = fromCache
	if loadErr != nil {
		d.engine.Reset()
		d.status = StatusFailed
		d.err = loadErr
		d.logger.Warn("load failed", "source", d.source, "error", loadErr)
		return true
	}

	if err := d.engine.Load(posts); err != nil {
		if errors.Is(err, domain.ErrEmptyResultSet) {
			d.status = StatusEmpty
			d.err = err
			return true
		}
		d.status = StatusFailed
		d.err = err
		return true
	}

	d.status = StatusReady
	d.err = nil
	d.logger.Info("deck ready", "source", d.source, "posts", len(posts), "fromCache", fromCache)
	return true
}

// Posts returns the real posts in marker order
func (d *Deck) Posts() []domain.Post {
	slides := d.engine.Slides()
	posts := make([]domain.Post, 0, d.engine.PostCount())
	for _, s := range slides {
		if !s.Clone {
			posts = append(posts, s.Post)
		}
	}
	return posts
}

// CurrentPost returns the post under the viewport
func (d *Deck) CurrentPost() (domain.Post, bool) {
	s, ok := d.engine.Current()
	if !ok {
		return domain.Post{}, false
	}
	return s.Post, true
}

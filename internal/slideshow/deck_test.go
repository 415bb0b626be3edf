package slideshow

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestDeck(t *testing.T, source string, opts Options) *Deck {
	t.Helper()
	d, err := NewDeck("main", source, 2, opts, testWidth, discard)
	if err != nil {
		t.Fatalf("NewDeck failed: %v", err)
	}
	return d
}

func TestNewDeck(t *testing.T) {
	d := newTestDeck(t, " example.com/ ", loopOpts())

	if d.Source() != "https://example.com" {
		t.Errorf("source = %q, want normalized https://example.com", d.Source())
	}
	if d.Status() != StatusIdle || d.Generation() != 0 {
		t.Errorf("status = %s, generation = %d; want idle, 0", d.Status(), d.Generation())
	}

	for _, level := range []int{0, 7, -1} {
		_, err := NewDeck("bad", "example.com", level, loopOpts(), testWidth, discard)
		if !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Errorf("heading level %d: error = %v, want ErrInvalidConfiguration", level, err)
		}
	}

	_, err := NewDeck("bad", "example.com", 2, Options{Autoplay: true}, testWidth, discard)
	if !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Errorf("autoplay without interval: error = %v", err)
	}
}

func TestDeckApply(t *testing.T) {
	d := newTestDeck(t, "example.com", loopOpts())

	gen := d.BeginLoad()
	if d.Status() != StatusLoading {
		t.Fatalf("status = %s, want loading", d.Status())
	}
	if !d.Apply(gen, testPosts(3), true, nil) {
		t.Fatal("Apply rejected the current generation")
	}
	if d.Status() != StatusReady || d.Err() != nil || !d.FromCache() {
		t.Errorf("status = %s, err = %v, fromCache = %v", d.Status(), d.Err(), d.FromCache())
	}

	posts := d.Posts()
	if len(posts) != 3 {
		t.Fatalf("Posts() returned %d, want 3", len(posts))
	}
	for i, p := range posts {
		if want := testPosts(3)[i].TitleText; p.TitleText != want {
			t.Errorf("Posts()[%d] = %q, want %q", i, p.TitleText, want)
		}
	}

	cur, ok := d.CurrentPost()
	if !ok || cur.TitleText != "Post 0" {
		t.Errorf("CurrentPost() = %q, %v; want Post 0", cur.TitleText, ok)
	}
}

func TestDeckApplyFailures(t *testing.T) {
	tests := []struct {
		name    string
		posts   []domain.Post
		loadErr error
		status  Status
		wantErr error
	}{
		{"fetch failure", nil, domain.ErrFetchFailure, StatusFailed, domain.ErrFetchFailure},
		{"empty result", nil, nil, StatusEmpty, domain.ErrEmptyResultSet},
		{"empty slice", []domain.Post{}, nil, StatusEmpty, domain.ErrEmptyResultSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeck(t, "example.com", loopOpts())
			gen := d.BeginLoad()
			d.Apply(gen, testPosts(2), false, nil)

			gen = d.BeginLoad()
			if !d.Apply(gen, tt.posts, false, tt.loadErr) {
				t.Fatal("Apply rejected the current generation")
			}
			if d.Status() != tt.status {
				t.Errorf("status = %s, want %s", d.Status(), tt.status)
			}
			if !errors.Is(d.Err(), tt.wantErr) {
				t.Errorf("Err() = %v, want %v", d.Err(), tt.wantErr)
			}
			if d.Engine().State() != StateIdle || d.Engine().Total() != 0 {
				t.Errorf("engine should be cleared, state = %s total = %d", d.Engine().State(), d.Engine().Total())
			}
			if _, ok := d.CurrentPost(); ok {
				t.Error("CurrentPost() should report nothing to show")
			}
		})
	}
}

func TestDeckDropsStaleLoads(t *testing.T) {
	d := newTestDeck(t, "first.example", loopOpts())

	stale := d.BeginLoad()
	current := d.ChangeSource("second.example")

	if d.Apply(stale, testPosts(5), false, nil) {
		t.Error("stale generation was applied")
	}
	if d.Status() != StatusLoading || d.Engine().Total() != 0 {
		t.Errorf("stale load changed the deck: status %s total %d", d.Status(), d.Engine().Total())
	}

	if !d.Apply(current, testPosts(2), false, nil) {
		t.Fatal("current generation was rejected")
	}
	if d.Engine().PostCount() != 2 {
		t.Errorf("post count = %d, want 2", d.Engine().PostCount())
	}
}

func TestDeckChangeSource(t *testing.T) {
	opts := loopOpts()
	opts.Autoplay = true
	opts.Interval = 3 * time.Second
	d := newTestDeck(t, "first.example", opts)

	d.Apply(d.BeginLoad(), testPosts(5), false, nil)
	e := d.Engine()
	e.Advance(true, 0)
	e.TransitionEnd()
	e.Advance(true, 0)
	e.TransitionEnd()
	if e.Index() != 3 {
		t.Fatalf("index = %d, want 3", e.Index())
	}

	gen := d.ChangeSource("https://second.example/")
	if d.Source() != "https://second.example" {
		t.Errorf("source = %q", d.Source())
	}
	if d.Status() != StatusLoading {
		t.Errorf("status = %s, want loading", d.Status())
	}
	if e.State() != StateIdle || e.Total() != 0 || len(e.Markers()) != 0 {
		t.Errorf("old slides survived the source change: total %d", e.Total())
	}
	if _, active := e.Autoplay(); active {
		t.Error("autoplay should stop while the new source loads")
	}

	d.Apply(gen, testPosts(2), false, nil)
	if e.Total() != 4 || len(e.Markers()) != 2 {
		t.Errorf("total = %d, markers = %d; want 4, 2", e.Total(), len(e.Markers()))
	}
	if e.Index() != 1 || e.ActiveMarker() != 0 {
		t.Errorf("index = %d, marker = %d; want 1, 0", e.Index(), e.ActiveMarker())
	}
	if _, active := e.Autoplay(); !active {
		t.Error("autoplay should restart with the new posts")
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusIdle:    "idle",
		StatusLoading: "loading",
		StatusReady:   "ready",
		StatusEmpty:   "empty",
		StatusFailed:  "failed",
		Status(42):    "Status(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

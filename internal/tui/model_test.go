package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/config"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/logging"
	"github.com/mmcdole/postdeck/internal/service"
	"github.com/mmcdole/postdeck/internal/slideshow"
	"github.com/mmcdole/postdeck/internal/store"
)

const threePosts = `[
  {"date":"2024-03-09T10:00:00","link":"https://a.example/one","title":{"rendered":"Hello World"},"excerpt":{"rendered":"<p>First excerpt</p>"}},
  {"date":"2024-03-10T10:00:00","link":"https://a.example/two","title":{"rendered":"Go Concurrency"},"excerpt":{"rendered":"<p>Second excerpt</p>"}},
  {"date":"2024-03-11T10:00:00","link":"https://a.example/three","title":{"rendered":"Third Post"},"excerpt":{"rendered":"<p>Third excerpt</p>"}}
]`

const twoPosts = `[
  {"date":"2024-04-01T10:00:00","link":"https://b.example/x","title":{"rendered":"Bee One"},"excerpt":{"rendered":"<p>x</p>"}},
  {"date":"2024-04-02T10:00:00","link":"https://b.example/y","title":{"rendered":"Bee Two"},"excerpt":{"rendered":"<p>y</p>"}}
]`

type fakeRepo struct {
	bodies map[string]string
}

func (r *fakeRepo) FetchPosts(_ context.Context, source string) ([]byte, error) {
	body, ok := r.bodies[source]
	if !ok {
		return nil, domain.ErrFetchFailure
	}
	return []byte(body), nil
}

type fakeLauncher struct {
	mu   sync.Mutex
	urls []string
}

func (l *fakeLauncher) Launch(url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.urls = append(l.urls, url)
	return nil
}

var loopOpts = slideshow.Options{
	Transition:   400 * time.Millisecond,
	InfiniteLoop: true,
}

// newTestModel builds a sized model over decks pointed at sources
func newTestModel(t *testing.T, opts slideshow.Options, sources ...string) (Model, *fakeLauncher) {
	t.Helper()

	s, err := store.NewPostStore("")
	if err != nil {
		t.Fatalf("NewPostStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	repo := &fakeRepo{bodies: map[string]string{
		"https://a.example": threePosts,
		"https://b.example": twoPosts,
	}}
	logger := logging.NullLogger()
	loader := service.NewLoader(repo, s, service.LoaderOptions{}, logger)
	launcher := &fakeLauncher{}
	reader := service.NewReaderService(launcher, logger)

	cfg := config.DefaultConfig()
	cfg.Decks = nil

	decks := make([]*slideshow.Deck, len(sources))
	for i, src := range sources {
		d, err := slideshow.NewDeck("deck"+string(rune('A'+i)), src, 2, opts, 0, logger)
		if err != nil {
			t.Fatalf("NewDeck failed: %v", err)
		}
		decks[i] = d
		cfg.Decks = append(cfg.Decks, config.DeckConfig{Name: d.Name, PostsWebsite: src})
	}

	m := NewModel(decks, loader, reader, cfg, logger)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, launcher
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// loadAll runs the load of every deck synchronously
func loadAll(t *testing.T, m Model) Model {
	t.Helper()
	for i, p := range m.panes {
		gen := p.deck.BeginLoad()
		msg := LoadPostsCmd(m.Loader, i, gen, p.deck.Source())()
		m = update(t, m, msg)
	}
	return m
}

// settle feeds animation frames until the deck is at rest
func settle(t *testing.T, m Model, deck int) Model {
	t.Helper()
	for i := 0; i < 500; i++ {
		p := m.panes[deck]
		if !p.anim.active && p.deck.Engine().State() != slideshow.StateTransitioning {
			return m
		}
		m = update(t, m, AnimationFrameMsg{Deck: deck})
	}
	t.Fatal("animation did not settle")
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLoadsDecks(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)

	d := m.Focused()
	if d.Status() != slideshow.StatusReady {
		t.Fatalf("Status = %v, want ready", d.Status())
	}
	e := d.Engine()
	if e.PostCount() != 3 || e.Total() != 5 || e.Index() != 1 {
		t.Errorf("got posts=%d total=%d index=%d, want 3/5/1", e.PostCount(), e.Total(), e.Index())
	}
	if e.Width() != 80*8 {
		t.Errorf("engine width = %d, want %d", e.Width(), 80*8)
	}
	if got := m.panes[0].anim.position(); got != 640 {
		t.Errorf("strip position = %d, want 640", got)
	}

	view := m.View()
	for _, want := range []string{"Hello World", "2024/03/09", "First excerpt", "Read More →", "1/3"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModelKeyNavigation(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	e := m.Focused().Engine()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if e.State() != slideshow.StateTransitioning {
		t.Fatalf("State = %v, want transitioning", e.State())
	}
	if !m.panes[0].anim.active {
		t.Fatal("animator should be moving")
	}
	m = settle(t, m, 0)
	if e.Index() != 2 || e.ActiveMarker() != 1 {
		t.Errorf("after advance index=%d marker=%d, want 2/1", e.Index(), e.ActiveMarker())
	}
	if got := m.panes[0].anim.position(); got != 2*640 {
		t.Errorf("strip position = %d, want %d", got, 2*640)
	}

	m = update(t, m, keyRunes("h"))
	m = settle(t, m, 0)
	if e.Index() != 1 || e.ActiveMarker() != 0 {
		t.Errorf("after retreat index=%d marker=%d, want 1/0", e.Index(), e.ActiveMarker())
	}
}

func TestModelLoopWrap(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	e := m.Focused().Engine()

	for i := 0; i < 3; i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
		m = settle(t, m, 0)
	}

	if e.Index() != 1 || e.ActiveMarker() != 0 {
		t.Errorf("after full lap index=%d marker=%d, want 1/0", e.Index(), e.ActiveMarker())
	}
	if got := m.panes[0].anim.position(); got != 640 {
		t.Errorf("strip position = %d, want 640 after settle", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = settle(t, m, 0)
	if e.Index() != 3 || e.ActiveMarker() != 2 {
		t.Errorf("after retreat across start index=%d marker=%d, want 3/2", e.Index(), e.ActiveMarker())
	}
}

func TestModelJumpKey(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	e := m.Focused().Engine()

	m = update(t, m, keyRunes("2"))
	m = settle(t, m, 0)
	if e.ActiveMarker() != 1 {
		t.Errorf("ActiveMarker() = %d, want 1", e.ActiveMarker())
	}

	// Beyond the post count is ignored
	m = update(t, m, keyRunes("9"))
	m = settle(t, m, 0)
	if e.ActiveMarker() != 1 {
		t.Errorf("ActiveMarker() = %d after out of range jump, want 1", e.ActiveMarker())
	}
}

func TestModelMouseSwipe(t *testing.T) {
	tests := []struct {
		name       string
		toX        int
		wantMarker int
	}{
		{"commit left", 30, 1},     // 160px drag
		{"snap back", 45, 0},       // 40px drag
		{"commit right", 70, 2},    // 160px drag the other way
		{"below threshold", 62, 0}, // 96px
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, loopOpts, "a.example")
			m = loadAll(t, m)
			e := m.Focused().Engine()

			m = update(t, m, tea.MouseMsg{X: 50, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			if !e.Dragging() {
				t.Fatal("press on the strip should start a drag")
			}
			m = update(t, m, tea.MouseMsg{X: tt.toX, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
			if got, want := m.panes[0].anim.position(), 640-(tt.toX-50)*8; got != want {
				t.Errorf("strip during drag = %d, want %d", got, want)
			}
			m = update(t, m, tea.MouseMsg{X: tt.toX, Y: 5, Action: tea.MouseActionRelease})
			if e.Dragging() {
				t.Error("release should end the drag")
			}
			m = settle(t, m, 0)

			if e.ActiveMarker() != tt.wantMarker {
				t.Errorf("ActiveMarker() = %d, want %d", e.ActiveMarker(), tt.wantMarker)
			}
		})
	}
}

func TestModelMarkerClick(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	e := m.Focused().Engine()

	layout := m.calculateLayout()
	// Three markers centered in 80 columns start at column 37
	m = update(t, m, tea.MouseMsg{X: 41, Y: layout.markerRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = settle(t, m, 0)

	if e.ActiveMarker() != 2 {
		t.Errorf("ActiveMarker() = %d, want 2", e.ActiveMarker())
	}
	if e.Index() != 3 {
		t.Errorf("Index() = %d, want 3", e.Index())
	}

	// The gap between markers is not a target
	m = update(t, m, tea.MouseMsg{X: 38, Y: layout.markerRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = settle(t, m, 0)
	if e.ActiveMarker() != 2 {
		t.Errorf("ActiveMarker() = %d after gap click, want 2", e.ActiveMarker())
	}
}

func TestModelMouseWheel(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	e := m.Focused().Engine()

	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m = settle(t, m, 0)
	if e.ActiveMarker() != 1 {
		t.Errorf("wheel down: ActiveMarker() = %d, want 1", e.ActiveMarker())
	}

	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	m = settle(t, m, 0)
	if e.ActiveMarker() != 0 {
		t.Errorf("wheel up: ActiveMarker() = %d, want 0", e.ActiveMarker())
	}
}

func TestModelChangeSource(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	d := m.Focused()
	oldGen := d.Generation()

	m = update(t, m, keyRunes("e"))
	if !m.SourceForm.IsVisible() {
		t.Fatal("e should show the source form")
	}
	if got := m.calculateLayout().stripHeight; got >= 20 {
		t.Errorf("strip height = %d, want it to shrink for the form", got)
	}

	// Keys belong to the form while it is shown
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = update(t, m, keyRunes("b.example"))
	if d.Engine().ActiveMarker() != 0 {
		t.Error("typing into the form must not navigate")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.SourceForm.IsVisible() {
		t.Error("submit should hide the form")
	}
	if d.Source() != "https://b.example" {
		t.Errorf("Source() = %q, want https://b.example", d.Source())
	}
	if d.Status() != slideshow.StatusLoading {
		t.Errorf("Status = %v, want loading", d.Status())
	}
	if d.Engine().Total() != 0 {
		t.Error("old slides should be discarded")
	}

	// A late response for the old source is dropped
	stale := LoadPostsCmd(m.Loader, 0, oldGen, "https://a.example")()
	m = update(t, m, stale)
	if d.Status() != slideshow.StatusLoading {
		t.Errorf("stale load applied: Status = %v", d.Status())
	}

	m = update(t, m, LoadPostsCmd(m.Loader, 0, d.Generation(), d.Source())())
	if d.Status() != slideshow.StatusReady || d.Engine().PostCount() != 2 {
		t.Fatalf("got status=%v posts=%d, want ready with 2", d.Status(), d.Engine().PostCount())
	}
	if d.Engine().Total() != 4 || d.Engine().Index() != 1 {
		t.Errorf("total=%d index=%d, want 4/1", d.Engine().Total(), d.Engine().Index())
	}
	if !strings.Contains(m.View(), "Bee One") {
		t.Error("View() should show the new source's first post")
	}
}

func TestModelFormEscape(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)

	m = update(t, m, keyRunes("e"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.SourceForm.IsVisible() {
		t.Error("esc should hide the form")
	}
	if m.Focused().Source() != "https://a.example" {
		t.Errorf("Source() changed to %q", m.Focused().Source())
	}
}

func TestModelAutoplay(t *testing.T) {
	opts := loopOpts
	opts.Autoplay = true
	opts.Interval = time.Second

	m, _ := newTestModel(t, opts, "a.example")
	e := m.Focused().Engine()

	p := m.panes[0]
	gen := p.deck.BeginLoad()
	m, cmd := updateCmd(t, m, LoadPostsCmd(m.Loader, 0, gen, p.deck.Source())())
	if cmd == nil {
		t.Fatal("load with autoplay should schedule a tick")
	}
	token, active := e.Autoplay()
	if !active {
		t.Fatal("autoplay should be running")
	}

	m, cmd = updateCmd(t, m, AutoplayTickMsg{Deck: 0, Token: token})
	if cmd == nil {
		t.Error("a live tick should schedule the next one")
	}
	m = settle(t, m, 0)
	if e.ActiveMarker() != 1 {
		t.Errorf("ActiveMarker() = %d after tick, want 1", e.ActiveMarker())
	}

	// A user move cancels autoplay; the old token goes dead
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = settle(t, m, 0)
	m, cmd = updateCmd(t, m, AutoplayTickMsg{Deck: 0, Token: token})
	if cmd != nil {
		t.Error("a dead token should not reschedule")
	}
	if e.ActiveMarker() != 2 {
		t.Errorf("ActiveMarker() = %d, want 2", e.ActiveMarker())
	}
}

func TestModelLoadFailure(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "missing.example")
	m = loadAll(t, m)

	d := m.Focused()
	if d.Status() != slideshow.StatusFailed {
		t.Fatalf("Status = %v, want failed", d.Status())
	}
	view := m.View()
	if !strings.Contains(view, "Press r to retry") {
		t.Error("View() should offer a retry")
	}

	// Navigation on a failed deck is inert
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if d.Engine().State() != slideshow.StateIdle {
		t.Errorf("State = %v, want idle", d.Engine().State())
	}
}

func TestModelOpenPost(t *testing.T) {
	m, launcher := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)

	_, cmd := updateCmd(t, m, keyRunes("o"))
	if cmd == nil {
		t.Fatal("o should open the current post")
	}
	msg := cmd()
	opened, ok := msg.(PostOpenedMsg)
	if !ok {
		t.Fatalf("got %T, want PostOpenedMsg", msg)
	}
	if opened.Title != "Hello World" {
		t.Errorf("Title = %q, want Hello World", opened.Title)
	}
	if len(launcher.urls) != 1 || launcher.urls[0] != "https://a.example/one" {
		t.Errorf("launched %v, want the first permalink", launcher.urls)
	}
}

func TestModelFinder(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	e := m.Focused().Engine()

	m = update(t, m, keyRunes("/"))
	if !m.Finder.IsVisible() {
		t.Fatal("/ should open the finder")
	}
	m = update(t, m, keyRunes("conc"))
	if len(m.Finder.Results()) != 1 {
		t.Fatalf("got %d results, want 1", len(m.Finder.Results()))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Finder.IsVisible() {
		t.Error("selecting should close the finder")
	}
	m = settle(t, m, 0)
	if e.ActiveMarker() != 1 {
		t.Errorf("ActiveMarker() = %d, want 1", e.ActiveMarker())
	}
}

func TestModelMultipleDecks(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example", "b.example")
	m = loadAll(t, m)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused().Source() != "https://b.example" {
		t.Fatalf("focused %q, want the second deck", m.Focused().Source())
	}

	// Moves only touch the focused deck
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = settle(t, m, 1)
	if got := m.panes[0].deck.Engine().ActiveMarker(); got != 0 {
		t.Errorf("unfocused deck moved to marker %d", got)
	}
	if got := m.panes[1].deck.Engine().ActiveMarker(); got != 1 {
		t.Errorf("focused deck marker = %d, want 1", got)
	}

	// Clicking the first tab focuses it again
	m = update(t, m, tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.focused != 0 {
		t.Errorf("focused = %d after tab click, want 0", m.focused)
	}
}

func TestModelResizeEndsTransition(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	e := m.Focused().Engine()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if e.State() != slideshow.StateReady {
		t.Errorf("State = %v, want ready after resize", e.State())
	}
	if got := m.panes[0].anim.position(); got != 2*800 {
		t.Errorf("strip position = %d, want %d", got, 2*800)
	}
}

func TestModelClickDuringTransitionFinishesMove(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)
	e := m.Focused().Engine()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.MouseMsg{X: 50, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	// The spring arrives while the button is held, so the engine is not told
	for i := 0; i < 500 && m.panes[0].anim.active; i++ {
		m = update(t, m, AnimationFrameMsg{Deck: 0})
	}
	if e.State() != slideshow.StateTransitioning {
		t.Fatalf("State = %v, want transitioning while held", e.State())
	}

	m, cmd := updateCmd(t, m, tea.MouseMsg{X: 50, Y: 5, Action: tea.MouseActionRelease})
	if cmd == nil {
		t.Fatal("release should schedule an animation tick")
	}
	m = settle(t, m, 0)
	if e.State() != slideshow.StateReady || e.Index() != 2 {
		t.Errorf("State = %v index = %d, want ready at 2", e.State(), e.Index())
	}
}

func TestModelSaveSources(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)

	m = update(t, m, keyRunes("e"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = update(t, m, keyRunes("b.example"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := updateCmd(t, m, keyRunes("s"))
	if cmd == nil {
		t.Fatal("s should save the sources")
	}
	if got := m.Config.Decks[0].PostsWebsite; got != "https://b.example" {
		t.Errorf("PostsWebsite = %q, want the new source", got)
	}
}

func TestModelHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, loopOpts, "a.example")
	m = loadAll(t, m)

	m = update(t, m, keyRunes("?"))
	if !m.ShowHelp {
		t.Fatal("? should show help")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not rendered")
	}

	// Keys do not navigate under the overlay
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Focused().Engine().State() != slideshow.StateReady {
		t.Error("help overlay should swallow navigation")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.ShowHelp {
		t.Error("esc should close help")
	}
}

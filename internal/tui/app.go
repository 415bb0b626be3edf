package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/config"
	"github.com/mmcdole/postdeck/internal/service"
	"github.com/mmcdole/postdeck/internal/slideshow"
	"github.com/mmcdole/postdeck/internal/tui/components"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

// deckPane binds a deck to its strip animation and title index
type deckPane struct {
	deck  *slideshow.Deck
	anim  *animator
	index *service.PostIndex
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready bool

	// Services
	Loader *service.Loader
	Reader *service.ReaderService
	Config *config.Config

	panes   []*deckPane
	focused int

	// UI Components
	SourceForm components.SourceForm
	Finder     components.Finder
	Help       help.Model
	Spinner    spinner.Model
	ShowHelp   bool

	// Dimensions
	Width      int
	Height     int
	cellPixels int

	// UI state
	StatusMsg   string
	StatusIsErr bool

	logger *slog.Logger
}

// NewModel creates a new application model hosting decks
func NewModel(
	decks []*slideshow.Deck,
	loader *service.Loader,
	reader *service.ReaderService,
	cfg *config.Config,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}

	panes := make([]*deckPane, len(decks))
	for i, d := range decks {
		p := &deckPane{deck: d, anim: &animator{}}
		d.Engine().OnFrame(p.anim.apply)
		panes[i] = p
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	cellPixels := cfg.UI.CellPixels
	if cellPixels <= 0 {
		cellPixels = 8
	}

	return Model{
		Loader:     loader,
		Reader:     reader,
		Config:     cfg,
		panes:      panes,
		SourceForm: components.NewSourceForm(),
		Finder:     components.NewFinder(),
		Help:       help.New(),
		Spinner:    sp,
		cellPixels: cellPixels,
		logger:     logger,
	}
}

// Init starts loading every deck
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Spinner.Tick}
	for i, p := range m.panes {
		gen := p.deck.BeginLoad()
		cmds = append(cmds, LoadPostsCmd(m.Loader, i, gen, p.deck.Source()))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case PostsLoadedMsg:
		return m.handlePostsLoaded(msg)

	case AutoplayTickMsg:
		return m.handleAutoplayTick(msg)

	case AnimationFrameMsg:
		return m.handleAnimationFrame(msg)

	case PostOpenedMsg:
		m.StatusMsg = fmt.Sprintf("Opened %q in browser", msg.Title)
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ConfigSavedMsg:
		m.StatusMsg = "Saved sources to " + msg.Path
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ErrMsg:
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	switch {
	case m.Finder.IsVisible():
		m.Finder, cmd, _ = m.Finder.Update(msg)
	case m.SourceForm.IsVisible():
		m.SourceForm, cmd, _ = m.SourceForm.Update(msg)
	}
	return m, cmd
}

// handlePostsLoaded applies a finished load to its deck
func (m Model) handlePostsLoaded(msg PostsLoadedMsg) (tea.Model, tea.Cmd) {
	p := m.pane(msg.Deck)
	if p == nil {
		return m, nil
	}
	if !p.deck.Apply(msg.Generation, msg.Result.Posts, msg.Result.FromCache, msg.Err) {
		return m, nil
	}

	p.index = service.NewPostIndex(p.deck.Posts())

	e := p.deck.Engine()
	if token, ok := e.Autoplay(); ok {
		return m, AutoplayCmd(msg.Deck, token, e.Options().Interval)
	}
	return m, nil
}

// handleAutoplayTick advances a deck and schedules the next tick while the
// token stays live
func (m Model) handleAutoplayTick(msg AutoplayTickMsg) (tea.Model, tea.Cmd) {
	p := m.pane(msg.Deck)
	if p == nil {
		return m, nil
	}
	e := p.deck.Engine()
	if !e.AutoplayTick(msg.Token) {
		return m, nil
	}
	return m, tea.Batch(
		AutoplayCmd(msg.Deck, msg.Token, e.Options().Interval),
		m.animationCmds(),
	)
}

// handleAnimationFrame steps a deck's spring and reports arrival to the engine
func (m Model) handleAnimationFrame(msg AnimationFrameMsg) (tea.Model, tea.Cmd) {
	p := m.pane(msg.Deck)
	if p == nil {
		return m, nil
	}
	p.anim.ticking = false

	if p.anim.step() || !p.anim.active {
		e := p.deck.Engine()
		if e.State() == slideshow.StateTransitioning && !e.Dragging() {
			e.TransitionEnd()
		}
	}
	return m, m.animationCmds()
}

// animationCmds schedules a tick for every deck with a move in flight
func (m Model) animationCmds() tea.Cmd {
	var cmds []tea.Cmd
	for i, p := range m.panes {
		if p.anim.needsTick() {
			cmds = append(cmds, AnimationTickCmd(i))
		}
	}
	return tea.Batch(cmds...)
}

// changeSource points the focused deck at source and starts loading it
func (m Model) changeSource(source string) tea.Cmd {
	p := m.focusedPane()
	if p == nil {
		return nil
	}
	gen := p.deck.ChangeSource(source)
	p.index = nil
	return LoadPostsCmd(m.Loader, m.focused, gen, p.deck.Source())
}

// reload drops the focused deck's cached posts and fetches them again
func (m Model) reload() tea.Cmd {
	p := m.focusedPane()
	if p == nil {
		return nil
	}
	m.Loader.Invalidate(p.deck.Source())
	gen := p.deck.BeginLoad()
	return LoadPostsCmd(m.Loader, m.focused, gen, p.deck.Source())
}

// saveSources writes the current deck sources back to the config
func (m Model) saveSources() tea.Cmd {
	for i, p := range m.panes {
		if i < len(m.Config.Decks) {
			m.Config.Decks[i].PostsWebsite = p.deck.Source()
		}
	}
	return SaveConfigCmd(m.Config)
}

func (m Model) pane(i int) *deckPane {
	if i < 0 || i >= len(m.panes) {
		return nil
	}
	return m.panes[i]
}

func (m Model) focusedPane() *deckPane {
	return m.pane(m.focused)
}

// Focused returns the focused deck
func (m Model) Focused() *slideshow.Deck {
	if p := m.focusedPane(); p != nil {
		return p.deck
	}
	return nil
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/postdeck/internal/service"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

// Finder is the fuzzy post title search modal
type Finder struct {
	input     textinput.Model
	index     *service.PostIndex
	results   []service.PostMatch
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string
}

// NewFinder creates a new finder component
func NewFinder() Finder {
	ti := textinput.New()
	ti.Placeholder = "Find a post..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Finder{
		input: ti,
	}
}

// Show makes the finder visible over index and focuses the input
func (f *Finder) Show(index *service.PostIndex) {
	f.visible = true
	f.index = index
	f.input.SetValue("")
	f.input.Focus()
	f.results = nil
	f.cursor = 0
	f.prevQuery = ""
}

// Hide hides the finder
func (f *Finder) Hide() {
	f.visible = false
	f.input.Blur()
}

// IsVisible returns true if the finder is visible
func (f Finder) IsVisible() bool {
	return f.visible
}

// SetSize updates the component dimensions
func (f *Finder) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.input.Width = max(width-10, 10)
}

// Query returns the current search query
func (f Finder) Query() string {
	return f.input.Value()
}

// Results returns the current matches, best first
func (f Finder) Results() []service.PostMatch {
	return f.results
}

// Selected returns the marker of the highlighted match
func (f Finder) Selected() (int, bool) {
	if len(f.results) == 0 || f.cursor >= len(f.results) {
		return 0, false
	}
	return f.results[f.cursor].Marker, true
}

// refresh re-runs the search when the query changed
func (f *Finder) refresh() {
	current := f.input.Value()
	if current == f.prevQuery {
		return
	}
	f.prevQuery = current
	f.cursor = 0
	if f.index == nil {
		f.results = nil
		return
	}
	f.results = f.index.Find(current)
}

// Init initializes the component
func (f Finder) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages, returns (finder, cmd, selected)
func (f Finder) Update(msg tea.Msg) (Finder, tea.Cmd, bool) {
	if !f.visible {
		return f, nil, false
	}

	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, ModalKeys.Escape):
			f.Hide()
			return f, nil, false

		case key.Matches(keyMsg, ModalKeys.Enter):
			if len(f.results) > 0 {
				f.Hide()
				return f, nil, true
			}
			return f, nil, false

		case key.Matches(keyMsg, ModalKeys.Down):
			if f.cursor < len(f.results)-1 {
				f.cursor++
			}
			return f, nil, false

		case key.Matches(keyMsg, ModalKeys.Up):
			if f.cursor > 0 {
				f.cursor--
			}
			return f, nil, false
		}
	}

	f.input, cmd = f.input.Update(msg)
	f.refresh()
	return f, cmd, false
}

// View renders the component
func (f Finder) View() string {
	if !f.visible {
		return ""
	}

	modalWidth := min(max(f.width*2/3, 40), 80)
	const maxResults = 10

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Find Post"))
	b.WriteString("\n")
	b.WriteString(f.input.View())
	b.WriteString("\n\n")

	switch {
	case len(f.results) == 0 && f.input.Value() != "":
		b.WriteString(styles.DimStyle.Render("No matches found"))
	default:
		shown := min(len(f.results), maxResults)
		for i := 0; i < shown; i++ {
			r := f.results[i]
			title := styles.Truncate(r.Title, modalWidth-12)
			b.WriteString(fmt.Sprintf("%2d ", r.Marker+1))
			b.WriteString(highlightMatches(title, r.MatchedIndexes, i == f.cursor))
			b.WriteString("\n")
		}
		if len(f.results) > maxResults {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(f.results)-maxResults)))
		}
	}

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	return styles.ModalStyle.
		Width(modalWidth).
		Render(content)
}

// highlightMatches renders text with matched characters highlighted
func highlightMatches(text string, matchedIndexes []int, selected bool) string {
	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	normal := styles.SubtitleStyle
	match := styles.MatchHighlightStyle
	if selected {
		normal = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		match = styles.MatchHighlightSelectedStyle
	}

	// Batch consecutive characters with the same style
	var result strings.Builder
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		isMatch := matchSet[i]
		var batch strings.Builder
		for i < len(runes) && matchSet[i] == isMatch {
			batch.WriteRune(runes[i])
			i++
		}
		if isMatch {
			result.WriteString(match.Render(batch.String()))
		} else {
			result.WriteString(normal.Render(batch.String()))
		}
	}
	return result.String()
}

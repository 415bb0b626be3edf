package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/postdeck/internal/service"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

const maxSuggestions = 5

// SourceForm is the content source switcher: a text input, a Load button
// and suggestions from previously loaded sources
type SourceForm struct {
	visible     bool
	input       textinput.Model
	history     []string
	suggestions []string
	cursor      int // highlighted suggestion, -1 for none
	width       int
}

// NewSourceForm creates a new source form
func NewSourceForm() SourceForm {
	ti := textinput.New()
	ti.Placeholder = "example.com"
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = "Source: "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SourceForm{
		input:  ti,
		cursor: -1,
	}
}

// Show displays the form prefilled with the current source
func (f *SourceForm) Show(current string, history []string) {
	f.visible = true
	f.history = history
	f.input.SetValue(current)
	f.input.CursorEnd()
	f.input.Focus()
	f.suggest()
}

// Hide dismisses the form
func (f *SourceForm) Hide() {
	f.visible = false
	f.input.Blur()
}

// Toggle shows a hidden form or hides a visible one
func (f *SourceForm) Toggle(current string, history []string) {
	if f.visible {
		f.Hide()
		return
	}
	f.Show(current, history)
}

// IsVisible returns whether the form is shown
func (f SourceForm) IsVisible() bool {
	return f.visible
}

// Value returns the current input value
func (f SourceForm) Value() string {
	return strings.TrimSpace(f.input.Value())
}

// Suggestions returns the sources offered for the current input
func (f SourceForm) Suggestions() []string {
	return f.suggestions
}

// SetWidth updates the form width
func (f *SourceForm) SetWidth(width int) {
	f.width = width
	f.input.Width = max(width-24, 10)
}

// Height returns the number of lines View renders
func (f SourceForm) Height() int {
	if !f.visible {
		return 0
	}
	return 3 + len(f.suggestions) // border, input row, suggestions
}

func (f *SourceForm) suggest() {
	f.suggestions = service.SuggestSources(f.input.Value(), f.history, maxSuggestions)
	// The exact current value is not worth suggesting
	filtered := make([]string, 0, len(f.suggestions))
	for _, s := range f.suggestions {
		if s != f.Value() {
			filtered = append(filtered, s)
		}
	}
	f.suggestions = filtered
	if f.cursor >= len(f.suggestions) {
		f.cursor = -1
	}
}

// Init starts the cursor blink
func (f SourceForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input events, returns (form, cmd, submitted)
func (f SourceForm) Update(msg tea.Msg) (SourceForm, tea.Cmd, bool) {
	if !f.visible {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, ModalKeys.Enter, ModalKeys.Load):
			if f.cursor >= 0 {
				f.input.SetValue(f.suggestions[f.cursor])
				f.cursor = -1
			}
			if f.Value() == "" {
				return f, nil, false
			}
			f.Hide()
			return f, nil, true

		case key.Matches(keyMsg, ModalKeys.Escape):
			f.Hide()
			return f, nil, false

		case key.Matches(keyMsg, ModalKeys.Complete):
			if len(f.suggestions) > 0 {
				pick := 0
				if f.cursor >= 0 {
					pick = f.cursor
				}
				f.input.SetValue(f.suggestions[pick])
				f.input.CursorEnd()
				f.cursor = -1
				f.suggest()
			}
			return f, nil, false

		case key.Matches(keyMsg, ModalKeys.Down):
			if f.cursor < len(f.suggestions)-1 {
				f.cursor++
			}
			return f, nil, false

		case key.Matches(keyMsg, ModalKeys.Up):
			if f.cursor >= 0 {
				f.cursor--
			}
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		f.cursor = -1
		f.suggest()
	}
	return f, cmd, false
}

// View renders the form
func (f SourceForm) View() string {
	if !f.visible {
		return ""
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		f.input.View(),
		" ",
		styles.ButtonStyle.Render("Load"),
	)

	lines := []string{row}
	for i, s := range f.suggestions {
		style := styles.SuggestionStyle
		if i == f.cursor {
			style = styles.SelectedSuggestionStyle
		}
		lines = append(lines, style.Render(styles.Truncate(s, max(f.width-8, 10))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Padding(0, 1).
		Width(max(f.width-2, 20)).
		Render(strings.Join(lines, "\n"))
}

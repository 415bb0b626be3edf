package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent     = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	LinkStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Underline(true)
)

// Heading styles, h1 through h6
var headingStyles = [6]lipgloss.Style{
	lipgloss.NewStyle().Foreground(SlateDark).Background(Accent).Bold(true).Padding(0, 1),
	lipgloss.NewStyle().Foreground(Accent).Bold(true).Underline(true),
	lipgloss.NewStyle().Foreground(Accent).Bold(true),
	lipgloss.NewStyle().Foreground(White).Bold(true),
	lipgloss.NewStyle().Foreground(White),
	lipgloss.NewStyle().Foreground(LightGray).Italic(true),
}

// HeadingStyle returns the title style for a heading level. Out of range
// levels are clamped.
func HeadingStyle(level int) lipgloss.Style {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return headingStyles[level-1]
}

// Tab bar
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Accent).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Background(SlateLight).
				Padding(0, 1)
)

// Slide styles
var (
	SlideStyle = lipgloss.NewStyle().
			Padding(1, 3)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Italic(true)
)

// Pagination markers
const (
	MarkerChar       = "○"
	ActiveMarkerChar = "●"
)

var (
	MarkerStyle       = lipgloss.NewStyle().Foreground(DimGray)
	ActiveMarkerStyle = lipgloss.NewStyle().Foreground(Accent)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Form styles
var (
	ButtonStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Accent).
			Padding(0, 1)

	SuggestionStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			PaddingLeft(2)

	SelectedSuggestionStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true).
				PaddingLeft(2)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Accent)

	// SpinnerFrames animates progress outside the TUI
	SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

// Match highlight styles for search results
var (
	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(Accent).
					Background(SlateLight).
					Bold(true)
)

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/slideshow"
	"github.com/mmcdole/postdeck/internal/tui/styles"
)

const (
	readMoreLabel = "Read More →"
	retryHint     = "Press r to retry, e to change source"
)

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	if m.Finder.IsVisible() {
		return lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Finder.View(),
		)
	}

	layout := m.calculateLayout()
	sections := []string{
		m.renderTabs(),
		m.renderSourceLine(),
		m.renderStrip(layout.stripHeight),
		m.renderMarkers(),
	}
	if m.SourceForm.IsVisible() {
		sections = append(sections, m.SourceForm.View())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderTabs renders one tab per deck, the focused one highlighted
func (m Model) renderTabs() string {
	tabs := make([]string, len(m.panes))
	for i, p := range m.panes {
		tabs[i] = m.tabLabel(i, p)
	}
	return ansi.Truncate(strings.Join(tabs, " "), m.Width, "")
}

func (m Model) tabLabel(i int, p *deckPane) string {
	if i == m.focused {
		return styles.ActiveTabStyle.Render(p.deck.Name)
	}
	return styles.InactiveTabStyle.Render(p.deck.Name)
}

// tabAt maps a column on the tab bar to a deck
func (m Model) tabAt(x int) (int, bool) {
	left := 0
	for i, p := range m.panes {
		w := lipgloss.Width(m.tabLabel(i, p))
		if x >= left && x < left+w {
			return i, true
		}
		left += w + 1
	}
	return 0, false
}

// renderSourceLine shows the focused deck's source and load status
func (m Model) renderSourceLine() string {
	p := m.focusedPane()
	if p == nil {
		return ""
	}
	d := p.deck
	e := d.Engine()

	var status string
	switch d.Status() {
	case slideshow.StatusLoading:
		status = m.Spinner.View() + " loading"
	case slideshow.StatusReady:
		status = fmt.Sprintf("%d/%d", e.ActiveMarker()+1, e.PostCount())
		if d.FromCache() {
			status += " · cached"
		}
		if _, ok := e.Autoplay(); ok {
			status += " · autoplay"
		}
	case slideshow.StatusEmpty:
		status = "no posts"
	case slideshow.StatusFailed:
		status = styles.ErrorStyle.Render("failed")
	}

	left := styles.SubtitleStyle.Render(styles.Truncate(d.Source(), max(m.Width-lipgloss.Width(status)-2, 10)))
	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(status), 1)
	return left + strings.Repeat(" ", gap) + styles.DimStyle.Render(status)
}

// renderStrip draws the part of the slide strip under the viewport. The
// animated offset is converted from pixels to cells and the two slides
// straddling it are spliced column-wise.
func (m Model) renderStrip(height int) string {
	p := m.focusedPane()
	if p == nil || m.Width <= 0 {
		return blankBlock(m.Width, height)
	}
	d := p.deck
	e := d.Engine()

	if d.Status() != slideshow.StatusReady || e.Total() == 0 {
		return m.renderPlaceholder(d, height)
	}

	cells := floorDiv(p.anim.position(), m.cellPixels)
	first := floorDiv(cells, m.Width)
	within := cells - first*m.Width

	left := strings.Split(m.renderSlideAt(d, first, height), "\n")
	if within == 0 {
		return strings.Join(left, "\n")
	}
	right := strings.Split(m.renderSlideAt(d, first+1, height), "\n")

	lines := make([]string, height)
	for i := range lines {
		lines[i] = ansi.Cut(left[i]+right[i], within, within+m.Width)
	}
	return strings.Join(lines, "\n")
}

// renderSlideAt renders slide i as exactly height lines of m.Width cells;
// positions off the strip render blank
func (m Model) renderSlideAt(d *slideshow.Deck, i, height int) string {
	slides := d.Engine().Slides()
	if i < 0 || i >= len(slides) {
		return blankBlock(m.Width, height)
	}
	return fitBlock(m.renderSlide(d, slides[i].Post, height), m.Width, height)
}

// renderSlide lays out one post: heading, date, excerpt, image and link
func (m Model) renderSlide(d *slideshow.Deck, post domain.Post, height int) string {
	frame := styles.SlideStyle.GetHorizontalFrameSize()
	inner := max(m.Width-frame, 10)

	title := styles.HeadingStyle(d.HeadingLevel).Render(styles.Truncate(post.TitleText, inner))
	date := styles.DimStyle.Render(post.DisplayDate())
	image := styles.DimStyle.Render(styles.Truncate("▣ "+m.imageURL(d, post), inner))
	link := styles.LinkStyle.Render(readMoreLabel) + " " +
		styles.DimStyle.Render(styles.Truncate(post.Link, max(inner-lipgloss.Width(readMoreLabel)-1, 0)))

	// title, date, gap, gap, image, link plus vertical padding
	avail := height - styles.SlideStyle.GetVerticalFrameSize() - 6
	excerpt := clampLines(wordWrap(post.ExcerptText, inner), avail)

	parts := []string{title, date, ""}
	if excerpt != "" {
		parts = append(parts, excerpt)
	}
	parts = append(parts, "", image, link)

	return styles.SlideStyle.
		Width(m.Width).
		Render(strings.Join(parts, "\n"))
}

// imageURL resolves the image for post; a site-relative placeholder is
// served from the deck's source
func (m Model) imageURL(d *slideshow.Deck, post domain.Post) string {
	img := post.Image(m.Config.UI.Placeholder)
	if strings.HasPrefix(img, "/") {
		return d.Source() + img
	}
	return img
}

// renderPlaceholder fills the strip while a deck has nothing to show
func (m Model) renderPlaceholder(d *slideshow.Deck, height int) string {
	var msg string
	switch d.Status() {
	case slideshow.StatusLoading, slideshow.StatusIdle:
		msg = m.Spinner.View() + " Loading posts from " + d.Source()
	case slideshow.StatusEmpty:
		msg = "No posts found at " + d.Source() + "\n\n" + retryHint
	case slideshow.StatusFailed:
		reason := "Failed to load posts"
		if err := d.Err(); err != nil {
			reason = err.Error()
		}
		msg = styles.ErrorStyle.Render(reason) + "\n\n" + retryHint
	}

	return lipgloss.Place(m.Width, height,
		lipgloss.Center, lipgloss.Center,
		styles.PlaceholderStyle.Render(msg),
	)
}

// renderMarkers renders the pagination row, centered
func (m Model) renderMarkers() string {
	p := m.focusedPane()
	if p == nil {
		return ""
	}
	markers := p.deck.Engine().Markers()
	if len(markers) == 0 {
		return ""
	}

	dots := make([]string, len(markers))
	for i, mk := range markers {
		if mk.Active {
			dots[i] = styles.ActiveMarkerStyle.Render(styles.ActiveMarkerChar)
		} else {
			dots[i] = styles.MarkerStyle.Render(styles.MarkerChar)
		}
	}
	row := strings.Join(dots, " ")
	start := max((m.Width-lipgloss.Width(row))/2, 0)
	return strings.Repeat(" ", start) + row
}

// renderFooter shows the status message or short help
func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
		}
		return styles.SuccessStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
	}
	return m.Help.ShortHelpView(Keys.ShortHelp())
}

// renderHelp renders the full key binding overlay
func (m Model) renderHelp() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keyboard Shortcuts"),
		m.Help.FullHelpView(Keys.FullHelp()),
		"",
		styles.DimStyle.Render("Mouse: drag to swipe, wheel to step, click a marker to jump"),
	)
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content),
	)
}

// fitBlock pads or cuts s to exactly height lines of width cells
func fitBlock(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], width, "")
		}
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

func blankBlock(width, height int) string {
	return fitBlock("", max(width, 0), height)
}

// wordWrap breaks text into lines of at most width cells on word
// boundaries. Existing line breaks are paragraph breaks and stay.
func wordWrap(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	paras := strings.Split(text, "\n")
	for i, p := range paras {
		paras[i] = wrapLine(p, width)
	}
	return strings.Join(paras, "\n")
}

func wrapLine(line string, width int) string {
	var b strings.Builder
	lineLen := 0
	for _, w := range strings.Fields(line) {
		wl := ansi.StringWidth(w)
		switch {
		case lineLen == 0:
		case lineLen+1+wl > width:
			b.WriteByte('\n')
			lineLen = 0
		default:
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(w)
		lineLen += wl
	}
	return b.String()
}

// clampLines keeps at most n lines, marking a cut with an ellipsis
func clampLines(s string, n int) string {
	if s == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	lines = lines[:n]
	lines[n-1] += "…"
	return strings.Join(lines, "\n")
}

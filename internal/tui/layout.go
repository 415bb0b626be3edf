package tui

import "github.com/mmcdole/postdeck/internal/slideshow"

const (
	// Vertical chrome: tab bar and source line on top, status line at the bottom
	HeaderHeight  = 2
	FooterHeight  = 1
	MarkersHeight = 1

	MinStripHeight = 3
)

// paneLayout holds the vertical placement of the focused deck
type paneLayout struct {
	stripTop    int
	stripHeight int
	markerRow   int
	formTop     int
}

// calculateLayout places the strip, marker row and source form
func (m Model) calculateLayout() paneLayout {
	formHeight := m.SourceForm.Height()
	strip := m.Height - HeaderHeight - MarkersHeight - formHeight - FooterHeight
	strip = max(strip, MinStripHeight)

	return paneLayout{
		stripTop:    HeaderHeight,
		stripHeight: strip,
		markerRow:   HeaderHeight + strip,
		formTop:     HeaderHeight + strip + MarkersHeight,
	}
}

// stripPixels is the viewport width handed to the engines
func (m Model) stripPixels() int {
	return m.Width * m.cellPixels
}

// updateLayout updates component and engine sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	m.Finder.SetSize(m.Width, m.Height)
	m.SourceForm.SetWidth(m.Width)
	m.Help.Width = m.Width

	for _, p := range m.panes {
		e := p.deck.Engine()
		e.Resize(m.stripPixels())
		// The resize frame jumps the strip, so an in-flight move is over
		if e.State() == slideshow.StateTransitioning && !e.Dragging() {
			e.TransitionEnd()
		}
	}
}

// markerAt maps a column on the marker row to a marker index
func (m Model) markerAt(x, count int) (int, bool) {
	if count == 0 {
		return 0, false
	}
	// Markers are one cell wide with one cell between them, centered
	rowWidth := 2*count - 1
	start := max((m.Width-rowWidth)/2, 0)
	rel := x - start
	if rel < 0 || rel >= rowWidth || rel%2 != 0 {
		return 0, false
	}
	return rel / 2, true
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.ShowHelp {
		if key.Matches(msg, Keys.Help, Keys.Quit, components.ModalKeys.Escape) {
			m.ShowHelp = false
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	p := m.focusedPane()

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.NextDeck):
		if len(m.panes) > 1 {
			m.focused = (m.focused + 1) % len(m.panes)
		}
		return m, nil
	}

	if p == nil {
		return m, nil
	}
	e := p.deck.Engine()

	switch {
	case key.Matches(msg, Keys.Retreat):
		e.Retreat(0)
		return m, m.animationCmds()

	case key.Matches(msg, Keys.Advance):
		e.Advance(true, 0)
		return m, m.animationCmds()

	case key.Matches(msg, Keys.Jump):
		n, err := strconv.Atoi(msg.String())
		if err != nil || n > e.PostCount() {
			return m, nil
		}
		e.JumpTo(n - 1)
		return m, m.animationCmds()

	case key.Matches(msg, Keys.ToggleForm):
		m.SourceForm.Toggle(p.deck.Source(), m.Loader.RecentSources())
		m.updateLayout()
		return m, m.SourceForm.Init()

	case key.Matches(msg, Keys.Reload):
		m.StatusMsg = "Reloading " + p.deck.Source()
		m.StatusIsErr = false
		return m, tea.Batch(m.reload(), ClearStatusCmd(2*time.Second))

	case key.Matches(msg, Keys.Open):
		post, ok := p.deck.CurrentPost()
		if !ok {
			return m, nil
		}
		return m, OpenPostCmd(m.Reader, post)

	case key.Matches(msg, Keys.Find):
		if p.index == nil || p.index.Len() == 0 {
			return m, nil
		}
		m.Finder.Show(p.index)
		m.Finder.SetSize(m.Width, m.Height)
		return m, m.Finder.Init()

	case key.Matches(msg, Keys.Save):
		return m, m.saveSources()
	}

	return m, nil
}

// routeToModal sends keys to the visible modal, returns (handled, model, cmd)
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.Finder.IsVisible() {
		var cmd tea.Cmd
		var selected bool
		m.Finder, cmd, selected = m.Finder.Update(msg)
		if selected {
			if marker, ok := m.Finder.Selected(); ok {
				if p := m.focusedPane(); p != nil {
					p.deck.Engine().JumpTo(marker)
				}
				return true, m, tea.Batch(cmd, m.animationCmds())
			}
		}
		return true, m, cmd
	}

	if m.SourceForm.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.SourceForm, cmd, submitted = m.SourceForm.Update(msg)
		if !m.SourceForm.IsVisible() {
			m.updateLayout()
		}
		if submitted {
			return true, m, tea.Batch(cmd, m.changeSource(m.SourceForm.Value()))
		}
		return true, m, cmd
	}

	return false, m, nil
}

// handleMouseMsg maps wheel, click and drag input onto the focused deck
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp || m.Finder.IsVisible() {
		return m, nil
	}

	layout := m.calculateLayout()

	if msg.Action == tea.MouseActionPress && msg.Y == 0 {
		if i, ok := m.tabAt(msg.X); ok {
			m.focused = i
		}
		return m, nil
	}

	p := m.focusedPane()
	if p == nil {
		return m, nil
	}
	e := p.deck.Engine()
	x := msg.X * m.cellPixels

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
			e.Retreat(0)
			return m, m.animationCmds()

		case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
			e.Advance(true, 0)
			return m, m.animationCmds()

		case tea.MouseButtonLeft:
			if msg.Y == layout.markerRow {
				if marker, ok := m.markerAt(msg.X, e.PostCount()); ok {
					e.JumpTo(marker)
				}
				return m, m.animationCmds()
			}
			if msg.Y >= layout.stripTop && msg.Y < layout.stripTop+layout.stripHeight {
				e.TouchStart(x)
			}
		}

	case tea.MouseActionMotion:
		if e.Dragging() {
			e.TouchMove(x)
		}

	case tea.MouseActionRelease:
		if e.Dragging() {
			e.TouchEnd()
			return m, m.animationCmds()
		}
	}

	return m, nil
}

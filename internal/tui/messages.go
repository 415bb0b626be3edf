package tui

import (
	"github.com/mmcdole/postdeck/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PostsLoadedMsg carries the result of one deck load. Generation ties the
// result to the load that requested it.
type PostsLoadedMsg struct {
	Deck       int
	Generation uint64
	Result     service.LoadResult
	Err        error
}

// AutoplayTickMsg fires once per autoplay interval of a deck
type AutoplayTickMsg struct {
	Deck  int
	Token uint64
}

// AnimationFrameMsg advances the strip animation of a deck by one frame
type AnimationFrameMsg struct {
	Deck int
}

// PostOpenedMsg signals that a permalink was handed to the browser
type PostOpenedMsg struct {
	Title string
}

// ConfigSavedMsg signals that the deck sources were written to the config file
type ConfigSavedMsg struct {
	Path string
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

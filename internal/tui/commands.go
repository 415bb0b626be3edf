package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/config"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/service"
)

// Command factories for async operations

// LoadPostsCmd resolves source to posts for the load tagged generation.
// Failures travel in the message; they are applied to the deck, not raised.
func LoadPostsCmd(loader *service.Loader, deck int, generation uint64, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := loader.Load(ctx, source)
		return PostsLoadedMsg{
			Deck:       deck,
			Generation: generation,
			Result:     result,
			Err:        err,
		}
	}
}

// AutoplayCmd schedules the next autoplay tick of a deck
func AutoplayCmd(deck int, token uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return AutoplayTickMsg{Deck: deck, Token: token}
	})
}

// AnimationTickCmd schedules the next animation frame of a deck
func AnimationTickCmd(deck int) tea.Cmd {
	return tea.Tick(time.Second/animationFPS, func(time.Time) tea.Msg {
		return AnimationFrameMsg{Deck: deck}
	})
}

// OpenPostCmd opens the permalink of post in the browser
func OpenPostCmd(reader *service.ReaderService, post domain.Post) tea.Cmd {
	return func() tea.Msg {
		if err := reader.Open(post); err != nil {
			return ErrMsg{Err: err, Context: "opening post"}
		}
		return PostOpenedMsg{Title: post.TitleText}
	}
}

// SaveConfigCmd persists cfg
func SaveConfigCmd(cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		if err := config.SaveConfig(cfg); err != nil {
			return ErrMsg{Err: err, Context: "saving config"}
		}
		return ConfigSavedMsg{Path: cfg.File()}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

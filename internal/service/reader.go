package service

import (
	"errors"
	"log/slog"

	"github.com/mmcdole/postdeck/internal/domain"
)

// launcher abstracts opening URLs externally (consumer-defined interface)
type launcher interface {
	Launch(url string) error
}

// ReaderService opens posts for full reading outside the deck
type ReaderService struct {
	launcher launcher
	logger   *slog.Logger
}

// NewReaderService creates a new reader service
func NewReaderService(launcher launcher, logger *slog.Logger) *ReaderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReaderService{
		launcher: launcher,
		logger:   logger,
	}
}

// Open launches the post's permalink ("Read More")
func (s *ReaderService) Open(post domain.Post) error {
	if post.Link == "" {
		return errors.New("post has no permalink")
	}

	s.logger.Info("opening post", "title", post.TitleText, "link", post.Link)

	if err := s.launcher.Launch(post.Link); err != nil {
		s.logger.Error("failed to open post", "link", post.Link, "error", err)
		return err
	}
	return nil
}

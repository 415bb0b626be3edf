package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/spf13/cast"
)

// ParseWidgetOptions builds a deck from declarative key/value options.
// Keys match case-insensitively and ignore '_' and '-', so postsWebsite,
// posts_website and posts-website are the same option. Durations are in
// milliseconds. Keys left out keep their DefaultDeck value; unknown keys are
// ignored. The result is not validated.
func ParseWidgetOptions(opts map[string]string) (DeckConfig, error) {
	deck := DefaultDeck()

	for key, value := range opts {
		value = strings.TrimSpace(value)

		var err error
		switch normalizeKey(key) {
		case "name":
			deck.Name = value
		case "postswebsite", "source":
			deck.PostsWebsite = value
		case "transition":
			deck.Transition, err = parseMillis(value)
		case "headinglevel":
			deck.HeadingLevel, err = ParseHeadingLevel(value)
		case "infiniteloop":
			deck.InfiniteLoop, err = cast.ToBoolE(value)
		case "autoplay":
			deck.Autoplay, err = cast.ToBoolE(value)
		case "interval":
			deck.Interval, err = parseMillis(value)
		}
		if err != nil {
			return DeckConfig{}, fmt.Errorf("%w: option %s=%q: %v", domain.ErrInvalidConfiguration, key, value, err)
		}
	}

	return deck, nil
}

// ParseHeadingLevel accepts a heading tag name ("h3", "H3") or a bare level
func ParseHeadingLevel(s string) (int, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "h")
	level, err := cast.ToIntE(s)
	if err != nil {
		return 0, err
	}
	if level < 1 || level > 6 {
		return 0, fmt.Errorf("heading level %d out of range", level)
	}
	return level, nil
}

func parseMillis(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	ms, err := cast.ToInt64E(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("_", "", "-", "").Replace(key)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/slideshow"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Decks   []DeckConfig  `mapstructure:"-"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Browser BrowserConfig `mapstructure:"browser"`

	file string // where the config was read from, empty for defaults
}

// DeckConfig is the declarative configuration of one slideshow instance
type DeckConfig struct {
	Name         string
	PostsWebsite string
	Transition   time.Duration
	HeadingLevel int // 1-6
	InfiniteLoop bool
	Autoplay     bool
	Interval     time.Duration // required when Autoplay is set
}

// CacheConfig holds post cache configuration
type CacheConfig struct {
	Dir         string `mapstructure:"dir"`           // empty keeps the cache in memory
	ClearOnLoad bool   `mapstructure:"clear_on_load"` // drop every cached source before each load
}

// UIConfig holds UI configuration
type UIConfig struct {
	Placeholder string `mapstructure:"placeholder"` // image shown for posts without a featured image
	CellPixels  int    `mapstructure:"cell_pixels"` // horizontal pixels per terminal cell
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// BrowserConfig holds the permalink opener configuration
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // empty for the system default
	Args    []string `mapstructure:"args"`
}

// DefaultDeck returns the options a deck gets for every key it leaves out.
// It has no Interval, so a deck that turns on autoplay must set one.
func DefaultDeck() DeckConfig {
	return DeckConfig{
		Transition:   400 * time.Millisecond,
		HeadingLevel: 2,
		InfiniteLoop: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		UI: UIConfig{
			Placeholder: "/wp-content/plugins/post-slideshow/images/placeholder.png",
			CellPixels:  8,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "postdeck", "postdeck.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "postdeck", "postdeck.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "postdeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "postdeck")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "postdeck", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "postdeck", "cache")
	}
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")
	return load(v)
}

// LoadConfigFile loads configuration from path and environment. A missing
// file yields the defaults.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := load(v)
	if err != nil {
		return nil, err
	}
	cfg.file = path
	return cfg, nil
}

func load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	// Defaults must be registered for env overrides to reach Unmarshal
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.clear_on_load", cfg.Cache.ClearOnLoad)
	v.SetDefault("ui.placeholder", cfg.UI.Placeholder)
	v.SetDefault("ui.cell_pixels", cfg.UI.CellPixels)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("browser.command", cfg.Browser.Command)

	// Environment variable overrides, e.g. POSTDECK_CACHE_DIR
	v.SetEnvPrefix("POSTDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	decks, err := parseDecks(v.Get("decks"))
	if err != nil {
		return nil, err
	}
	cfg.Decks = decks
	cfg.file = v.ConfigFileUsed()

	return cfg, nil
}

// parseDecks reads the decks list, each entry a map of widget options
func parseDecks(raw any) ([]DeckConfig, error) {
	if raw == nil {
		return nil, nil
	}
	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decks must be a list: %v", domain.ErrInvalidConfiguration, err)
	}

	decks := make([]DeckConfig, 0, len(items))
	for i, item := range items {
		opts, err := cast.ToStringMapStringE(item)
		if err != nil {
			return nil, fmt.Errorf("%w: deck %d: %v", domain.ErrInvalidConfiguration, i+1, err)
		}
		deck, err := ParseWidgetOptions(opts)
		if err != nil {
			return nil, fmt.Errorf("deck %d: %w", i+1, err)
		}
		if deck.Name == "" {
			deck.Name = fmt.Sprintf("deck %d", i+1)
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

// SaveConfig saves the configuration to the file it was loaded from, or the
// default location
func SaveConfig(cfg *Config) error {
	path := cfg.file
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}
	return SaveConfigTo(cfg, path)
}

// SaveConfigTo writes the configuration as yaml to path
func SaveConfigTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	decks := make([]map[string]any, len(cfg.Decks))
	for i, d := range cfg.Decks {
		decks[i] = d.widgetOptions()
	}
	v.Set("decks", decks)

	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.clear_on_load", cfg.Cache.ClearOnLoad)

	v.Set("ui.placeholder", cfg.UI.Placeholder)
	v.Set("ui.cell_pixels", cfg.UI.CellPixels)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.Set("browser.command", cfg.Browser.Command)
	v.Set("browser.args", cfg.Browser.Args)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	cfg.file = path
	return nil
}

// File returns the path the configuration was read from or last saved to
func (c *Config) File() string {
	return c.file
}

// Validate checks every deck
func (c *Config) Validate() error {
	if len(c.Decks) == 0 {
		return fmt.Errorf("%w: no decks configured", domain.ErrInvalidConfiguration)
	}
	for _, d := range c.Decks {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	if c.UI.CellPixels <= 0 {
		return fmt.Errorf("%w: ui.cell_pixels must be positive", domain.ErrInvalidConfiguration)
	}
	return nil
}

// Validate reports a missing source or inconsistent options
func (d DeckConfig) Validate() error {
	switch {
	case strings.TrimSpace(d.PostsWebsite) == "":
		return fmt.Errorf("%w: deck %q: postsWebsite is required", domain.ErrInvalidConfiguration, d.Name)
	case d.Transition < 0:
		return fmt.Errorf("%w: deck %q: negative transition", domain.ErrInvalidConfiguration, d.Name)
	case d.HeadingLevel < 1 || d.HeadingLevel > 6:
		return fmt.Errorf("%w: deck %q: heading level %d", domain.ErrInvalidConfiguration, d.Name, d.HeadingLevel)
	case d.Autoplay && d.Interval <= 0:
		return fmt.Errorf("%w: deck %q: autoplay requires a positive interval", domain.ErrInvalidConfiguration, d.Name)
	}
	return nil
}

// Options returns the engine options for the deck
func (d DeckConfig) Options() slideshow.Options {
	return slideshow.Options{
		Transition:   d.Transition,
		InfiniteLoop: d.InfiniteLoop,
		Autoplay:     d.Autoplay,
		Interval:     d.Interval,
	}
}

func (d DeckConfig) widgetOptions() map[string]any {
	return map[string]any{
		"name":         d.Name,
		"postsWebsite": d.PostsWebsite,
		"transition":   d.Transition.Milliseconds(),
		"headingLevel": fmt.Sprintf("h%d", d.HeadingLevel),
		"infiniteLoop": d.InfiniteLoop,
		"autoplay":     d.Autoplay,
		"interval":     d.Interval.Milliseconds(),
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/postdeck/internal/browser"
	"github.com/mmcdole/postdeck/internal/config"
	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/mmcdole/postdeck/internal/logging"
	"github.com/mmcdole/postdeck/internal/service"
	"github.com/mmcdole/postdeck/internal/slideshow"
	"github.com/mmcdole/postdeck/internal/store"
	"github.com/mmcdole/postdeck/internal/tui"
	"github.com/mmcdole/postdeck/internal/tui/styles"
	"github.com/mmcdole/postdeck/internal/wordpress"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                                  \r"

type options struct {
	source     string
	configFile string
	print      bool
}

func main() {
	var showVersion bool
	var opts options
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.source, "source", "", "site to load into the first deck")
	flag.StringVar(&opts.configFile, "config", "", "config file (default ~/.config/postdeck/config.yaml)")
	flag.BoolVar(&opts.print, "print", false, "print posts instead of starting the UI")
	flag.Parse()

	if showVersion {
		fmt.Printf("postdeck %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := logging.Open(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting postdeck", "version", Version)

	interactive := !opts.print && term.IsTerminal(int(os.Stdout.Fd()))

	switch {
	case opts.source != "":
		applySourceOverride(cfg, opts.source)
	case len(cfg.Decks) == 0 && interactive:
		return runSetupFlow(cfg, logger)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	postStore, err := store.NewPostStore(cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("failed to open post cache: %w", err)
	}
	defer postStore.Close()

	client := wordpress.NewClient(logger)
	loader := service.NewLoader(client, postStore, service.LoaderOptions{
		ClearOnLoad: cfg.Cache.ClearOnLoad,
	}, logger)

	decks, err := newDecks(cfg, logger)
	if err != nil {
		return err
	}

	if !interactive {
		return printDecks(context.Background(), os.Stdout, loader, decks)
	}

	launcher := browser.NewLauncher(cfg.Browser.Command, cfg.Browser.Args, logger)
	reader := service.NewReaderService(launcher, logger)

	model := tui.NewModel(decks, loader, reader, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI", "decks", len(decks))

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfigFile(path)
	}
	return config.LoadConfig()
}

// applySourceOverride points the first deck at source, creating it if needed
func applySourceOverride(cfg *config.Config, source string) {
	if len(cfg.Decks) == 0 {
		d := config.DefaultDeck()
		d.Name = "deck 1"
		cfg.Decks = append(cfg.Decks, d)
	}
	cfg.Decks[0].PostsWebsite = source
}

func newDecks(cfg *config.Config, logger *slog.Logger) ([]*slideshow.Deck, error) {
	decks := make([]*slideshow.Deck, 0, len(cfg.Decks))
	for _, dc := range cfg.Decks {
		d, err := slideshow.NewDeck(dc.Name, dc.PostsWebsite, dc.HeadingLevel, dc.Options(), 0, logger)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", dc.Name, err)
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// printDecks loads every deck concurrently and writes its posts as text
func printDecks(ctx context.Context, w io.Writer, loader *service.Loader, decks []*slideshow.Deck) error {
	results := make([]service.LoadResult, len(decks))
	errs := make([]error, len(decks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, d := range decks {
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, 30*time.Second)
			defer cancel()
			// A failing deck is reported, it does not stop the others
			results[i], errs[i] = loader.Load(lctx, d.Source())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, d := range decks {
		fmt.Fprintf(w, "== %s (%s) ==\n", d.Name, d.Source())
		if errs[i] != nil {
			failed++
			fmt.Fprintf(w, "  error: %v\n\n", errs[i])
			continue
		}
		if len(results[i].Posts) == 0 {
			fmt.Fprintf(w, "  %v\n\n", domain.ErrEmptyResultSet)
			continue
		}
		for n, post := range results[i].Posts {
			fmt.Fprintf(w, "%2d. %s  %s\n", n+1, post.DisplayDate(), post.TitleText)
			if post.ExcerptText != "" {
				fmt.Fprintf(w, "    %s\n", post.ExcerptText)
			}
			fmt.Fprintf(w, "    %s\n", post.Link)
		}
		fmt.Fprintln(w)
	}

	if failed == len(decks) {
		return errors.New("no deck could be loaded")
	}
	return nil
}

// runSetupFlow asks for a first source when nothing is configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to postdeck!")
	fmt.Println()

	client := wordpress.NewClient(logger)
	reader := bufio.NewReader(os.Stdin)

	var source string
	for {
		fmt.Print("Enter a WordPress site (e.g., https://example.com): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		source = wordpress.NormalizeSource(input)

		if source == "" {
			fmt.Println("Site cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		count, err := checkSourceWithSpinner(client, source)
		if err != nil {
			fmt.Printf("\n✗ Could not load posts: %v\n", err)
			fmt.Println("Please check the address and try again.")
			fmt.Println()
			continue
		}
		fmt.Printf("✓ Found %d posts\n", count)
		break
	}

	deck := config.DefaultDeck()
	deck.Name = hostName(source)
	deck.PostsWebsite = source
	cfg.Decks = []config.DeckConfig{deck}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved to " + cfg.File())
	fmt.Println()
	fmt.Println("Run postdeck again to start the slideshow.")

	return nil
}

// checkSourceWithSpinner fetches source once with a visual spinner and
// returns how many posts it serves
func checkSourceWithSpinner(client *wordpress.Client, source string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	type result struct {
		count int
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		raw, err := client.FetchPosts(ctx, source)
		if err != nil {
			resultCh <- result{err: err}
			return
		}
		posts, err := wordpress.DecodePosts(raw)
		if err == nil && len(posts) == 0 {
			err = domain.ErrEmptyResultSet
		}
		resultCh <- result{len(posts), err}
	}()

	frame := 0
	fmt.Printf("\r%s Checking %s...", styles.SpinnerFrames[frame], source)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			return res.count, res.err

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking %s...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)], source)

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return 0, fmt.Errorf("%w: timed out", domain.ErrServerOffline)
		}
	}
}

// hostName names a deck after its site
func hostName(source string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(source, "https://"), "http://")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	return name
}

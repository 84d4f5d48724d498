package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vitrine-tui/vitrine/internal/assets"
	"github.com/vitrine-tui/vitrine/internal/config"
	"github.com/vitrine-tui/vitrine/internal/lazyload"
	"github.com/vitrine-tui/vitrine/internal/library"
	"github.com/vitrine-tui/vitrine/internal/log"
	"github.com/vitrine-tui/vitrine/internal/profile"
	"github.com/vitrine-tui/vitrine/internal/search"
	"github.com/vitrine-tui/vitrine/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("vitrine %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("vitrine must run in a terminal")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting vitrine", "version", Version)

	// Artwork byte store
	artworkStore, err := assets.NewStore(cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("failed to open artwork store: %w", err)
	}
	defer artworkStore.Close()

	// Lazy-load machinery: one dispatch loop and one session cache shared
	// by every controller, so each asset is fetched at most once per run.
	loop := lazyload.NewLoop()
	defer loop.Stop()

	loadCache := lazyload.NewLoadCache()
	for _, id := range artworkStore.Keys() {
		loadCache.MarkLoaded(id)
	}

	fetcher := lazyload.NewFetcher(loop, loadCache, artworkStore, lazyload.FetcherOptions{
		MaxRetries: cfg.LazyLoad.RetryCount,
		BaseDelay:  cfg.LazyLoad.RetryDelay(),
	}, logger)

	// Profile API (optional)
	if cfg.API.Enabled {
		profileStore, err := profile.NewStore(cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("failed to open profile store: %w", err)
		}
		defer profileStore.Close()

		go func() {
			logger.Info("profile API listening", "addr", cfg.API.Addr)
			if err := http.ListenAndServe(cfg.API.Addr, profile.NewRouter(profileStore, logger)); err != nil {
				logger.Error("profile API stopped", "error", err)
			}
		}()
	}

	// Create services
	librarySvc := library.NewService(logger)
	searchSvc := search.NewService(logger)

	// Create TUI model
	model := tui.NewModel(tui.Deps{
		Config:  cfg,
		Logger:  logger,
		Loop:    loop,
		Fetcher: fetcher,
		Library: librarySvc,
		Search:  searchSvc,
	})

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

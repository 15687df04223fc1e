package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/downloader"
	"github.com/jaki95/spotify-scraper/internal/fetcher"
	"github.com/jaki95/spotify-scraper/internal/lyrics"
	"github.com/jaki95/spotify-scraper/internal/scraper"
	"github.com/jaki95/spotify-scraper/internal/server"
	"github.com/jaki95/spotify-scraper/internal/session"
	"github.com/jaki95/spotify-scraper/internal/storage"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Configuration file path")
	port := flag.String("port", "", "Server port (overrides config)")
	withLyrics := flag.Bool("lyrics", false, "Fetch synced lyrics for extracted tracks")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *withLyrics); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, withLyrics bool) error {
	var cookies session.Cookies
	if cfg.Session.CookieFile != "" {
		loaded, err := session.Load(cfg.Session.CookieFile)
		if err != nil {
			return err
		}
		cookies = loaded
	}

	pages, err := fetcher.NewPageFetcherFromConfig(cfg.Fetch, cookies)
	if err != nil {
		return err
	}

	var opts []scraper.Option
	if withLyrics {
		opts = append(opts, scraper.WithLyrics(lyrics.New(cookies, cfg.Fetch)))
	}
	client := scraper.New(pages, opts...)

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	dl, err := downloader.NewHTTPDownloader(store, cfg.Fetch)
	if err != nil {
		return err
	}

	slog.Info("Starting Spotify scraper API server", "port", cfg.Server.Port, "backend", cfg.Fetch.Backend)
	return server.New(cfg, client, dl, store).Start(ctx)
}

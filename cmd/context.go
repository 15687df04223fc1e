package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/fetcher"
	"github.com/jaki95/spotify-scraper/internal/lyrics"
	"github.com/jaki95/spotify-scraper/internal/scraper"
	"github.com/jaki95/spotify-scraper/internal/session"
	"github.com/spf13/cobra"
)

// commandContext holds the persistent flag values and the configuration
// resolved from them.
type commandContext struct {
	configPath string
	backend    string
	timeout    time.Duration
	retries    int
	proxy      string
	cookieFile string
	outputDir  string
	logLevel   int
	web        bool

	cfg *config.Config
}

func (c *commandContext) setup(cmd *cobra.Command) error {
	cfg, err := c.loadConfig(func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	})
	if err != nil {
		return err
	}
	c.cfg = cfg

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the config file, or the defaults when none is given, and
// applies every flag the user set explicitly.
func (c *commandContext) loadConfig(changed func(string) bool) (*config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", c.configPath, err)
		}
		cfg = loaded
	}

	if changed("backend") {
		cfg.Fetch.Backend = c.backend
	}
	if changed("timeout") {
		cfg.Fetch.Timeout = c.timeout
	}
	if changed("retries") {
		cfg.Fetch.Retries = c.retries
	}
	if changed("proxy") {
		cfg.Fetch.Proxy = c.proxy
	}
	if changed("cookies") {
		cfg.Session.CookieFile = c.cookieFile
	}
	if changed("output") {
		cfg.Storage.Type = config.StorageLocal
		cfg.Storage.OutputDir = c.outputDir
	}
	if changed("log-level") {
		cfg.LogLevel = c.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *commandContext) cookies() (session.Cookies, error) {
	if c.cfg.Session.CookieFile == "" {
		return nil, nil
	}
	return session.Load(c.cfg.Session.CookieFile)
}

// scraper builds an extraction client from the resolved configuration.
func (c *commandContext) scraper(withLyrics bool) (*scraper.Client, error) {
	cookies, err := c.cookies()
	if err != nil {
		return nil, err
	}

	pages, err := fetcher.NewPageFetcherFromConfig(c.cfg.Fetch, cookies)
	if err != nil {
		return nil, err
	}

	var opts []scraper.Option
	if c.web {
		opts = append(opts, scraper.WithPage(scraper.PageWeb))
	}
	if withLyrics {
		opts = append(opts, scraper.WithLyrics(lyrics.New(cookies, c.cfg.Fetch)))
	}
	return scraper.New(pages, opts...), nil
}

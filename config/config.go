package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fetch backends.
const (
	BackendHTTP    = "http"
	BackendBrowser = "browser"
	BackendAuto    = "auto"
)

// Storage types.
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	Fetch   FetchConfig   `yaml:"fetch"`
	Session SessionConfig `yaml:"session"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

type FetchConfig struct {
	// Backend is one of "http", "browser" or "auto".
	Backend string `yaml:"backend"`

	Timeout    time.Duration `yaml:"timeout"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	// Backoff doubles the delay after every failed attempt.
	Backoff bool `yaml:"backoff"`

	UserAgent string            `yaml:"user_agent"`
	Headers   map[string]string `yaml:"headers"`
	Proxy     string            `yaml:"proxy"`

	// RequestsPerSecond throttles the lightweight backend. Zero disables it.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Browser backend options
	Headless    bool   `yaml:"headless"`
	BrowserPath string `yaml:"browser_path"`
}

type SessionConfig struct {
	// CookieFile is a Netscape format cookie jar export.
	CookieFile string `yaml:"cookie_file"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Type of storage: "local" or "gcs"
	Type string `yaml:"type"`

	// Local storage options
	OutputDir string `yaml:"output_dir"`

	// GCS options
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Fetch.Headless = true
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	config.Fetch.Headless = true

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	switch c.Fetch.Backend {
	case BackendHTTP, BackendBrowser, BackendAuto:
	default:
		return fmt.Errorf("unsupported fetch backend %q", c.Fetch.Backend)
	}

	switch c.Storage.Type {
	case StorageLocal:
	case StorageGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("gcs storage requires a bucket")
		}
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}

	if c.Fetch.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Fetch.Retries)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Fetch.Backend == "" {
		c.Fetch.Backend = BackendHTTP
	}

	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 30 * time.Second
	}

	if c.Fetch.Retries == 0 {
		c.Fetch.Retries = 3
	}

	if c.Fetch.RetryDelay <= 0 {
		c.Fetch.RetryDelay = 2 * time.Second
	}

	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Storage.Type == "" {
		c.Storage.Type = StorageLocal
	}

	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "output"
	}
}

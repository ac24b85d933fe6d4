package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pevans/fightrecords/crawl"
	"github.com/pevans/fightrecords/extract"
	"github.com/pevans/fightrecords/fetch"
	"gopkg.in/yaml.v3"
)

// CrawlConfig represents the crawl section of the config file.
type CrawlConfig struct {
	StartURL    string        `yaml:"start_url"`
	Mode        string        `yaml:"mode"`
	Delay       time.Duration `yaml:"delay"`
	RandomDelay time.Duration `yaml:"random_delay"`
	Timeout     time.Duration `yaml:"timeout"`
	Retries     int           `yaml:"retries"`
	MaxErrors   int           `yaml:"max_errors"`
	UserAgent   string        `yaml:"user_agent"`
}

// StorageConfig represents storage configuration from config file.
type StorageConfig struct {
	Records struct {
		DSN string `yaml:"dsn"`
	} `yaml:"records"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
}

// APIConfig represents the read API section of the config file.
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// FileConfig represents the structure of ~/.fightrecords/config.yaml.
type FileConfig struct {
	Crawl     CrawlConfig       `yaml:"crawl"`
	Storage   StorageConfig     `yaml:"storage"`
	API       APIConfig         `yaml:"api"`
	Selectors extract.Selectors `yaml:"selectors"`
}

// DefaultConfig returns the configuration used when no file is present.
// Loaded files are decoded on top of it, so a file only needs the keys it
// changes.
func DefaultConfig() *FileConfig {
	fetchDefaults := fetch.DefaultConfig()
	crawlDefaults := crawl.DefaultConfig()

	cfg := &FileConfig{
		Crawl: CrawlConfig{
			StartURL:    crawlDefaults.StartURL,
			Mode:        string(extract.ModeMostRecent),
			Delay:       fetchDefaults.Delay,
			RandomDelay: fetchDefaults.RandomDelay,
			Timeout:     fetchDefaults.Timeout,
			Retries:     fetchDefaults.Retries,
			MaxErrors:   crawlDefaults.MaxErrors,
		},
		API:       APIConfig{Addr: ":8080"},
		Selectors: *extract.DefaultSelectors(),
	}
	cfg.Storage.Records.DSN = "fightrecords.db"

	return cfg
}

// DefaultPath returns ~/.fightrecords/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fightrecords", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.fightrecords/config.yaml.
// Returns nil if the file doesn't exist (not an error). Returns error if the
// file exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	return LoadConfigFileFrom(configPath)
}

// LoadConfigFileFrom loads configuration from an explicit path. Unlike
// LoadConfigFile, a missing file is an error.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, err := extract.ParseMode(cfg.Crawl.Mode); err != nil {
		return nil, fmt.Errorf("invalid crawl.mode: %w", err)
	}

	return cfg, nil
}

// FetchConfig returns the fetch layer settings.
func (c *FileConfig) FetchConfig() *fetch.Config {
	return &fetch.Config{
		Delay:       c.Crawl.Delay,
		RandomDelay: c.Crawl.RandomDelay,
		Timeout:     c.Crawl.Timeout,
		Retries:     c.Crawl.Retries,
		UserAgent:   c.Crawl.UserAgent,
	}
}

// CrawlerConfig returns the crawl engine settings.
func (c *FileConfig) CrawlerConfig() *crawl.Config {
	return &crawl.Config{
		StartURL:  c.Crawl.StartURL,
		MaxErrors: c.Crawl.MaxErrors,
	}
}

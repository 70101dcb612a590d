package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Keywords      Keywords      `toml:"keywords"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	DB            Database      `toml:"db"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
}

type Keywords struct {
	ExtraTypedefs       []string `toml:"extra_typedefs"`
	ExtraStorageClasses []string `toml:"extra_storage_classes"`
	ExtraQualifiers     []string `toml:"extra_qualifiers"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce       time.Duration `toml:"debounce"`
	Extensions     []string      `toml:"extensions"`
	RechecksPerSec float64       `toml:"rechecks_per_sec"`
	RecheckBurst   int           `toml:"recheck_burst"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Driver      string        `toml:"driver"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Output struct {
	Color string `toml:"color"` // auto, always, never
}

type Observability struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

// DefaultConfig returns the configuration used when no config file is
// present: built-in keyword set, plain output, no history database.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateKeywords(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{".c", ".h"}
	}
	if cfg.Watch.RechecksPerSec <= 0 {
		cfg.Watch.RechecksPerSec = 4
	}
	if cfg.Watch.RecheckBurst <= 0 {
		cfg.Watch.RecheckBurst = 8
	}

	if strings.TrimSpace(cfg.DB.Driver) == "" {
		cfg.DB.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "xmastree-history.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}

	if strings.TrimSpace(cfg.Output.Color) == "" {
		cfg.Output.Color = "auto"
	}

	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = "127.0.0.1:9187"
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; only version 1 is supported", cfg.Version)
	}
	return nil
}

func validateKeywords(cfg *Config) error {
	groups := map[string][]string{
		"keywords.extra_typedefs":        cfg.Keywords.ExtraTypedefs,
		"keywords.extra_storage_classes": cfg.Keywords.ExtraStorageClasses,
		"keywords.extra_qualifiers":      cfg.Keywords.ExtraQualifiers,
	}
	for key, words := range groups {
		for _, word := range words {
			trimmed := strings.TrimSpace(word)
			if trimmed == "" {
				return fmt.Errorf("%s must not include empty values", key)
			}
			if strings.ContainsAny(trimmed, " \t") {
				return fmt.Errorf("%s entry %q must be a single token", key, word)
			}
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	for _, ext := range cfg.Watch.Extensions {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return fmt.Errorf("watch.extensions must not include empty values")
		}
		if !strings.HasPrefix(trimmed, ".") {
			return fmt.Errorf("watch.extensions entry %q must start with a dot", ext)
		}
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if driver != "sqlite" {
		return fmt.Errorf("db.driver must be sqlite, got %q", cfg.DB.Driver)
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	mode := strings.ToLower(strings.TrimSpace(cfg.Output.Color))
	switch mode {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("output.color must be one of: auto, always, never")
	}
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Enabled && strings.TrimSpace(cfg.Observability.Address) == "" {
		return fmt.Errorf("observability.address must not be empty when observability.enabled=true")
	}
	return nil
}

// ExtraKeywords flattens the configured keyword extensions into one
// list for the classifier.
func (c *Config) ExtraKeywords() []string {
	var extras []string
	extras = append(extras, c.Keywords.ExtraTypedefs...)
	extras = append(extras, c.Keywords.ExtraStorageClasses...)
	extras = append(extras, c.Keywords.ExtraQualifiers...)
	return extras
}

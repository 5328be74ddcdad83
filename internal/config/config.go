package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/mpager/internal/paths"
	"github.com/spf13/viper"
)

// Fallback values for pager.fallback
const (
	FallbackAbort = "abort"
	FallbackCat   = "cat"
)

// Config represents the application configuration
type Config struct {
	Pager   PagerConfig   `mapstructure:"pager"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Exec    ExecConfig    `mapstructure:"exec"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PagerConfig controls which pager gets chosen
type PagerConfig struct {
	// Candidates are command lines tried before the built-in list, in order
	Candidates []string `mapstructure:"candidates"`
	// Order replaces the whole candidate ordering when non-empty
	Order []string `mapstructure:"order"`
	// Override names a single command line preferred above everything else
	Override        string `mapstructure:"override"`
	Fallback        string `mapstructure:"fallback"`
	QuitIfOneScreen bool   `mapstructure:"quit_if_one_screen"`
}

// ProbeConfig controls availability probing
type ProbeConfig struct {
	Liveness    bool          `mapstructure:"liveness"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	// SearchPath overrides $PATH for candidate resolution when set
	SearchPath string `mapstructure:"search_path"`
}

// ExecConfig controls the hand-off
type ExecConfig struct {
	// Replace uses exec-style process replacement where the platform supports it
	Replace bool `mapstructure:"replace"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	LogFile string `mapstructure:"log_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// LoadFile loads configuration from an explicit file, or from the default
// locations when configFile is empty, then applies the environment
func LoadFile(configFile string) (*Config, error) {
	resolver := paths.NewResolver()
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(resolver.ConfigDir())
		v.AddConfigPath(".")
	}

	setDefaults(v, resolver)

	// Environment variable overrides
	v.SetEnvPrefix("MPAGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// MPAGER alone is the short form of the override
	if err := v.BindEnv("pager.override", "MPAGER_PAGER_OVERRIDE", "MPAGER"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Pager.Candidates = cleanList(cfg.Pager.Candidates)
	cfg.Pager.Order = cleanList(cfg.Pager.Order)
	cfg.Pager.Fallback = strings.ToLower(strings.TrimSpace(cfg.Pager.Fallback))
	cfg.Paths.LogFile = resolver.Expand(cfg.Paths.LogFile)
	cfg.Probe.SearchPath = resolver.Expand(cfg.Probe.SearchPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values viper cannot check on its own
func (c *Config) Validate() error {
	switch c.Pager.Fallback {
	case FallbackAbort, FallbackCat:
	default:
		return fmt.Errorf("invalid pager.fallback %q (want %q or %q)", c.Pager.Fallback, FallbackAbort, FallbackCat)
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("invalid probe.timeout %s: must be positive", c.Probe.Timeout)
	}
	if c.Probe.Concurrency < 1 {
		return fmt.Errorf("invalid probe.concurrency %d: must be at least 1", c.Probe.Concurrency)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper, resolver *paths.Resolver) {
	v.SetDefault("pager.candidates", []string{})
	v.SetDefault("pager.order", []string{})
	v.SetDefault("pager.override", "")
	v.SetDefault("pager.fallback", FallbackAbort)
	v.SetDefault("pager.quit_if_one_screen", false)

	v.SetDefault("probe.liveness", false)
	v.SetDefault("probe.timeout", 300*time.Millisecond)
	v.SetDefault("probe.concurrency", 1)
	v.SetDefault("probe.search_path", "")

	v.SetDefault("exec.replace", true)

	v.SetDefault("paths.log_file", resolver.LogFile())

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.color", "auto")
}

// cleanList trims entries and drops empty ones
func cleanList(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

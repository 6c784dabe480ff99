package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"testsearch/internal/domain"
	"testsearch/internal/storage"
)

// Config holds all configuration for the application
type Config struct {
	// Execution settings
	Strategy domain.Strategy
	Pool     domain.PoolKind
	Workers  int

	// Selector settings
	Selector        string
	SelectorCommand []string

	// Discovery settings
	Finder        string
	FdCommand     string
	Pattern       string
	PathsToIgnore []string

	// Cache settings
	CacheFile    string
	HistoryLimit int

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Strategy         string
	Pool             string
	Workers          int
	NoFuzzySelection bool
	Verbose          int
	Last             bool
	Filter           string
	Selector         string
	All              bool
	Output           string
	ConfigFile       string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		Strategy:     DefaultStrategy,
		Pool:         DefaultPool,
		Workers:      DefaultWorkers,
		Selector:     DefaultSelector,
		Finder:       DefaultFinder,
		FdCommand:    DefaultFdCommand,
		Pattern:      DefaultPattern,
		HistoryLimit: DefaultHistoryLimit,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// NewViper builds the layered config source: defaults, then the config
// file, then TESTSEARCH_* environment variables. A .env file in the
// working directory fills in environment variables that are not set.
func NewViper(configFile string, logger *slog.Logger) (*viper.Viper, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("ignoring .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, ConfigName))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found; use defaults and environment
	} else {
		logger.Debug("loaded config file", "path", v.ConfigFileUsed())
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("strategy", string(DefaultStrategy))
	v.SetDefault("pool", string(DefaultPool))
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("selector", DefaultSelector)
	v.SetDefault("selector_command", []string{})
	v.SetDefault("finder", DefaultFinder)
	v.SetDefault("fd_command", DefaultFdCommand)
	v.SetDefault("pattern", DefaultPattern)
	v.SetDefault("ignore", DefaultPathsToIgnore)
	v.SetDefault("cache_file", "")
	v.SetDefault("history_limit", DefaultHistoryLimit)
}

// Load creates a config from v and applies flags
func Load(v *viper.Viper, flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags

	strategy, err := domain.ParseStrategy(v.GetString("strategy"))
	if err != nil {
		return nil, err
	}
	pool, err := domain.ParsePoolKind(v.GetString("pool"))
	if err != nil {
		return nil, err
	}
	cfg.Strategy = strategy
	cfg.Pool = pool
	cfg.Workers = v.GetInt("workers")
	cfg.Selector = strings.ToLower(v.GetString("selector"))
	cfg.SelectorCommand = v.GetStringSlice("selector_command")
	cfg.Finder = strings.ToLower(v.GetString("finder"))
	cfg.FdCommand = v.GetString("fd_command")
	cfg.Pattern = v.GetString("pattern")
	cfg.PathsToIgnore = v.GetStringSlice("ignore")
	cfg.CacheFile = v.GetString("cache_file")
	cfg.HistoryLimit = v.GetInt("history_limit")

	if err := cfg.ApplyFlags(flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFlags overrides settings with the flags that were given
func (c *Config) ApplyFlags(flags Flags) error {
	c.Flags = flags

	if flags.Strategy != "" {
		strategy, err := domain.ParseStrategy(flags.Strategy)
		if err != nil {
			return err
		}
		c.Strategy = strategy
	}
	if flags.Pool != "" {
		pool, err := domain.ParsePoolKind(flags.Pool)
		if err != nil {
			return err
		}
		c.Pool = pool
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Selector != "" {
		c.Selector = strings.ToLower(flags.Selector)
	}
	return nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Selector {
	case SelectorFzf, SelectorBuiltin, SelectorNone:
	default:
		return fmt.Errorf("unknown selector %q (expected %s, %s or %s)", c.Selector, SelectorFzf, SelectorBuiltin, SelectorNone)
	}
	switch c.Finder {
	case FinderAuto, FinderFd, FinderWalk:
	default:
		return fmt.Errorf("unknown finder %q (expected %s, %s or %s)", c.Finder, FinderAuto, FinderFd, FinderWalk)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Pattern == "" {
		return fmt.Errorf("pattern must not be empty")
	}
	return nil
}

// ExecutionPlan returns the plan the driver runs with
func (c *Config) ExecutionPlan() domain.ExecutionPlan {
	return domain.ExecutionPlan{
		Strategy: c.Strategy,
		Pool:     c.Pool,
		Workers:  c.Workers,
	}
}

// Interactive reports whether results go to a selector rather than stdout
func (c *Config) Interactive() bool {
	return !c.Flags.NoFuzzySelection && c.Selector != SelectorNone
}

// GetCachePath returns the cache file, defaulting to the user cache directory
func (c *Config) GetCachePath() (string, error) {
	if c.CacheFile != "" {
		return c.CacheFile, nil
	}
	return storage.DefaultCachePath()
}

package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	PlatformNative      = "native"
	PlatformCooperative = "cooperative"
)

// Config holds all the settings of the loader, the asset manager and logging.
type Config struct {
	Loader  LoaderConfig  `mapstructure:"loader" toml:"loader"`
	Assets  AssetsConfig  `mapstructure:"assets" toml:"assets"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
}

type LoaderConfig struct {
	// Platform selects the fetch strategy: "native" reads files on worker
	// goroutines, "cooperative" issues HTTP requests from a single event loop.
	// Empty means the build default.
	Platform       string `mapstructure:"platform" toml:"platform"`
	PollIntervalMS int    `mapstructure:"poll_interval_ms" toml:"poll_interval_ms"`
	// Root is prepended to relative identifiers by the native fetcher.
	Root string `mapstructure:"root" toml:"root"`
	// BaseURL is resolved against relative identifiers by the cooperative fetcher.
	BaseURL string `mapstructure:"base_url" toml:"base_url"`
}

type AssetsConfig struct {
	Dir   string `mapstructure:"dir" toml:"dir"`
	Watch bool   `mapstructure:"watch" toml:"watch"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" toml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Loader: LoaderConfig{
			PollIntervalMS: 100,
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func (c LoaderConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// LoadConfig reads path (or ./anima.toml when path is empty) and applies
// ANIMA_* environment overrides, e.g. ANIMA_LOADER_POLL_INTERVAL_MS.
// A missing default file is not an error, a missing explicit one is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("anima")
		v.AddConfigPath(".")
	}

	v.SetDefault("loader.platform", cfg.Loader.Platform)
	v.SetDefault("loader.poll_interval_ms", cfg.Loader.PollIntervalMS)
	v.SetDefault("loader.root", cfg.Loader.Root)
	v.SetDefault("loader.base_url", cfg.Loader.BaseURL)
	v.SetDefault("assets.dir", cfg.Assets.Dir)
	v.SetDefault("assets.watch", cfg.Assets.Watch)
	v.SetDefault("logging.level", cfg.Logging.Level)

	v.SetEnvPrefix("ANIMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Loader.Platform {
	case "", PlatformNative, PlatformCooperative:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownPlatform, c.Loader.Platform)
	}
	if c.Loader.PollIntervalMS <= 0 {
		return fmt.Errorf("%w: poll_interval_ms must be positive, got %d", ErrInvalidConfig, c.Loader.PollIntervalMS)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// EncodeConfig renders cfg in the same TOML layout LoadConfig reads.
func EncodeConfig(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

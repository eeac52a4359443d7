// Package config loads service configuration from file, .env and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"intrinsicpe/valuation"
)

// EnvPrefix prefixes every environment override, e.g. INTRINSICPE_SERVER_PORT.
const EnvPrefix = "INTRINSICPE"

// Config is the main application configuration struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Source    SourceConfig    `mapstructure:"source"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Valuation ValuationConfig `mapstructure:"valuation"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// SourceConfig describes where company pages come from.
type SourceConfig struct {
	URLTemplate string        `mapstructure:"url_template"` // formatted with the symbol
	Fetcher     string        `mapstructure:"fetcher"`      // "browser" or "http"
	Timeout     time.Duration `mapstructure:"timeout"`
	SettleDelay time.Duration `mapstructure:"settle_delay"` // browser only
}

type BrowserConfig struct {
	MinSize   int    `mapstructure:"min_size"`
	MaxSize   int    `mapstructure:"max_size"`
	Headless  bool   `mapstructure:"headless"`
	UserAgent string `mapstructure:"user_agent"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ValuationConfig struct {
	Policy string `mapstructure:"policy"`
}

// Fetcher kinds.
const (
	FetcherBrowser = "browser"
	FetcherHTTP    = "http"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8054)

	v.SetDefault("source.url_template", "https://www.screener.in/company/%s/")
	v.SetDefault("source.fetcher", FetcherBrowser)
	v.SetDefault("source.timeout", 15*time.Second)
	v.SetDefault("source.settle_delay", 3*time.Second)

	v.SetDefault("browser.min_size", 1)
	v.SetDefault("browser.max_size", 4)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 12*time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("valuation.policy", string(valuation.PolicyStrict))
}

// Load reads configuration. When path is empty it looks for config.yaml in
// the working directory and ./configs, and a missing file is not an error.
// Environment variables always win over the file.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if strings.Count(c.Source.URLTemplate, "%s") != 1 {
		return fmt.Errorf("source.url_template must contain exactly one %%s, got %q", c.Source.URLTemplate)
	}
	switch c.Source.Fetcher {
	case FetcherBrowser, FetcherHTTP:
	default:
		return fmt.Errorf("source.fetcher must be %q or %q, got %q", FetcherBrowser, FetcherHTTP, c.Source.Fetcher)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	if c.Source.SettleDelay < 0 {
		return fmt.Errorf("source.settle_delay cannot be negative")
	}

	if c.Browser.MinSize < 0 || c.Browser.MaxSize < 1 || c.Browser.MinSize > c.Browser.MaxSize {
		return fmt.Errorf("browser pool sizes must satisfy 0 <= min_size <= max_size, max_size >= 1 (got %d, %d)",
			c.Browser.MinSize, c.Browser.MaxSize)
	}

	if c.Redis.Enabled {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required when redis is enabled")
		}
		if c.Redis.TTL <= 0 {
			return fmt.Errorf("redis.ttl must be positive")
		}
	}

	if _, err := valuation.ParsePolicy(c.Valuation.Policy); err != nil {
		return fmt.Errorf("valuation.policy: %w", err)
	}
	return nil
}

// Policy returns the configured overvaluation policy. Validate has already
// rejected unknown values.
func (c *Config) Policy() valuation.Policy {
	p, _ := valuation.ParsePolicy(c.Valuation.Policy)
	return p
}

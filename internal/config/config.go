// Package config loads client settings for the httpmsg command from
// defaults, an optional config file, a .env file and HTTPMSG_* variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/httpmsg/client"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HTTPMSG"

// Config holds the settings used to build a client.
type Config struct {
	BaseAddress       string            `mapstructure:"base_address"`
	Headers           map[string]string `mapstructure:"headers"`
	UserAgent         string            `mapstructure:"user_agent"`
	Timeout           time.Duration     `mapstructure:"timeout"`
	ThrottleRPS       int               `mapstructure:"throttle_rps"`
	ThrottleBurst     int               `mapstructure:"throttle_burst"`
	NoFollowRedirects bool              `mapstructure:"no_follow_redirects"`
	RequestIDHeader   string            `mapstructure:"request_id_header"`
	LogLevel          string            `mapstructure:"log_level"`
}

// Load reads configuration. An empty file skips the config file; a named
// file that cannot be read is an error. Environment variables win over
// the file, which wins over defaults.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("base_address", "")
	v.SetDefault("user_agent", "httpmsg/1.0")
	v.SetDefault("timeout", "0s")
	v.SetDefault("throttle_rps", 0)
	v.SetDefault("throttle_burst", 0)
	v.SetDefault("no_follow_redirects", false)
	v.SetDefault("request_id_header", "")
	v.SetDefault("log_level", "info")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values viper cannot check for us.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return errors.New("invalid timeout (must not be negative)")
	}

	if (c.ThrottleRPS == 0) != (c.ThrottleBurst == 0) {
		return errors.New("throttle_rps and throttle_burst must be set together")
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return level, nil
}

// ClientOptions converts the configuration into client options.
func (c *Config) ClientOptions(logger *slog.Logger) []client.Option {
	opts := []client.Option{
		client.WithLogger(logger),
	}

	if c.BaseAddress != "" {
		opts = append(opts, client.WithBaseAddress(c.BaseAddress))
	}
	if c.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(c.UserAgent))
	}
	if c.Timeout > 0 {
		opts = append(opts, client.WithTimeout(c.Timeout))
	}
	if c.ThrottleRPS > 0 {
		opts = append(opts, client.WithThrottle(c.ThrottleRPS, c.ThrottleBurst))
	}
	if c.NoFollowRedirects {
		opts = append(opts, client.WithNoFollowRedirects())
	}
	if c.RequestIDHeader != "" {
		opts = append(opts, client.WithRequestIDHeader(c.RequestIDHeader))
	}
	for k, v := range c.Headers {
		opts = append(opts, client.WithDefaultHeader(k, v))
	}

	return opts
}

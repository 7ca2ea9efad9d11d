// Package config loads runtime settings from an optional YAML file and
// SYSTRACK_* environment variables, falling back to built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the default config file name (without extension).
const ConfigFileName = "systrack"

// Config represents the complete systrack.yaml configuration file.
type Config struct {
	// Host is the target host for reachability checks.
	Host string `yaml:"host" mapstructure:"host"`

	// PingTimeoutSeconds bounds a single reachability probe.
	PingTimeoutSeconds int `yaml:"ping_timeout_seconds" mapstructure:"ping_timeout_seconds"`

	// OutputDir is where reports are written.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// ReportPrefix is the filename prefix for saved reports.
	ReportPrefix string `yaml:"report_prefix" mapstructure:"report_prefix"`

	// ListenAddr is the web server bind address.
	ListenAddr string `yaml:"listen_addr" mapstructure:"listen_addr"`

	// SpeedtestTimeoutSeconds bounds a throughput measurement run.
	SpeedtestTimeoutSeconds int `yaml:"speedtest_timeout_seconds" mapstructure:"speedtest_timeout_seconds"`

	// RateLimitRPS and RateLimitBurst throttle the web API per client IP.
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`

	// LogFile mirrors log output to a file when set.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`

	// Debug lowers the log level to debug.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:                    "google.com",
		PingTimeoutSeconds:      3,
		OutputDir:               "reports",
		ReportPrefix:            "sysreport",
		ListenAddr:              ":5000",
		SpeedtestTimeoutSeconds: 120,
		RateLimitRPS:            5,
		RateLimitBurst:          10,
	}
}

// PingTimeout returns the reachability probe timeout as a duration.
func (c *Config) PingTimeout() time.Duration {
	return time.Duration(c.PingTimeoutSeconds) * time.Second
}

// SpeedtestTimeout returns the throughput run timeout as a duration.
func (c *Config) SpeedtestTimeout() time.Duration {
	return time.Duration(c.SpeedtestTimeoutSeconds) * time.Second
}

// Load reads config from path, or from systrack.yaml in the current
// directory when path is empty. A missing implicit file is not an error;
// environment variables and defaults still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SYSTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize replaces empty or out-of-range values with defaults, logging
// a warning for each replacement.
func (c *Config) Sanitize() {
	def := DefaultConfig()

	if strings.TrimSpace(c.Host) == "" {
		c.Host = def.Host
	}
	if c.PingTimeoutSeconds <= 0 {
		slog.Warn("invalid ping_timeout_seconds, using default",
			"value", c.PingTimeoutSeconds, "default", def.PingTimeoutSeconds)
		c.PingTimeoutSeconds = def.PingTimeoutSeconds
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = def.OutputDir
	}
	if strings.TrimSpace(c.ReportPrefix) == "" {
		c.ReportPrefix = def.ReportPrefix
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = def.ListenAddr
	}
	if c.SpeedtestTimeoutSeconds <= 0 {
		slog.Warn("invalid speedtest_timeout_seconds, using default",
			"value", c.SpeedtestTimeoutSeconds, "default", def.SpeedtestTimeoutSeconds)
		c.SpeedtestTimeoutSeconds = def.SpeedtestTimeoutSeconds
	}
	if c.RateLimitRPS <= 0 {
		slog.Warn("invalid rate_limit_rps, using default",
			"value", c.RateLimitRPS, "default", def.RateLimitRPS)
		c.RateLimitRPS = def.RateLimitRPS
	}
	if c.RateLimitBurst <= 0 {
		slog.Warn("invalid rate_limit_burst, using default",
			"value", c.RateLimitBurst, "default", def.RateLimitBurst)
		c.RateLimitBurst = def.RateLimitBurst
	}
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("host", def.Host)
	v.SetDefault("ping_timeout_seconds", def.PingTimeoutSeconds)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("report_prefix", def.ReportPrefix)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("speedtest_timeout_seconds", def.SpeedtestTimeoutSeconds)
	v.SetDefault("rate_limit_rps", def.RateLimitRPS)
	v.SetDefault("rate_limit_burst", def.RateLimitBurst)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("debug", def.Debug)
}

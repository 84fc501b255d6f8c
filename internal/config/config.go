package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName       string `mapstructure:"app_name"`
	Env           string `mapstructure:"app_env"`
	LogLevel      string `mapstructure:"log_level"`
	Port          int    `mapstructure:"port"`
	StaticDir     string `mapstructure:"static_dir"`
	UpstreamsFile string `mapstructure:"upstreams_file"`

	CORSAllowedOriginsRaw string   `mapstructure:"cors_allowed_origins"`
	CORSAllowedOrigins    []string `mapstructure:"-"`

	UpstreamTimeoutSeconds int64         `mapstructure:"upstream_timeout_seconds"`
	UpstreamTimeout        time.Duration `mapstructure:"-"`
	ShutdownTimeoutSeconds int64         `mapstructure:"shutdown_timeout_seconds"`
	ShutdownTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "aria-protein-relay")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 8081)
	v.SetDefault("static_dir", "./public")
	v.SetDefault("upstreams_file", "")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("upstream_timeout_seconds", 0) // 0 leaves outbound calls unbounded
	v.SetDefault("shutdown_timeout_seconds", 10)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finalize() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d (must be 1-65535)", c.Port)
	}

	if c.UpstreamTimeoutSeconds < 0 {
		return fmt.Errorf("invalid upstream_timeout_seconds (must be zero or positive seconds)")
	}
	c.UpstreamTimeout = time.Duration(c.UpstreamTimeoutSeconds) * time.Second

	if c.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid shutdown_timeout_seconds (must be positive seconds)")
	}
	c.ShutdownTimeout = time.Duration(c.ShutdownTimeoutSeconds) * time.Second

	c.StaticDir = strings.TrimSpace(c.StaticDir)
	c.UpstreamsFile = strings.TrimSpace(c.UpstreamsFile)
	c.CORSAllowedOrigins = splitList(c.CORSAllowedOriginsRaw)

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

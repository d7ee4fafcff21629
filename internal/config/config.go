package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Knowledge base sources.
const (
	SourceEmbedded = "embedded"
	SourcePostgres = "postgres"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	GinMode          string   `mapstructure:"GIN_MODE"`
	DatabaseURL      string   `mapstructure:"DATABASE_URL"`
	EnableDB         bool     `mapstructure:"ENABLE_DB"`
	KBSource         string   `mapstructure:"KB_SOURCE"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS     float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int      `mapstructure:"RATE_LIMIT_BURST"`
	MaxBodyBytes     int64    `mapstructure:"MAX_BODY_BYTES"`
	SuggestCacheSize int      `mapstructure:"SUGGEST_CACHE_SIZE"`
	StaticDir        string   `mapstructure:"STATIC_DIR"`
	TrustedProxies   []string `mapstructure:"TRUSTED_PROXIES"`
}

var keys = []string{
	"PORT", "ENV", "GIN_MODE", "DATABASE_URL", "ENABLE_DB", "KB_SOURCE", "CORS_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BODY_BYTES", "SUGGEST_CACHE_SIZE", "STATIC_DIR",
	"TRUSTED_PROXIES",
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "production")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("ENABLE_DB", false)
	v.SetDefault("KB_SOURCE", SourceEmbedded)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("SUGGEST_CACHE_SIZE", 256)

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.KBSource = strings.ToLower(strings.TrimSpace(cfg.KBSource))
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	if cfg.CORSOrigins == nil {
		cfg.CORSOrigins = []string{"*"}
	}
	cfg.TrustedProxies = splitList(cfg.TrustedProxies)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	switch c.KBSource {
	case SourceEmbedded:
	case SourcePostgres:
		if !c.EnableDB {
			return fmt.Errorf("KB_SOURCE=postgres requires ENABLE_DB=true")
		}
	default:
		return fmt.Errorf("KB_SOURCE must be %q or %q, got %q", SourceEmbedded, SourcePostgres, c.KBSource)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	for _, o := range c.CORSOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must be * or start with http:// or https://", o)
		}
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES entry %q must be an IP or CIDR", p)
			}
		}
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.SuggestCacheSize <= 0 {
		return fmt.Errorf("SUGGEST_CACHE_SIZE must be positive")
	}
	return nil
}

// splitList flattens comma-separated env values into a list.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

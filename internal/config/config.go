// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :6000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// OTPCodeTTL is the one-time code lifetime (e.g. "5m").
	OTPCodeTTL string `mapstructure:"OTP_CODE_TTL"`
	// SessionTTLRaw is the session lifetime granted on code validation (e.g. "30m").
	SessionTTLRaw string `mapstructure:"SESSION_TTL"`
	// BcryptCost is the bcrypt cost factor (4-31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// ResourceTable is the single table non-admin roles may operate on.
	ResourceTable string `mapstructure:"RESOURCE_TABLE"`
	// AllowedIPRanges is a comma-separated list of addresses/CIDR ranges allowed to call the API.
	AllowedIPRanges string `mapstructure:"ALLOWED_IP_RANGES"`
	// OTPReturnToClient when true returns the issued code in the login response instead of
	// delivering it out of band; for local development only. Must not be true when Env is production.
	OTPReturnToClient bool `mapstructure:"OTP_RETURN_TO_CLIENT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":6000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("OTP_CODE_TTL", "5m")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("RESOURCE_TABLE", "train_data")
	v.SetDefault("ALLOWED_IP_RANGES", "127.0.0.1,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16")
	v.SetDefault("OTP_RETURN_TO_CLIENT", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.ResourceTable == "" {
		return nil, errors.New("config: RESOURCE_TABLE must be set")
	}

	if cfg.OTPReturnToClient && cfg.Env == "production" {
		return nil, errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// CodeTTL parses OTPCodeTTL as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) CodeTTL() time.Duration {
	d, err := time.ParseDuration(c.OTPCodeTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// SessionTTL parses SessionTTLRaw as a time.Duration. Returns 30m if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTLRaw)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// AllowedIPRangesList returns the allow-list entries from the comma-separated config.
func (c *Config) AllowedIPRangesList() []string {
	if c == nil || c.AllowedIPRanges == "" {
		return nil
	}
	parts := strings.Split(c.AllowedIPRanges, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

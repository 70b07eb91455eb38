package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Reaper   *ReaperConfig   `mapstructure:"reaper"`
	Orders   *OrdersConfig   `mapstructure:"orders"`
	Stripe   *StripeConfig   `mapstructure:"stripe"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ReaperConfig controls the expiration reaper schedule.
type ReaperConfig struct {
	IntervalMS int `mapstructure:"interval_ms"`
}

// Interval returns the tick interval, defaulting to 60s when unset.
func (c *ReaperConfig) Interval() time.Duration {
	if c == nil || c.IntervalMS <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// OrdersConfig controls order lifecycle knobs.
type OrdersConfig struct {
	PendingTTLMinutes int `mapstructure:"pending_ttl_minutes"`
}

// PendingTTL returns how long an unpaid order holds its slots, defaulting to 30m.
func (c *OrdersConfig) PendingTTL() time.Duration {
	if c == nil || c.PendingTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.PendingTTLMinutes) * time.Minute
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	config := &AppConfig{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	return config, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "netparc/backend/libs/config"
)

// Config defines billing service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"BILLING_HTTP_PORT" default:"8082"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"BILLING_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"BILLING_POSTGRES_MAX_CONNS" default:"25"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"BILLING_REDIS_ADDR" default:"localhost:6379"`
		Password string `yaml:"password" env:"BILLING_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"BILLING_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"BILLING_REDIS_TTL" default:"86400"`
	} `yaml:"redis"`
	Inventory struct {
		URL            string `yaml:"url" env:"INVENTORY_SERVICE_URL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"INVENTORY_CALL_TIMEOUT" default:"5"`
	} `yaml:"inventory"`
	Pricing struct {
		PerHour  float64 `yaml:"perHour" env:"BILLING_PRICE_PER_HOUR" default:"5.0"`
		Timezone string  `yaml:"timezone" env:"BILLING_TIMEZONE" default:"America/Montreal"`
	} `yaml:"pricing"`
	Reconcile struct {
		IntervalSeconds int `yaml:"intervalSeconds" env:"BILLING_RECONCILE_INTERVAL" default:"60"`
	} `yaml:"reconcile"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Inventory.URL) == "" {
		return nil, errors.New("config: inventory service url required")
	}
	if cfg.Pricing.PerHour <= 0 {
		return nil, errors.New("config: price per hour must be positive")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// InventoryTimeout bounds every outbound dependency call.
func (c *Config) InventoryTimeout() time.Duration {
	if c.Inventory.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Inventory.TimeoutSeconds) * time.Second
}

// OpenSessionTTL returns cache ttl as duration.
func (c *Config) OpenSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// ReconcileInterval returns how often the reconciler cross-checks the
// authorities.
func (c *Config) ReconcileInterval() time.Duration {
	if c.Reconcile.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.Reconcile.IntervalSeconds) * time.Second
}

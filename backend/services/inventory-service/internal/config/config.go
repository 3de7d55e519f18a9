package config

import (
	"errors"
	"fmt"
	"strings"

	libconfig "netparc/backend/libs/config"
)

// Config defines inventory service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"INVENTORY_HTTP_PORT" default:"8081"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"INVENTORY_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"INVENTORY_POSTGRES_MAX_CONNS" default:"25"`
	} `yaml:"database"`
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

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "netparc/backend/libs/config"
)

// Config defines gateway configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"API_GATEWAY_HTTP_PORT" default:"8080"`
	} `yaml:"http"`
	Services struct {
		InventoryURL string `yaml:"inventoryUrl" env:"INVENTORY_SERVICE_URL"`
		BillingURL   string `yaml:"billingUrl" env:"BILLING_SERVICE_URL"`
	} `yaml:"services"`
	HTTPClient struct {
		TimeoutSeconds int `yaml:"timeoutSeconds" env:"API_GATEWAY_HTTP_TIMEOUT" default:"5"`
	} `yaml:"httpClient"`
	StationsFeed struct {
		PollSeconds         int `yaml:"pollSeconds" env:"API_GATEWAY_FEED_POLL" default:"2"`
		WriteTimeoutSeconds int `yaml:"writeTimeoutSeconds" env:"API_GATEWAY_FEED_WRITE_TIMEOUT" default:"10"`
	} `yaml:"stationsFeed"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Services.InventoryURL) == "" {
		return nil, errors.New("config: inventory service url required")
	}
	if strings.TrimSpace(cfg.Services.BillingURL) == "" {
		return nil, errors.New("config: billing service url required")
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

// HTTPTimeout returns http client timeout.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPClient.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.HTTPClient.TimeoutSeconds) * time.Second
}

// FeedPollInterval returns how often the station feed refreshes.
func (c *Config) FeedPollInterval() time.Duration {
	if c.StationsFeed.PollSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.StationsFeed.PollSeconds) * time.Second
}

// FeedWriteTimeout bounds websocket writes.
func (c *Config) FeedWriteTimeout() time.Duration {
	if c.StationsFeed.WriteTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.StationsFeed.WriteTimeoutSeconds) * time.Second
}

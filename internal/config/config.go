// Package config loads server settings from a YAML file with environment
// overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bluegrassdata/lienwatch/internal/address"
	"github.com/bluegrassdata/lienwatch/internal/docparse"
)

const (
	listenEnv  = "LIENWATCH_LISTEN"
	dbPathEnv  = "LIENWATCH_DB"
	webhookEnv = "LIENWATCH_WEBHOOK_URL"
	pvaEnv     = "LIENWATCH_PVA_URL"
)

// Config holds everything the server needs to start.
type Config struct {
	Listen           string   `yaml:"listen"`
	DBPath           string   `yaml:"db_path"`
	City             string   `yaml:"city"`
	State            string   `yaml:"state"`
	IgnoredAddresses []string `yaml:"ignored_addresses"`
	PVABaseURL       string   `yaml:"pva_base_url"`
	WebhookURL       string   `yaml:"webhook_url"`
}

func Default() Config {
	return Config{
		Listen:     ":8080",
		DBPath:     "./data/lienwatch.db",
		City:       "Lexington",
		State:      "KY",
		PVABaseURL: "https://fayettepva.com",
	}
}

// Load reads the YAML file at path when it is non-empty, merges it over the
// defaults, and applies environment overrides last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = merge(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenEnv); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(webhookEnv); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv(pvaEnv); v != "" {
		c.PVABaseURL = v
	}
}

// ParseConfig builds the document-parsing settings for the configured market.
func (c Config) ParseConfig() docparse.Config {
	return docparse.Config{
		Address:          address.Config{City: c.City, State: c.State},
		IgnoredAddresses: c.IgnoredAddresses,
	}
}

func merge(base, override Config) Config {
	if override.Listen != "" {
		base.Listen = override.Listen
	}
	if override.DBPath != "" {
		base.DBPath = override.DBPath
	}
	if override.City != "" {
		base.City = override.City
	}
	if override.State != "" {
		base.State = override.State
	}
	if len(override.IgnoredAddresses) > 0 {
		base.IgnoredAddresses = override.IgnoredAddresses
	}
	if override.PVABaseURL != "" {
		base.PVABaseURL = override.PVABaseURL
	}
	if override.WebhookURL != "" {
		base.WebhookURL = override.WebhookURL
	}
	return base
}

// Package config loads environment variables and provides a typed Config used
// across the service. It applies sensible defaults so the binary can run
// locally with minimal setup. Missing Twitch credentials do not fail startup;
// use ValidateCredentials to check before relying on authenticated calls.
package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Twitch application credentials for the client-credentials grant.
	TwitchClientID     string
	TwitchClientSecret string

	// HTTP
	Port string
}

// Load reads environment variables and applies defaults. It doesn't fail if
// Twitch creds are missing; requests needing them fail at call time instead.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TwitchClientID = os.Getenv("TWITCH_CLIENT_ID")
	cfg.TwitchClientSecret = os.Getenv("TWITCH_CLIENT_SECRET")

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ValidateCredentials checks the fields required for authenticated Helix calls.
func (c *Config) ValidateCredentials() error {
	if c.TwitchClientID == "" || c.TwitchClientSecret == "" {
		return fmt.Errorf("missing twitch env: require TWITCH_CLIENT_ID, TWITCH_CLIENT_SECRET")
	}
	return nil
}

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TWITCH_CLIENT_ID", "")
	t.Setenv("TWITCH_CLIENT_SECRET", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %s, want 3000", cfg.Port)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr() = %s, want :3000", cfg.Addr())
	}
	// Missing credentials must not fail loading.
	if err := cfg.ValidateCredentials(); err == nil {
		t.Error("ValidateCredentials() = nil, want error for missing secrets")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TWITCH_CLIENT_ID", "client-id")
	t.Setenv("TWITCH_CLIENT_SECRET", "client-secret")
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8081" {
		t.Errorf("Port = %s, want 8081", cfg.Port)
	}
	if cfg.TwitchClientID != "client-id" || cfg.TwitchClientSecret != "client-secret" {
		t.Errorf("credentials not read from environment")
	}
	if err := cfg.ValidateCredentials(); err != nil {
		t.Errorf("ValidateCredentials() = %v, want nil", err)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", cfg.APIPort)
	}
	if cfg.ExecutorMode != ExecutorModeQueue {
		t.Errorf("ExecutorMode = %q, want queue", cfg.ExecutorMode)
	}
	if cfg.Resolver.ExternalBuildWait != 5*time.Second {
		t.Errorf("ExternalBuildWait = %v, want 5s", cfg.Resolver.ExternalBuildWait)
	}
	if cfg.Resolver.DiscoveryInterval != 5*time.Second {
		t.Errorf("DiscoveryInterval = %v, want 5s", cfg.Resolver.DiscoveryInterval)
	}
	if cfg.Resolver.CompletionInterval != 2*time.Second {
		t.Errorf("CompletionInterval = %v, want 2s", cfg.Resolver.CompletionInterval)
	}
}

func TestExternalBuildWait_Override(t *testing.T) {
	t.Setenv("EXTERNAL_BUILD_WAIT", "30")

	if got := externalBuildWait(); got != 30*time.Second {
		t.Errorf("externalBuildWait() = %v, want 30s", got)
	}
}

func TestExternalBuildWait_LegacyAlias(t *testing.T) {
	t.Setenv("EXTERNAL_BUILD_WAIT_SECONDS", "45")

	if got := externalBuildWait(); got != 45*time.Second {
		t.Errorf("externalBuildWait() = %v, want 45s", got)
	}
}

func TestExternalBuildWait_PrimaryWins(t *testing.T) {
	t.Setenv("EXTERNAL_BUILD_WAIT", "10")
	t.Setenv("EXTERNAL_BUILD_WAIT_SECONDS", "99")

	if got := externalBuildWait(); got != 10*time.Second {
		t.Errorf("externalBuildWait() = %v, want the primary name's 10s", got)
	}
}

func TestExternalBuildWait_BadValueFallsBack(t *testing.T) {
	t.Setenv("EXTERNAL_BUILD_WAIT", "soon")

	if got := externalBuildWait(); got != 5*time.Second {
		t.Errorf("externalBuildWait() = %v, want default 5s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"bad executor mode", func(c *Config) { c.ExecutorMode = "carrier-pigeon" }, true},
		{"http executor mode", func(c *Config) { c.ExecutorMode = ExecutorModeHTTP }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadWithDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

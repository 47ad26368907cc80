package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Auth.Enabled {
		t.Fatalf("expected payload auth to be disabled by default")
	}
	if cfg.ListenAddress != "127.0.0.1:8080" {
		t.Fatalf("unexpected listen address %q", cfg.ListenAddress)
	}
	if cfg.Observability.MetricsPrefix != "fin_gateway" {
		t.Fatalf("unexpected metrics prefix %q", cfg.Observability.MetricsPrefix)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `listen: ":9090"
readTimeout: 5s
sdk:
  configPath: fin.toml
  network: testnet
rateLimits:
  - id: reads
    requestsPerMinute: 120
    burst: 10
auth:
  enabled: true
  hmacSecret: secret
cors:
  allowedOrigins: ["https://app.example.com"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ListenAddress != ":9090" || cfg.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected server settings: %+v", cfg)
	}
	if cfg.SDK.Network != "testnet" || cfg.SDK.ConfigPath != "fin.toml" {
		t.Fatalf("unexpected sdk settings: %+v", cfg.SDK)
	}
	if got := cfg.RateLimits[0].PerSecond(); got != 2 {
		t.Fatalf("expected 2 requests per second, got %v", got)
	}
	if cfg.Auth.ScopeClaim != "scope" || cfg.Auth.ClockSkew != 2*time.Minute {
		t.Fatalf("auth defaults not applied: %+v", cfg.Auth)
	}
	if cfg.Observability.ServiceName != "fin-gateway" {
		t.Fatalf("observability defaults lost: %+v", cfg.Observability)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "listen: \":9090\"\nservices: []\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestLoadRequiresSecretWhenAuthEnabled(t *testing.T) {
	path := writeConfig(t, "auth:\n  enabled: true\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected load to fail without an HMAC secret")
	}
}

func TestLoadRequiresExplicitAuthForTLS(t *testing.T) {
	path := writeConfig(t, "auth:\n  hmacSecret: s\nsecurity:\n  tlsCertFile: /etc/gateway/cert.pem\n  tlsKeyFile: /etc/gateway/key.pem\n")
	_, err := Load(path)
	if !errors.Is(err, ErrAuthEnabledNotConfigured) {
		t.Fatalf("expected ErrAuthEnabledNotConfigured, got %v", err)
	}

	path = writeConfig(t, "auth:\n  enabled: false\nsecurity:\n  tlsCertFile: /etc/gateway/cert.pem\n  tlsKeyFile: /etc/gateway/key.pem\n")
	if _, err := Load(path); err != nil {
		t.Fatalf("load config: %v", err)
	}
}

func TestLoadRejectsHalfTLS(t *testing.T) {
	path := writeConfig(t, "security:\n  tlsCertFile: /etc/gateway/cert.pem\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected missing key file to be rejected")
	}
}

func TestValidateRateLimits(t *testing.T) {
	cases := []struct {
		name   string
		limits []RateLimitConfig
	}{
		{name: "missing id", limits: []RateLimitConfig{{RatePerSecond: 1}}},
		{name: "zero rate", limits: []RateLimitConfig{{ID: "reads"}}},
		{name: "negative burst", limits: []RateLimitConfig{{ID: "reads", RatePerSecond: 1, Burst: -1}}},
		{name: "duplicate", limits: []RateLimitConfig{{ID: "reads", RatePerSecond: 1}, {ID: "reads", RatePerSecond: 2}}},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.RateLimits = tc.limits
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestEnforceSecureScheme(t *testing.T) {
	remote, _ := url.Parse("http://fullnode.example.com")
	if _, _, err := EnforceSecureScheme("prod", remote, false); err == nil {
		t.Fatalf("expected plaintext remote endpoint to be rejected")
	}
	upgraded, changed, err := EnforceSecureScheme("prod", remote, true)
	if err != nil || !changed || upgraded.Scheme != "https" {
		t.Fatalf("expected upgrade, got %v %v %v", upgraded, changed, err)
	}
	if _, changed, err := EnforceSecureScheme("dev", remote, false); err != nil || changed {
		t.Fatalf("dev should allow plaintext: %v %v", changed, err)
	}
	local, _ := url.Parse("http://127.0.0.1:8080")
	if _, _, err := EnforceSecureScheme("prod", local, false); err != nil {
		t.Fatalf("loopback should allow plaintext: %v", err)
	}
	bad, _ := url.Parse("ftp://fullnode.example.com")
	if _, _, err := EnforceSecureScheme("prod", bad, true); err == nil {
		t.Fatalf("expected unsupported scheme to be rejected")
	}
}

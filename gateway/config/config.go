package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RateLimitConfig bounds the request rate of a single client on one route
// group.
type RateLimitConfig struct {
	ID                string  `yaml:"id"`
	RequestsPerMinute float64 `yaml:"requestsPerMinute"`
	RatePerSecond     float64 `yaml:"ratePerSecond"`
	Burst             int     `yaml:"burst"`
}

// PerSecond resolves the configured rate, preferring ratePerSecond.
func (r RateLimitConfig) PerSecond() float64 {
	if r.RatePerSecond > 0 {
		return r.RatePerSecond
	}
	if r.RequestsPerMinute > 0 {
		return r.RequestsPerMinute / 60.0
	}
	return 0
}

type ObservabilityConfig struct {
	ServiceName   string `yaml:"serviceName"`
	Metrics       bool   `yaml:"metrics"`
	Tracing       bool   `yaml:"tracing"`
	LogRequests   bool   `yaml:"logRequests"`
	MetricsPrefix string `yaml:"metricsPrefix"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
	AllowedHeaders []string `yaml:"allowedHeaders"`
}

// SDKConfig points the gateway at the TOML client configuration. NodeURL and
// Network, when set, take precedence over the file.
type SDKConfig struct {
	ConfigPath string `yaml:"configPath"`
	NodeURL    string `yaml:"nodeURL"`
	Network    string `yaml:"network"`
}

type Config struct {
	ListenAddress string              `yaml:"listen"`
	ReadTimeout   time.Duration       `yaml:"readTimeout"`
	WriteTimeout  time.Duration       `yaml:"writeTimeout"`
	IdleTimeout   time.Duration       `yaml:"idleTimeout"`
	SDK           SDKConfig           `yaml:"sdk"`
	RateLimits    []RateLimitConfig   `yaml:"rateLimits"`
	Observability ObservabilityConfig `yaml:"observability"`
	Auth          AuthConfig          `yaml:"auth"`
	CORS          CORSConfig          `yaml:"cors"`
	Security      SecurityConfig      `yaml:"security"`
}

// AuthConfig guards the payload routes with HMAC signed JWTs. Read routes are
// always public.
type AuthConfig struct {
	Enabled    bool          `yaml:"enabled"`
	HMACSecret string        `yaml:"hmacSecret"`
	Issuer     string        `yaml:"issuer"`
	Audience   string        `yaml:"audience"`
	ScopeClaim string        `yaml:"scopeClaim"`
	ClockSkew  time.Duration `yaml:"clockSkew"`
	enabledSet bool          `yaml:"-"`
}

func (a *AuthConfig) UnmarshalYAML(node *yaml.Node) error {
	type rawAuthConfig struct {
		Enabled    *bool         `yaml:"enabled"`
		HMACSecret string        `yaml:"hmacSecret"`
		Issuer     string        `yaml:"issuer"`
		Audience   string        `yaml:"audience"`
		ScopeClaim string        `yaml:"scopeClaim"`
		ClockSkew  time.Duration `yaml:"clockSkew"`
	}
	var raw rawAuthConfig
	if err := node.Decode(&raw); err != nil {
		return err
	}
	a.Enabled = raw.Enabled != nil && *raw.Enabled
	a.enabledSet = raw.Enabled != nil
	a.HMACSecret = raw.HMACSecret
	a.Issuer = raw.Issuer
	a.Audience = raw.Audience
	a.ScopeClaim = raw.ScopeClaim
	a.ClockSkew = raw.ClockSkew
	return nil
}

type SecurityConfig struct {
	AutoUpgradeHTTP bool   `yaml:"autoUpgradeHTTP"`
	AllowInsecure   bool   `yaml:"allowInsecure"`
	TLSCertFile     string `yaml:"tlsCertFile"`
	TLSKeyFile      string `yaml:"tlsKeyFile"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		ListenAddress: "127.0.0.1:8080",
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   120 * time.Second,
		Observability: ObservabilityConfig{
			ServiceName:   "fin-gateway",
			Metrics:       true,
			Tracing:       true,
			LogRequests:   true,
			MetricsPrefix: "fin_gateway",
		},
		Auth: AuthConfig{
			Enabled:    false,
			ScopeClaim: "scope",
			ClockSkew:  2 * time.Minute,
			enabledSet: true,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if err := cfg.Validate(); err != nil {
			return Config{}, fmt.Errorf("validate config: %w", err)
		}
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyAuthDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) applyAuthDefaults() {
	if cfg.Auth.ClockSkew <= 0 {
		cfg.Auth.ClockSkew = 2 * time.Minute
	}
	if cfg.Auth.ScopeClaim == "" {
		cfg.Auth.ScopeClaim = "scope"
	}
}

var ErrAuthEnabledNotConfigured = errors.New("auth.enabled must be explicitly set when TLS is configured")

func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		return fmt.Errorf("listen address is required")
	}
	if cfg.isSensitiveDeployment() && !cfg.Auth.enabledSet {
		return ErrAuthEnabledNotConfigured
	}
	if cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.HMACSecret) == "" {
		return fmt.Errorf("auth.hmacSecret is required when auth is enabled")
	}
	if (cfg.Security.TLSCertFile == "") != (cfg.Security.TLSKeyFile == "") {
		return fmt.Errorf("security.tlsCertFile and security.tlsKeyFile must both be provided")
	}
	seen := make(map[string]struct{}, len(cfg.RateLimits))
	for i, limit := range cfg.RateLimits {
		id := strings.TrimSpace(limit.ID)
		if id == "" {
			return fmt.Errorf("rateLimits[%d].id is required", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("rateLimits[%d]: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
		if limit.PerSecond() <= 0 {
			return fmt.Errorf("rateLimits[%d]: rate must be positive", i)
		}
		if limit.Burst < 0 {
			return fmt.Errorf("rateLimits[%d]: burst must not be negative", i)
		}
	}
	return nil
}

func (cfg *Config) isSensitiveDeployment() bool {
	if cfg == nil {
		return false
	}
	if cfg.Security.AutoUpgradeHTTP {
		return true
	}
	return strings.TrimSpace(cfg.Security.TLSCertFile) != "" || strings.TrimSpace(cfg.Security.TLSKeyFile) != ""
}

// EnforceSecureScheme ensures the supplied URL uses HTTPS outside of the dev environment.
// If autoUpgrade is enabled, insecure HTTP URLs are transparently upgraded to HTTPS.
// The returned boolean indicates whether an upgrade occurred.
func EnforceSecureScheme(env string, target *url.URL, autoUpgrade bool) (*url.URL, bool, error) {
	if target == nil {
		return nil, false, fmt.Errorf("target URL is nil")
	}
	scheme := strings.ToLower(strings.TrimSpace(target.Scheme))
	switch scheme {
	case "https":
		return target, false, nil
	case "http":
		if isDevEnv(env) || isLoopbackHost(target.Hostname()) {
			return target, false, nil
		}
		if autoUpgrade {
			upgraded := *target
			upgraded.Scheme = "https"
			return &upgraded, true, nil
		}
		if strings.TrimSpace(env) == "" {
			env = "(unset)"
		}
		return nil, false, fmt.Errorf("plaintext HTTP endpoints are not permitted for environment %s", env)
	case "":
		return nil, false, fmt.Errorf("URL scheme is required")
	default:
		return nil, false, fmt.Errorf("unsupported URL scheme %q", target.Scheme)
	}
}

func isDevEnv(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), "dev")
}

func isLoopbackHost(host string) bool {
	return strings.EqualFold(host, "localhost") || host == "127.0.0.1" || host == "::1"
}

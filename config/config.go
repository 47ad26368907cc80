package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultNodeURL is the public mainnet fullnode.
	DefaultNodeURL = "https://fullnode.mainnet.aptoslabs.com"

	defaultTimeoutSeconds = 30
	defaultService        = "financer"
	defaultEnv            = "dev"

	envNodeURL   = "FIN_NODE_URL"
	envNetwork   = "FIN_NETWORK"
	envEnv       = "FIN_ENV"
	envAuthToken = "FIN_AUTH_TOKEN"
)

// Config is the on-disk SDK configuration.
type Config struct {
	NodeURL           string            `toml:"NodeURL"`
	Network           Network           `toml:"Network"`
	TimeoutSeconds    int               `toml:"TimeoutSeconds"`
	RequestsPerSecond float64           `toml:"RequestsPerSecond"`
	Burst             int               `toml:"Burst"`
	AuthToken         string            `toml:"AuthToken,omitempty"`
	AuthTokenEnv      string            `toml:"AuthTokenEnv,omitempty"`
	Log               LogConfig         `toml:"log"`
	Telemetry         TelemetryConfig   `toml:"telemetry"`
	Overrides         map[string]string `toml:"overrides,omitempty"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Service    string `toml:"Service"`
	Env        string `toml:"Env"`
	Level      string `toml:"Level"`
	File       string `toml:"File,omitempty"`
	MaxSizeMB  int    `toml:"MaxSizeMB,omitempty"`
	MaxBackups int    `toml:"MaxBackups,omitempty"`
	MaxAgeDays int    `toml:"MaxAgeDays,omitempty"`
}

// TelemetryConfig enables OTLP export of traces and metrics.
type TelemetryConfig struct {
	Endpoint string            `toml:"Endpoint,omitempty"`
	Insecure bool              `toml:"Insecure"`
	Traces   bool              `toml:"Traces"`
	Metrics  bool              `toml:"Metrics"`
	Headers  map[string]string `toml:"Headers,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		NodeURL:        DefaultNodeURL,
		Network:        Mainnet,
		TimeoutSeconds: defaultTimeoutSeconds,
		Log: LogConfig{
			Service: defaultService,
			Env:     defaultEnv,
			Level:   "info",
		},
	}
}

// Load reads the configuration from path. An empty path yields the defaults;
// a path that does not exist yet is initialised with them. Environment
// overrides are applied last and the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := persist(path, cfg); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		} else {
			meta, err := toml.DecodeFile(path, cfg)
			if err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
			if undecoded := meta.Undecoded(); len(undecoded) > 0 {
				return nil, fmt.Errorf("config: %s has unknown field %q", path, undecoded[0].String())
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if value := strings.TrimSpace(os.Getenv(envNodeURL)); value != "" {
		c.NodeURL = value
	}
	if value := strings.TrimSpace(os.Getenv(envNetwork)); value != "" {
		network, err := ParseNetwork(value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envNetwork, err)
		}
		c.Network = network
	}
	if value := strings.TrimSpace(os.Getenv(envEnv)); value != "" {
		c.Log.Env = value
	}
	if value := strings.TrimSpace(os.Getenv(envAuthToken)); value != "" {
		c.AuthToken = value
	}
	if c.AuthToken == "" && strings.TrimSpace(c.AuthTokenEnv) != "" {
		c.AuthToken = strings.TrimSpace(os.Getenv(strings.TrimSpace(c.AuthTokenEnv)))
	}
	return nil
}

func (c *Config) normalize() {
	c.NodeURL = strings.TrimSpace(c.NodeURL)
	if c.NodeURL == "" {
		c.NodeURL = DefaultNodeURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(c.Log.Service) == "" {
		c.Log.Service = defaultService
	}
	if strings.TrimSpace(c.Log.Env) == "" {
		c.Log.Env = defaultEnv
	}
}

// Validate checks the configuration for values that would make the SDK
// unusable.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config: nil config")
	}
	parsed, err := url.Parse(c.NodeURL)
	if err != nil {
		return fmt.Errorf("config: NodeURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: NodeURL must use http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("config: NodeURL missing host")
	}
	if c.Network < Mainnet || c.Network > Testnet {
		return fmt.Errorf("config: unknown network %d", int(c.Network))
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("config: RequestsPerSecond must not be negative")
	}
	if c.Burst < 0 {
		return fmt.Errorf("config: Burst must not be negative")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("config: log rotation values must not be negative")
	}
	if c.Telemetry.Endpoint == "" && (c.Telemetry.Traces || c.Telemetry.Metrics) {
		return fmt.Errorf("config: telemetry endpoint required when traces or metrics are enabled")
	}
	if _, err := OptionsFor(c.Network).ApplyOverrides(c.Overrides); err != nil {
		return err
	}
	return nil
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	if c == nil || c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NetworkOptions returns the selected network table with overrides applied.
func (c *Config) NetworkOptions() (Options, error) {
	if c == nil {
		return OptionsFor(Mainnet), nil
	}
	return OptionsFor(c.Network).ApplyOverrides(c.Overrides)
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	finconfig "financer/config"
	"financer/gateway/config"
	"financer/gateway/middleware"
	"financer/gateway/routes"
	"financer/observability/logging"
	telemetry "financer/observability/otel"
	"financer/sdk"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fin-gateway: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, logOut io.Writer) error {
	fs := flag.NewFlagSet("fin-gateway", flag.ContinueOnError)
	var cfgPath string
	var allowInsecureFlag bool
	fs.StringVar(&cfgPath, "config", "", "path to gateway configuration")
	fs.BoolVar(&allowInsecureFlag, "allow-insecure", false, "DEV ONLY: permit plaintext listeners on loopback interfaces")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	clientCfg, err := loadClientConfig(cfg.SDK, configDir(cfgPath))
	if err != nil {
		return err
	}

	env := clientCfg.Log.Env
	logger := logging.Setup(cfg.Observability.ServiceName, env,
		logging.WithWriter(logOut),
		logging.WithLevel(logging.ParseLevel(clientCfg.Log.Level)),
		logging.WithFile(clientCfg.Log.File, clientCfg.Log.MaxSizeMB, clientCfg.Log.MaxBackups, clientCfg.Log.MaxAgeDays),
	)

	nodeURL, err := url.Parse(clientCfg.NodeURL)
	if err != nil {
		return fmt.Errorf("parse node url: %w", err)
	}
	secured, upgraded, err := config.EnforceSecureScheme(env, nodeURL, cfg.Security.AutoUpgradeHTTP)
	if err != nil {
		return fmt.Errorf("enforce HTTPS for node url: %w", err)
	}
	if upgraded {
		logger.Warn("auto-upgraded node url to HTTPS", "node", secured.String())
	}
	clientCfg.NodeURL = secured.String()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetryConfig(cfg, clientCfg))
	if err != nil {
		return fmt.Errorf("initialise telemetry: %w", err)
	}
	defer func() {
		_ = shutdownTelemetry(context.Background())
	}()

	client, err := sdk.FromConfig(clientCfg, sdk.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("configure sdk: %w", err)
	}
	handler, err := newHandler(cfg, client, logger)
	if err != nil {
		return err
	}

	tlsConfig, err := buildTLSConfig(configDir(cfgPath), cfg.Security)
	if err != nil {
		return fmt.Errorf("configure TLS: %w", err)
	}
	if tlsConfig == nil {
		allowInsecure := cfg.Security.AllowInsecure || allowInsecureFlag
		if !allowInsecure {
			return errors.New("TLS certificate and key are required; provide security.tlsCertFile/tlsKeyFile or start with --allow-insecure in dev")
		}
		if !strings.EqualFold(env, "dev") && !isLoopbackAddress(cfg.ListenAddress) {
			return errors.New("plaintext gateway mode is restricted to loopback listeners or the dev environment")
		}
	}

	server := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		TLSConfig:    tlsConfig,
	}
	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if tlsConfig != nil {
		listener = tls.NewListener(listener, tlsConfig)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("gateway listening",
			"address", listener.Addr().String(),
			"tls", tlsConfig != nil,
			"network", client.Network().String(),
			"node", clientCfg.NodeURL,
		)
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// loadClientConfig reads the TOML client configuration and applies the
// gateway's node and network overrides.
func loadClientConfig(sdkCfg config.SDKConfig, baseDir string) (*finconfig.Config, error) {
	path := strings.TrimSpace(sdkCfg.ConfigPath)
	if path != "" && baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	clientCfg, err := finconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}
	if value := strings.TrimSpace(sdkCfg.NodeURL); value != "" {
		clientCfg.NodeURL = value
	}
	if value := strings.TrimSpace(sdkCfg.Network); value != "" {
		network, err := finconfig.ParseNetwork(value)
		if err != nil {
			return nil, err
		}
		clientCfg.Network = network
	}
	if err := clientCfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate client config: %w", err)
	}
	return clientCfg, nil
}

func telemetryConfig(cfg config.Config, clientCfg *finconfig.Config) telemetry.Config {
	service := cfg.Observability.ServiceName
	if clientCfg.Telemetry.Endpoint == "" {
		return telemetry.ConfigFromEnv(service, clientCfg.Log.Env)
	}
	return telemetry.Config{
		ServiceName: service,
		Environment: clientCfg.Log.Env,
		Endpoint:    clientCfg.Telemetry.Endpoint,
		Insecure:    clientCfg.Telemetry.Insecure,
		Headers:     clientCfg.Telemetry.Headers,
		Metrics:     clientCfg.Telemetry.Metrics && cfg.Observability.Metrics,
		Traces:      clientCfg.Telemetry.Traces && cfg.Observability.Tracing,
	}
}

func newHandler(cfg config.Config, client *sdk.SDK, logger *slog.Logger) (http.Handler, error) {
	obs := middleware.NewObservability(middleware.ObservabilityConfig{
		ServiceName:   cfg.Observability.ServiceName,
		MetricsPrefix: cfg.Observability.MetricsPrefix,
		LogRequests:   cfg.Observability.LogRequests,
		Enabled:       cfg.Observability.Metrics || cfg.Observability.Tracing,
	}, logger)

	auth := middleware.NewAuthenticator(middleware.AuthConfig{
		Enabled:    cfg.Auth.Enabled,
		HMACSecret: cfg.Auth.HMACSecret,
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		ScopeClaim: cfg.Auth.ScopeClaim,
		ClockSkew:  cfg.Auth.ClockSkew,
	}, logger)

	rateLimits := make(map[string]middleware.RateLimit, len(cfg.RateLimits))
	for _, entry := range cfg.RateLimits {
		rateLimits[entry.ID] = middleware.RateLimit{
			RatePerSecond: entry.PerSecond(),
			Burst:         entry.Burst,
		}
	}
	if len(rateLimits) == 0 {
		rateLimits[routes.RateLimitReads] = middleware.RateLimit{RatePerSecond: 10, Burst: 50}
		rateLimits[routes.RateLimitPayloads] = middleware.RateLimit{RatePerSecond: 2, Burst: 10}
	}

	router, err := routes.New(routes.Config{
		SDK:           client,
		Logger:        logger,
		Authenticator: auth,
		RateLimiter:   middleware.NewRateLimiter(rateLimits, logger),
		Observability: obs,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("configure routes: %w", err)
	}
	if cfg.Observability.Tracing {
		return otelhttp.NewHandler(router, cfg.Observability.ServiceName), nil
	}
	return router, nil
}

func configDir(cfgPath string) string {
	if strings.TrimSpace(cfgPath) == "" {
		return ""
	}
	return filepath.Dir(cfgPath)
}

func buildTLSConfig(baseDir string, sec config.SecurityConfig) (*tls.Config, error) {
	certPath := resolvePath(baseDir, sec.TLSCertFile)
	keyPath := resolvePath(baseDir, sec.TLSKeyFile)
	if certPath == "" && keyPath == "" {
		return nil, nil
	}
	if certPath == "" || keyPath == "" {
		return nil, fmt.Errorf("security.tlsCertFile and security.tlsKeyFile must both be provided when enabling TLS")
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("load TLS key pair: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, nil
}

func resolvePath(baseDir, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if baseDir == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(baseDir, trimmed)
}

func isLoopbackAddress(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

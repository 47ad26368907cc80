package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"financer/gateway/middleware"
	"financer/sdk"
)

// Rate limit keys of the two route groups.
const (
	RateLimitReads    = "reads"
	RateLimitPayloads = "payloads"
)

// PayloadScope is the token scope required by the payload routes.
const PayloadScope = "payloads"

type Config struct {
	SDK           *sdk.SDK
	Logger        *slog.Logger
	Authenticator *middleware.Authenticator
	RateLimiter   *middleware.RateLimiter
	Observability *middleware.Observability
	CORS          middleware.CORSConfig
}

// New mounts the read and payload routes over cfg.SDK.
func New(cfg Config) (http.Handler, error) {
	if cfg.SDK == nil {
		return nil, fmt.Errorf("routes: sdk required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{sdk: cfg.SDK, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Observability != nil {
		r.Handle("/metrics", cfg.Observability.MetricsHandler())
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(reads chi.Router) {
			if cfg.RateLimiter != nil {
				reads.Use(cfg.RateLimiter.Middleware(RateLimitReads))
			}
			if cfg.Observability != nil {
				reads.Use(cfg.Observability.Middleware(RateLimitReads))
			}
			reads.Get("/network", h.network)
			reads.Get("/balance/{address}", h.balance)
			reads.Get("/airdrop/{address}", h.airdrop)
			reads.Get("/vault", h.vaultTotal)
			reads.Get("/vault/call-fee", h.vaultCallFee)
			reads.Get("/vault/{address}", h.vaultPosition)
			reads.Get("/masterchef/pools", h.masterChefPools)
			reads.Get("/masterchef/users/{address}", h.masterChefUser)
			reads.Get("/swap/pools/{coinX}/{coinY}", h.swapPool)
		})
		v1.Group(func(payloads chi.Router) {
			if cfg.RateLimiter != nil {
				payloads.Use(cfg.RateLimiter.Middleware(RateLimitPayloads))
			}
			if cfg.Authenticator != nil {
				payloads.Use(cfg.Authenticator.Middleware(PayloadScope))
			}
			if cfg.Observability != nil {
				payloads.Use(cfg.Observability.Middleware(RateLimitPayloads))
			}
			payloads.Post("/payloads/{kind}", h.payload)
		})
	})

	return r, nil
}

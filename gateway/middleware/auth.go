package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type AuthConfig struct {
	Enabled    bool
	HMACSecret string
	Issuer     string
	Audience   string
	ScopeClaim string
	ClockSkew  time.Duration
}

type contextKey string

const (
	ContextKeySubject contextKey = "gateway.subject"
	ContextKeyScopes  contextKey = "gateway.scopes"
)

// Authenticator validates HMAC signed bearer tokens.
type Authenticator struct {
	cfg    AuthConfig
	logger *slog.Logger
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(cfg AuthConfig, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ScopeClaim == "" {
		cfg.ScopeClaim = "scope"
	}
	if cfg.ClockSkew <= 0 {
		cfg.ClockSkew = 2 * time.Minute
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithLeeway(cfg.ClockSkew),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.Audience))
	}
	return &Authenticator{
		cfg:    cfg,
		logger: logger,
		secret: []byte(strings.TrimSpace(cfg.HMACSecret)),
		parser: jwt.NewParser(parserOpts...),
	}
}

func (a *Authenticator) Middleware(requiredScopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a == nil || !a.cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}
			tokenString := extractBearer(r.Header.Get("Authorization"))
			if tokenString == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := a.parseToken(tokenString)
			if err != nil {
				a.logger.Warn("token validation failed", "error", err)
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			scopes := extractScopes(claims, a.cfg.ScopeClaim)
			if !hasScopes(scopes, requiredScopes) {
				writeError(w, http.StatusForbidden, "insufficient scope")
				return
			}
			subject, _ := claims.GetSubject()
			ctx := context.WithValue(r.Context(), ContextKeySubject, subject)
			ctx = context.WithValue(ctx, ContextKeyScopes, scopes)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Authenticator) parseToken(tokenString string) (jwt.MapClaims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("auth secret not configured")
	}
	claims := jwt.MapClaims{}
	token, err := a.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func extractScopes(claims jwt.MapClaims, scopeClaim string) []string {
	raw, ok := claims[scopeClaim]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		return strings.Fields(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func hasScopes(scopes []string, required []string) bool {
	set := make(map[string]struct{}, len(scopes))
	for _, scope := range scopes {
		set[scope] = struct{}{}
	}
	for _, req := range required {
		if _, ok := set[req]; !ok {
			return false
		}
	}
	return true
}

func extractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

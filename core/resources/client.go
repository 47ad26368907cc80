package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"financer/core/types"
	"financer/observability"
	"financer/observability/logging"
)

const (
	apiVersionPath   = "/v1"
	cursorHeader     = "X-Aptos-Cursor"
	requestIDHeader  = "X-Request-ID"
	defaultTimeout   = 30 * time.Second
	defaultPageLimit = 1000
	maxErrorBody     = 4096
	accountsLabel    = "accounts"
)

// Client reads account resources over the fullnode REST API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	authToken  string
	limiter    *rate.Limiter
	logger     *slog.Logger
	pageLimit  int
}

var _ Accessor = (*Client)(nil)

// Option configures the resource client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for fullnode calls. The
// supplied client is used as is; no tracing transport is added.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithAuthToken attaches a bearer token, for API-key gated fullnodes.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = strings.TrimSpace(token)
	}
}

// WithRateLimit caps the request rate issued by this client. A non-positive
// rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPageLimit sets the page size used when listing account resources.
func WithPageLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.pageLimit = limit
		}
	}
}

// New initialises a client bound to the provided fullnode URL. The /v1 API
// prefix is appended when missing.
func New(nodeURL string, opts ...Option) (*Client, error) {
	endpoint, err := normalizeEndpoint(nodeURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:  endpoint,
		timeout:   defaultTimeout,
		logger:    slog.Default(),
		pageLimit: defaultPageLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	c.logger.Debug("resources: client configured",
		"endpoint", c.endpoint,
		"page_limit", c.pageLimit,
		logging.MaskField("auth_token", c.authToken),
	)
	return c, nil
}

func normalizeEndpoint(nodeURL string) (string, error) {
	trimmed := strings.TrimSpace(nodeURL)
	if trimmed == "" {
		return "", fmt.Errorf("resources: node url required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("resources: parse node url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("resources: node url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("resources: node url missing host")
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(parsed.Path, apiVersionPath) {
		parsed.Path += apiVersionPath
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String(), nil
}

// Endpoint returns the normalised API base URL.
func (c *Client) Endpoint() string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

// AccountResource reads one resource of the given type from an account.
func (c *Client) AccountResource(ctx context.Context, address, resourceType string) (RawResource, error) {
	if c == nil {
		return RawResource{}, fmt.Errorf("resources: client instance required")
	}
	addr, err := types.ParseAddress(address)
	if err != nil {
		return RawResource{}, fmt.Errorf("resources: %w", err)
	}
	resourceType = strings.TrimSpace(resourceType)
	if resourceType == "" {
		return RawResource{}, fmt.Errorf("resources: resource type required")
	}
	target := c.endpoint + "/accounts/" + addr.Long() + "/resource/" + url.PathEscape(resourceType)
	var out RawResource
	if _, err := c.get(ctx, resourceType, target, &out); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return RawResource{}, fmt.Errorf("%w: %s at %s", ErrResourceNotFound, resourceType, addr.Short())
		}
		return RawResource{}, err
	}
	return out, nil
}

// AccountResources lists every resource held by an account, following the
// pagination cursor until the fullnode stops returning one.
func (c *Client) AccountResources(ctx context.Context, address string) ([]RawResource, error) {
	if c == nil {
		return nil, fmt.Errorf("resources: client instance required")
	}
	addr, err := types.ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("resources: %w", err)
	}
	var (
		all    []RawResource
		cursor string
	)
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageLimit))
		if cursor != "" {
			query.Set("start", cursor)
		}
		target := c.endpoint + "/accounts/" + addr.Long() + "/resources?" + query.Encode()
		var page []RawResource
		next, err := c.get(ctx, accountsLabel, target, &page)
		if err != nil {
			if errors.Is(err, ErrResourceNotFound) {
				return nil, fmt.Errorf("%w: account %s", ErrResourceNotFound, addr.Short())
			}
			return nil, err
		}
		all = append(all, page...)
		if next == "" || next == cursor {
			return all, nil
		}
		cursor = next
	}
}

// get issues a GET request, decodes a successful body into out and returns the
// pagination cursor header.
func (c *Client) get(ctx context.Context, label, target string, out interface{}) (string, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("resources: rate limiter: %w", err)
		}
		observability.ResourceMetrics().RecordThrottle(label, time.Since(waitStart))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("resources: build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ResourceMetrics().Observe(label, "error", time.Since(start))
		return "", fmt.Errorf("resources: request failed: %w", err)
	}
	defer resp.Body.Close()

	outcome := "ok"
	defer func() {
		elapsed := time.Since(start)
		observability.ResourceMetrics().Observe(label, outcome, elapsed)
		c.logger.Debug("resources: fetched",
			"resource", label,
			"status", resp.StatusCode,
			"outcome", outcome,
			"duration", elapsed,
			"request_id", requestID,
		)
	}()

	if resp.StatusCode != http.StatusOK {
		apiErr := decodeAPIError(resp)
		if resp.StatusCode == http.StatusNotFound && apiErr.isNotFound() {
			outcome = "not_found"
			return "", ErrResourceNotFound
		}
		outcome = "error"
		return "", apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = "error"
		return "", fmt.Errorf("resources: decode response: %w", err)
	}
	return strings.TrimSpace(resp.Header.Get(cursorHeader)), nil
}

func decodeAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Message == "" && apiErr.ErrorCode == "") {
		apiErr = &APIError{Message: strings.TrimSpace(string(body))}
	}
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}

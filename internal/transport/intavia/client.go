// Package intavia is the HTTP client of the entity API that serves search
// results and widget aggregates.
package intavia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/search/result"
	"github.com/intavia/visualquery/internal/domain/statistics"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
	"github.com/intavia/visualquery/internal/metrics"
)

// Endpoint paths relative to the API base URL.
const (
	PathEntities    = "/api/entities/search"
	PathBirth       = "/api/statistics/birth/search"
	PathDeath       = "/api/statistics/death/search"
	PathEntityTypes = "/api/statistics/entity_type/search"
	PathOccupations = "/api/statistics/occupations/search"
)

const maxErrorBody = 4 << 10

// Compile-time check: Client is the full entity API.
var _ domain.EntityAPI = (*Client)(nil)

// Config holds the upstream client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
	UserAgent string
	Logger    *zap.Logger
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client calls the entity API.
type Client struct {
	base      *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *zap.Logger
}

// NewClient creates an entity API client.
func NewClient(cfg *Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		base:      base,
		http:      httpClient,
		limiter:   limiter,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// SearchEntities runs the paginated entity search.
func (c *Client) SearchEntities(ctx context.Context, p params.Params) (result.Page, error) {
	var page result.Page
	if err := c.get(ctx, "entities", PathEntities, p.Values(), &page); err != nil {
		return result.Page{}, err
	}
	if page.Results == nil {
		page.Results = []result.Entity{}
	}
	return page, nil
}

// DateHistogram returns the birth or death date distribution.
func (c *Client) DateHistogram(
	ctx context.Context, event constraint.Event, p params.Params,
) (statistics.Histogram, error) {
	var name, path string
	switch event {
	case constraint.EventBirth:
		name, path = "birth", PathBirth
	case constraint.EventDeath:
		name, path = "death", PathDeath
	default:
		return statistics.Histogram{}, fmt.Errorf("no histogram for event %q: %w", event, domain.ErrInvalidValue)
	}

	var h statistics.Histogram
	if err := c.get(ctx, name, path, p.Unpaged().Values(), &h); err != nil {
		return statistics.Histogram{}, err
	}
	return h, nil
}

type kindBucketsResponse struct {
	Buckets statistics.KindCounts `json:"buckets"`
}

// EntityKinds returns the entity-type distribution.
func (c *Client) EntityKinds(ctx context.Context, p params.Params) (statistics.KindCounts, error) {
	var resp kindBucketsResponse
	if err := c.get(ctx, "entity_type", PathEntityTypes, p.Unpaged().Values(), &resp); err != nil {
		return nil, err
	}
	return resp.Buckets, nil
}

// Occupations returns the occupation tree under the virtual root.
func (c *Client) Occupations(ctx context.Context, p params.Params) (*vocabulary.Node, error) {
	var root vocabulary.Node
	if err := c.get(ctx, "occupations", PathOccupations, p.Unpaged().Values(), &root); err != nil {
		return nil, err
	}
	if root.ID == "" {
		root.ID = vocabulary.RootID
	}
	root.Compact()
	return &root, nil
}

// HealthCheck issues a single-hit search.
func (c *Client) HealthCheck(ctx context.Context) error {
	q := url.Values{params.KeyLimit: []string{"1"}}
	var page result.Page
	if err := c.get(ctx, "health", PathEntities, q, &page); err != nil {
		return fmt.Errorf("entity api: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, dst any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues(endpoint, "rate_wait").Inc()
			return fmt.Errorf("%s: wait for rate limiter: %w: %w", endpoint, domain.ErrRateLimited, err)
		}
	}

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()

	resp, err := c.http.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		metrics.UpstreamErrorsTotal.WithLabelValues(endpoint, "transport").Inc()
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s request: %w", endpoint, err)
		}
		return fmt.Errorf("%s request failed: %w: %w", endpoint, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		metrics.UpstreamErrorsTotal.WithLabelValues(endpoint, "status").Inc()
		return parseAPIError(endpoint, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		metrics.UpstreamErrorsTotal.WithLabelValues(endpoint, "decode").Inc()
		return fmt.Errorf("decode %s response: %w: %w", endpoint, domain.ErrUpstream, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	c.logger.Debug("Entity API request",
		zap.String("endpoint", endpoint),
		zap.Duration("duration", duration),
	)
	return nil
}

// parseAPIError maps a non-2xx response to a domain error. 429 is also ErrRateLimited.
func parseAPIError(endpoint string, resp *http.Response) error {
	statusErr := domain.NewUpstreamStatus(endpoint, resp.StatusCode)

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := extractDetail(body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, statusErr)
	}
	if detail != "" {
		return fmt.Errorf("%s: %w", detail, statusErr)
	}
	return statusErr
}

// extractDetail reads the "detail" field of a FastAPI-style JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

package visualquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/query"
	"github.com/intavia/visualquery/internal/domain/search/result"
	"github.com/intavia/visualquery/internal/domain/statistics"
	"github.com/intavia/visualquery/internal/domain/vocabulary"
	"github.com/intavia/visualquery/internal/transport/intavia"
)

const defaultTimeout = 15 * time.Second

// Result types returned by the Client.
type (
	Page       = result.Page
	Entity     = result.Entity
	Histogram  = statistics.Histogram
	KindCounts = statistics.KindCounts
	Vocabulary = vocabulary.Node
)

// Client runs queries against an entity API.
type Client struct {
	api *intavia.Client
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout, userAgent: "visualquery-go"}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.baseURL == "" {
		return nil, errors.New("visualquery: base url required (use WithBaseURL)")
	}

	api, err := intavia.NewClient(&intavia.Config{
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		RateLimit:  cfg.rate,
		Burst:      cfg.burst,
		UserAgent:  cfg.userAgent,
		Logger:     cfg.logger,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("visualquery: %w", err)
	}
	return &Client{api: api}, nil
}

// Ping checks entity API availability.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.api.HealthCheck(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns the first result page of q.
func (c *Client) Search(ctx context.Context, q *Builder) (Page, error) {
	p, err := q.Params()
	if err != nil {
		return Page{}, err
	}
	page, err := c.api.SearchEntities(ctx, p)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return page, nil
}

// BirthHistogram returns the birth date distribution of q's other filters.
func (c *Client) BirthHistogram(ctx context.Context, q *Builder) (Histogram, error) {
	return c.histogram(ctx, q, constraint.IDDateOfBirth, constraint.EventBirth)
}

// DeathHistogram returns the death date distribution of q's other filters.
func (c *Client) DeathHistogram(ctx context.Context, q *Builder) (Histogram, error) {
	return c.histogram(ctx, q, constraint.IDDateOfDeath, constraint.EventDeath)
}

func (c *Client) histogram(ctx context.Context, q *Builder, id constraint.ID, e constraint.Event) (Histogram, error) {
	s, err := q.State()
	if err != nil {
		return Histogram{}, err
	}
	p := query.CompileExcept(s.Constraints(), id, 0)
	h, err := c.api.DateHistogram(ctx, e, p)
	if err != nil {
		return Histogram{}, fmt.Errorf("%s histogram: %w", e, err)
	}
	return h, nil
}

// EntityKinds returns the entity-type distribution of q's other filters.
func (c *Client) EntityKinds(ctx context.Context, q *Builder) (KindCounts, error) {
	s, err := q.State()
	if err != nil {
		return nil, err
	}
	counts, err := c.api.EntityKinds(ctx, query.CompileExcept(s.Constraints(), constraint.IDEntityKind, 0))
	if err != nil {
		return nil, fmt.Errorf("entity kinds: %w", err)
	}
	return counts, nil
}

// Occupations returns the occupation tree of q's other filters.
func (c *Client) Occupations(ctx context.Context, q *Builder) (*Vocabulary, error) {
	s, err := q.State()
	if err != nil {
		return nil, err
	}
	tree, err := c.api.Occupations(ctx, query.CompileExcept(s.Constraints(), constraint.IDOccupation, 0))
	if err != nil {
		return nil, fmt.Errorf("occupations: %w", err)
	}
	return tree, nil
}

// Package navigation turns a compiled query into the front-end search location
// and optionally runs the search.
package navigation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/domain/search/params"
	"github.com/intavia/visualquery/internal/domain/search/result"
)

// SearchPath is the front-end route showing search results.
const SearchPath = "/search"

// Service builds search locations.
type Service struct {
	baseURL  string
	searcher Searcher
	logger   *zap.Logger
}

// New creates a navigation service. With a nil searcher only the URL is built.
func New(baseURL string, searcher Searcher, logger *zap.Logger) *Service {
	return &Service{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		searcher: searcher,
		logger:   logger,
	}
}

// URL returns the search location for p.
func (s *Service) URL(p params.Params) string {
	q := p.Encode()
	if q == "" {
		return s.baseURL + SearchPath
	}
	return s.baseURL + SearchPath + "?" + q
}

// Navigate resolves p into a navigation. The URL is set even when the search fails.
func (s *Service) Navigate(ctx context.Context, p params.Params) (result.Navigation, error) {
	nav := result.Navigation{URL: s.URL(p), Params: p}
	if s.searcher == nil {
		return nav, nil
	}

	page, err := s.searcher.SearchEntities(ctx, p)
	if err != nil {
		return nav, fmt.Errorf("search entities: %w", err)
	}
	nav.Page = &page

	s.logger.Debug("Navigation resolved",
		zap.String("url", nav.URL),
		zap.Int("count", page.Count),
	)
	return nav, nil
}

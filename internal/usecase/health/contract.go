package health

import "context"

// CachePinger checks cache database availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks entity API availability.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}

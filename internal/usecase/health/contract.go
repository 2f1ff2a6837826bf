package health

import "context"

// EngineChecker checks morphological engine availability.
type EngineChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

package ports

import "context"

// HealthChecker probes one dependency (database, Redis, the LRU cache) for
// the /health endpoint. Check returns nil when the dependency can serve.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

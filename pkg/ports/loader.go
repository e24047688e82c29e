package ports

import (
	"context"

	"github.com/aretw0/questline/pkg/domain"
)

// ScenarioLoader reconstructs the authored facts of a scenario from some source
// (YAML documents, a Loam repository, code).
type ScenarioLoader interface {
	// Load returns every fact of the scenario. The pointer is never part of the result.
	Load(ctx context.Context) ([]domain.Fact, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying scenario changes.
	Watch(ctx context.Context) (<-chan string, error)
}

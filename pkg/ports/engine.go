package ports

import (
	"github.com/aretw0/questline/pkg/domain"
)

// Driver is the surface adapters (HTTP, MCP, CLI) use to advance a traversal.
// Implementations are not safe for concurrent use; adapters serialise calls.
type Driver interface {
	// CurrentState returns the state under the pointer, or nil before the first step.
	CurrentState() (domain.State, error)

	// Pointer returns the traversal cursor.
	Pointer() (domain.Pointer, error)

	// IsProcessed reports whether traversal rests on a terminal Finish.
	IsProcessed() (bool, error)

	// CanDoStep reports whether the next Step is admissible.
	CanDoStep() (bool, error)

	// Step applies exactly one transition.
	Step() error

	// StepUntilCan steps while CanDoStep holds and returns the number of steps taken.
	StepUntilCan() (int, error)

	// NearestChoice looks ahead for the next Choice without mutating anything.
	NearestChoice() (*domain.ChoicePoint, error)

	// Choose records a resolution of choice and reconciles the pointer.
	Choose(choice, option string) error

	// Facts exposes the driven store for inspection.
	Facts() domain.FactReader
}

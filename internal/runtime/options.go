package runtime

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/questline/pkg/domain"
)

// DefaultMaxSteps bounds StepUntilCan on graphs whose jumps form an unguarded loop.
const DefaultMaxSteps = 10000

// MachineOption defines a functional option for configuring the Machine.
type MachineOption func(*Machine)

// WithLifecycleHooks registers the notification sinks fired on state entry and jump start/end.
func WithLifecycleHooks(hooks domain.LifecycleHooks) MachineOption {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the machine.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithChooser sets the function used to pick among n > 1 eligible jumps.
// It must return an index in [0, n).
func WithChooser(choose func(n int) int) MachineOption {
	return func(m *Machine) {
		if choose != nil {
			m.choose = choose
		}
	}
}

// WithRand picks among eligible jumps using r, which makes traversal reproducible for a fixed seed.
func WithRand(r *rand.Rand) MachineOption {
	return func(m *Machine) {
		if r != nil {
			m.choose = r.IntN
		}
	}
}

// WithMaxSteps overrides DefaultMaxSteps. Values below 1 are ignored.
func WithMaxSteps(n int) MachineOption {
	return func(m *Machine) {
		if n > 0 {
			m.maxSteps = n
		}
	}
}

package questline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/questline/internal/runtime"
	loamAdapter "github.com/aretw0/questline/pkg/adapters/loam"
	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/knowledge"
	"github.com/aretw0/questline/pkg/ports"
	"github.com/aretw0/questline/pkg/scenario"
)

// Version is the release of the questline library and CLI.
var Version = "0.1.0"

// ErrAlreadyChosen is returned by Choose when the choice already has a different resolution.
var ErrAlreadyChosen = errors.New("choice already resolved")

// Engine is the high-level entry point for the questline library.
// It owns a knowledge base loaded from a scenario and the machine that drives its pointer.
// An Engine is not safe for concurrent use.
type Engine struct {
	// ID identifies this run in logs.
	ID   string
	Name string

	kb          *knowledge.Base
	machine     *runtime.Machine
	loader      ports.ScenarioLoader
	hooks       domain.LifecycleHooks
	machineOpts []runtime.MachineOption
	logger      *slog.Logger
}

var _ ports.Driver = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom ScenarioLoader, bypassing path based loader selection.
func WithLoader(l ports.ScenarioLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSeed makes the choice between several available jumps reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.machineOpts = append(e.machineOpts, runtime.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
}

// WithChooser sets the function used to pick among n > 1 available jumps.
func WithChooser(choose func(n int) int) Option {
	return func(e *Engine) {
		e.machineOpts = append(e.machineOpts, runtime.WithChooser(choose))
	}
}

// WithMaxSteps bounds StepUntilCan.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.machineOpts = append(e.machineOpts, runtime.WithMaxSteps(n))
	}
}

// New loads a scenario and prepares a traversal over it.
// A path ending in .yaml or .yml is read as a single scenario document; any other
// path is opened as a Loam repository of state documents.
// If WithLoader is provided, path only names the engine and may be empty.
// The loaded facts must pass every restriction they declare.
func New(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	eng := &Engine{ID: uuid.NewString()}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if eng.loader == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no custom loader is provided")
		}
		loader, err := openLoader(path, eng.logger)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	}
	if path != "" {
		eng.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	eng.logger = eng.logger.With("run", eng.ID)
	if eng.Name != "" {
		eng.logger = eng.logger.With("scenario", eng.Name)
	}

	kb, err := eng.load(ctx)
	if err != nil {
		return nil, err
	}
	eng.use(kb)
	eng.logger.Debug("engine ready", "facts", kb.Len())
	return eng, nil
}

func openLoader(path string, logger *slog.Logger) (ports.ScenarioLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return scenario.FileLoader{Path: path}, nil
	}
	if info, err := os.Stat(path); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a scenario directory or yaml document", path)
	}
	return loamAdapter.Open(path, loamAdapter.WithLogger(logger))
}

func (e *Engine) load(ctx context.Context) (*knowledge.Base, error) {
	facts, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}

	kb := knowledge.New(knowledge.WithLogger(e.logger))
	if err := kb.Add(facts); err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	if err := kb.ValidateConsistency(); err != nil {
		return nil, err
	}
	return kb, nil
}

func (e *Engine) use(kb *knowledge.Base) {
	opts := append([]runtime.MachineOption{
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	}, e.machineOpts...)

	e.kb = kb
	e.machine = runtime.NewMachine(kb, opts...)
}

// Pointer returns the traversal cursor, creating it on first use.
func (e *Engine) Pointer() (domain.Pointer, error) { return e.machine.Pointer() }

// CurrentState returns the state under the pointer, or nil before the first step.
func (e *Engine) CurrentState() (domain.State, error) { return e.machine.CurrentState() }

// NextState returns the destination of the in-progress jump, or nil.
func (e *Engine) NextState() (domain.State, error) { return e.machine.NextState() }

// StartState returns the unique entry state of the scenario.
func (e *Engine) StartState() (domain.State, error) { return e.machine.StartState() }

// IsProcessed reports whether traversal rests on a terminal Finish.
func (e *Engine) IsProcessed() (bool, error) { return e.machine.IsProcessed() }

// CanDoStep reports whether the next Step is admissible.
func (e *Engine) CanDoStep() (bool, error) { return e.machine.CanDoStep() }

// AvailableJumps lists the jumps the machine may take out of state.
func (e *Engine) AvailableJumps(state domain.State) ([]domain.Edge, error) {
	return e.machine.AvailableJumps(state)
}

// Step applies exactly one transition.
func (e *Engine) Step() error { return e.machine.Step() }

// StepUntilCan steps while CanDoStep holds and returns the number of steps taken.
func (e *Engine) StepUntilCan() (int, error) { return e.machine.StepUntilCan() }

// NearestChoice looks ahead for the next Choice without mutating anything.
func (e *Engine) NearestChoice() (*domain.ChoicePoint, error) { return e.machine.NearestChoice() }

// SyncPointer reconciles the in-progress jump with the current facts.
func (e *Engine) SyncPointer() error { return e.machine.SyncPointer() }

// Choose records a ChoicePath resolving choice with option.
// When the pointer already rests on that choice, it is synced so the next step follows option.
// Choosing the recorded option again is a no-op.
func (e *Engine) Choose(choice, option string) error {
	c, err := e.kb.Get(choice)
	if err != nil {
		return err
	}
	if !c.Kind().Is(domain.KindChoice) {
		return &domain.WrongFactTypeError{Value: c}
	}
	o, err := e.kb.Get(option)
	if err != nil {
		return err
	}
	opt, ok := o.(domain.Option)
	if !ok {
		return &domain.WrongFactTypeError{Value: o}
	}
	if opt.From() != choice {
		return fmt.Errorf("option %q does not leave choice %q", option, choice)
	}

	for p := range knowledge.Of[domain.ChoicePath](e.kb, domain.KindChoicePath) {
		if p.Choice != choice {
			continue
		}
		if p.Option == option {
			return nil
		}
		return fmt.Errorf("%w: %s -> %s", ErrAlreadyChosen, choice, p.Option)
	}

	if err := e.kb.Add(domain.NewChoicePath(choice, option)); err != nil {
		return err
	}
	e.logger.Debug("choice recorded", "choice", choice, "option", option)

	current, err := e.machine.CurrentState()
	if err != nil {
		return err
	}
	if current != nil && current.UID() == choice {
		return e.machine.SyncPointer()
	}
	return nil
}

// Validate runs every restriction stored with the scenario.
func (e *Engine) Validate() error { return e.kb.ValidateConsistency() }

// Facts exposes the knowledge base for inspection.
func (e *Engine) Facts() domain.FactReader { return e.kb }

// Reload reads the scenario again and carries the pointer and recorded choices over.
// If the pointer's state or jump no longer exists the traversal restarts.
func (e *Engine) Reload(ctx context.Context) error {
	kb, err := e.load(ctx)
	if err != nil {
		return err
	}

	resolved := make(map[string]struct{})
	for p := range knowledge.Of[domain.ChoicePath](kb, domain.KindChoicePath) {
		resolved[p.Choice] = struct{}{}
	}
	for p := range knowledge.Of[domain.ChoicePath](e.kb, domain.KindChoicePath) {
		if _, ok := resolved[p.Choice]; ok {
			continue
		}
		if kb.Contains(p.Choice) && kb.Contains(p.Option) {
			if err := kb.Add(p); err != nil {
				return err
			}
		}
	}

	if f, ok := e.kb.Lookup(domain.PointerUID); ok {
		p, ok := f.(domain.Pointer)
		if !ok {
			return &domain.WrongFactTypeError{Value: f}
		}
		if (p.State == "" || kb.Contains(p.State)) && (p.Jump == "" || kb.Contains(p.Jump)) {
			if err := kb.Add(p); err != nil {
				return err
			}
		} else {
			e.logger.Warn("pointer dropped on reload", "state", p.State, "jump", p.Jump)
		}
	}

	if err := kb.ValidateConsistency(); err != nil {
		return err
	}

	e.use(kb)
	e.logger.Info("scenario reloaded", "facts", kb.Len())
	return nil
}

// Watch returns a channel that signals when the underlying scenario changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the ScenarioLoader used by the engine.
func (e *Engine) Loader() ports.ScenarioLoader {
	return e.loader
}

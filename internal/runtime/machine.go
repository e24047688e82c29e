package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/knowledge"
	"github.com/aretw0/questline/pkg/ports"
)

// Machine advances the singleton Pointer of a fact store through the authored graph.
// It owns no facts: every call reads the store afresh and the only fact it ever
// writes is the Pointer. A Machine must be driven by a single owner.
type Machine struct {
	kb       ports.FactStore
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	choose   func(n int) int
	maxSteps int
}

// NewMachine creates a machine driving kb.
func NewMachine(kb ports.FactStore, opts ...MachineOption) *Machine {
	m := &Machine{
		kb:       kb,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		choose:   rand.IntN,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Facts returns the driven store.
func (m *Machine) Facts() ports.FactStore {
	return m.kb
}

// Pointer returns the traversal cursor, storing an empty one on first access.
func (m *Machine) Pointer() (domain.Pointer, error) {
	if !m.kb.Contains(domain.PointerUID) {
		if err := m.kb.Add(domain.Pointer{}); err != nil {
			return domain.Pointer{}, err
		}
	}
	return m.peek()
}

// peek reads the pointer without creating it, so queries never write to the store.
func (m *Machine) peek() (domain.Pointer, error) {
	f, ok := m.kb.Lookup(domain.PointerUID)
	if !ok {
		return domain.Pointer{}, nil
	}
	p, ok := f.(domain.Pointer)
	if !ok {
		return domain.Pointer{}, &domain.WrongFactTypeError{Value: f}
	}
	return p, nil
}

// CurrentState returns the state under the pointer, or nil if traversal has not started.
func (m *Machine) CurrentState() (domain.State, error) {
	p, err := m.peek()
	if err != nil {
		return nil, err
	}
	if !p.Started() {
		return nil, nil
	}
	return m.state(p.State)
}

// StartState returns the unique Start that is not the destination of any jump.
func (m *Machine) StartState() (domain.State, error) {
	targets := make(map[string]struct{})
	for e := range knowledge.Of[domain.Edge](m.kb, domain.KindJump) {
		targets[e.To()] = struct{}{}
	}

	var candidates []domain.State
	for _, s := range knowledge.Sorted(knowledge.Of[domain.State](m.kb, domain.KindStart)) {
		if _, ok := targets[s.UID()]; !ok {
			candidates = append(candidates, s)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, &domain.NoStartStateError{}
	case 1:
		return candidates[0], nil
	default:
		uids := make([]string, len(candidates))
		for i, s := range candidates {
			uids[i] = s.UID()
		}
		return nil, &domain.AmbiguousStartStateError{Candidates: uids}
	}
}

// NextState returns the state the next Step would enter: the start state before
// traversal begins, the destination of the in-progress jump, or nil when no jump
// has been selected yet.
func (m *Machine) NextState() (domain.State, error) {
	p, err := m.peek()
	if err != nil {
		return nil, err
	}
	if !p.Started() {
		return m.StartState()
	}
	if !p.InProgress() {
		return nil, nil
	}

	jump, err := m.edge(p.Jump)
	if err != nil {
		return nil, err
	}
	return m.state(jump.To())
}

// IsProcessed reports whether the current state is a Finish with no outgoing jumps.
func (m *Machine) IsProcessed() (bool, error) {
	current, err := m.CurrentState()
	if err != nil {
		return false, err
	}
	if current == nil || !current.Kind().Is(domain.KindFinish) {
		return false, nil
	}
	return !m.hasJumps(current.UID()), nil
}

// CanDoStep reports whether the next Step is admissible. Selecting a jump is
// always admissible; completing one requires the jump's own requirements and
// those of its destination to hold.
func (m *Machine) CanDoStep() (bool, error) {
	processed, err := m.IsProcessed()
	if err != nil || processed {
		return false, err
	}

	p, err := m.peek()
	if err != nil {
		return false, err
	}
	if !p.InProgress() {
		return true, nil
	}

	jump, err := m.edge(p.Jump)
	if err != nil {
		return false, err
	}
	next, err := m.state(jump.To())
	if err != nil {
		return false, err
	}

	return m.satisfied(jump.Requirements()) && m.satisfied(next.Requirements()), nil
}

// AvailableJumps returns the edges that may leave state, ordered by uid.
// For a Choice only the options selected by a ChoicePath qualify, so an
// unresolved Choice has none.
func (m *Machine) AvailableJumps(state domain.State) ([]domain.Edge, error) {
	var jumps []domain.Edge

	if state.Kind().Is(domain.KindChoice) {
		for _, path := range m.choicePaths(state.UID()) {
			jump, err := m.edge(path.Option)
			if err != nil {
				return nil, err
			}
			jumps = append(jumps, jump)
		}
		slices.SortFunc(jumps, func(a, b domain.Edge) int { return strings.Compare(a.UID(), b.UID()) })
		return jumps, nil
	}

	for _, e := range knowledge.Sorted(knowledge.Of[domain.Edge](m.kb, domain.KindJump)) {
		if e.From() == state.UID() {
			jumps = append(jumps, e)
		}
	}
	return jumps, nil
}

// NextJump picks one of the available jumps of state.
// With single set, more than one candidate is an error; otherwise the machine's
// chooser decides.
func (m *Machine) NextJump(state domain.State, single bool) (domain.Edge, error) {
	jumps, err := m.AvailableJumps(state)
	if err != nil {
		return nil, err
	}

	switch {
	case len(jumps) == 0:
		return nil, &domain.NoJumpsAvailableError{State: state.UID()}
	case len(jumps) == 1:
		return jumps[0], nil
	case single:
		return nil, &domain.MoreThanOneJumpsAvailableError{State: state.UID(), Count: len(jumps)}
	}

	i := m.choose(len(jumps))
	if i < 0 || i >= len(jumps) {
		return nil, fmt.Errorf("chooser returned %d for %d jumps", i, len(jumps))
	}
	return jumps[i], nil
}

// NearestChoice walks forward from the current state (or the start state) along
// unambiguous jumps and returns the first Choice met, with all its options and
// recorded resolutions. It returns nil when a Finish, a revisited Start or a
// cycle ends the walk first. Nothing is mutated.
func (m *Machine) NearestChoice() (*domain.ChoicePoint, error) {
	current, err := m.CurrentState()
	if err != nil {
		return nil, err
	}
	if current == nil {
		if current, err = m.StartState(); err != nil {
			return nil, err
		}
	}

	visited := make(map[string]struct{})
	first := true
	for !current.Kind().Is(domain.KindFinish) && (first || !current.Kind().Is(domain.KindStart)) {
		first = false

		if _, seen := visited[current.UID()]; seen {
			return nil, nil
		}
		visited[current.UID()] = struct{}{}

		if current.Kind().Is(domain.KindChoice) {
			return m.choicePoint(current), nil
		}

		jump, err := m.NextJump(current, true)
		if err != nil {
			return nil, err
		}
		if current, err = m.state(jump.To()); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// Step applies exactly one transition: entering the next state when one is
// known, otherwise selecting the single jump out of the current state.
// Hooks fire before the pointer swap is stored.
func (m *Machine) Step() error {
	p, err := m.peek()
	if err != nil {
		return err
	}
	next, err := m.NextState()
	if err != nil {
		return err
	}

	var np domain.Pointer
	if next != nil {
		np = p.Enter(next.UID())
		if p.InProgress() {
			jump, err := m.edge(p.Jump)
			if err != nil {
				return err
			}
			m.logger.Debug("jump ended", "jump", jump.UID(), "to", jump.To())
			m.hooks.JumpEnded(jump)
		}
		m.logger.Debug("state entered", "state", next.UID(), "kind", next.Kind())
		m.hooks.StateEntered(next)
	} else {
		current, err := m.CurrentState()
		if err != nil {
			return err
		}
		if !m.hasJumps(current.UID()) {
			return &domain.NoJumpsFromLastStateError{State: current.UID()}
		}

		jump, err := m.NextJump(current, true)
		if err != nil {
			return err
		}
		np = p.Follow(jump.UID())
		m.logger.Debug("jump started", "jump", jump.UID(), "from", jump.From())
		m.hooks.JumpStarted(jump)
	}

	return m.commit(p, np)
}

// commit stores np in place of p, adding the pointer on the first step.
func (m *Machine) commit(p, np domain.Pointer) error {
	if !m.kb.Contains(domain.PointerUID) {
		if err := m.kb.Add(np); err != nil {
			return fmt.Errorf("failed to store pointer: %w", err)
		}
		return nil
	}
	if err := m.kb.Replace(p, np); err != nil {
		return fmt.Errorf("failed to swap pointer: %w", err)
	}
	return nil
}

// StepUntilCan steps while CanDoStep holds and returns the number of steps applied.
// It stops with *domain.StepLimitError once the configured bound is reached.
func (m *Machine) StepUntilCan() (int, error) {
	steps := 0
	for {
		ok, err := m.CanDoStep()
		if err != nil {
			return steps, err
		}
		if !ok {
			return steps, nil
		}
		if steps >= m.maxSteps {
			return steps, &domain.StepLimitError{Limit: m.maxSteps}
		}
		if err := m.Step(); err != nil {
			return steps, err
		}
		steps++
	}
}

// SyncPointer re-resolves the in-progress jump of the current state and, when it
// differs from the stored one, fires jump-start and swaps the pointer.
// It is how a ChoicePath recorded after the machine reached a Choice takes effect.
func (m *Machine) SyncPointer() error {
	p, err := m.peek()
	if err != nil {
		return err
	}
	current, err := m.CurrentState()
	if err != nil || current == nil {
		return err
	}

	jump, err := m.NextJump(current, true)
	if err != nil {
		return err
	}
	if jump.UID() == p.Jump {
		return nil
	}

	m.logger.Debug("pointer synced", "state", current.UID(), "jump", jump.UID(), "previous", p.Jump)
	m.hooks.JumpStarted(jump)
	if err := m.kb.Replace(p, p.Follow(jump.UID())); err != nil {
		return fmt.Errorf("failed to swap pointer: %w", err)
	}
	return nil
}

func (m *Machine) state(uid string) (domain.State, error) {
	f, err := m.kb.Get(uid)
	if err != nil {
		return nil, err
	}
	s, ok := f.(domain.State)
	if !ok || !f.Kind().Is(domain.KindState) {
		return nil, &domain.WrongFactTypeError{Value: f}
	}
	return s, nil
}

func (m *Machine) edge(uid string) (domain.Edge, error) {
	f, err := m.kb.Get(uid)
	if err != nil {
		return nil, err
	}
	e, ok := f.(domain.Edge)
	if !ok || !f.Kind().Is(domain.KindJump) {
		return nil, &domain.WrongFactTypeError{Value: f}
	}
	return e, nil
}

func (m *Machine) hasJumps(state string) bool {
	for e := range knowledge.Of[domain.Edge](m.kb, domain.KindJump) {
		if e.From() == state {
			return true
		}
	}
	return false
}

func (m *Machine) satisfied(reqs []domain.Requirement) bool {
	for _, r := range reqs {
		if !r.Check(m.kb) {
			return false
		}
	}
	return true
}

func (m *Machine) choicePaths(choice string) []domain.ChoicePath {
	var paths []domain.ChoicePath
	for _, cp := range knowledge.Sorted(knowledge.Of[domain.ChoicePath](m.kb, domain.KindChoicePath)) {
		if cp.Choice == choice {
			paths = append(paths, cp)
		}
	}
	return paths
}

func (m *Machine) choicePoint(choice domain.State) *domain.ChoicePoint {
	point := &domain.ChoicePoint{
		Choice:  choice,
		Options: []domain.Option{},
		Paths:   m.choicePaths(choice.UID()),
	}
	for _, o := range knowledge.Sorted(knowledge.Of[domain.Option](m.kb, domain.KindOption)) {
		if o.From() == choice.UID() {
			point.Options = append(point.Options, o)
		}
	}
	if point.Paths == nil {
		point.Paths = []domain.ChoicePath{}
	}
	return point
}

// Package restrictions provides consistency rules that are stored as facts and run
// by knowledge.Base.ValidateConsistency. Each rule reports its own sentinel, wrapped
// in a *ViolationError naming the offending facts.
package restrictions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/questline/pkg/domain"
)

// Sentinels, one per rule.
var (
	ErrAlwaysError         = errors.New("always error")
	ErrStartState          = errors.New("start state is not unique")
	ErrNoFinishState       = errors.New("no finish state")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrDeadEnd             = errors.New("state without jumps")
	ErrInconsistentChoice  = errors.New("inconsistent choice")
	ErrUnreachableState    = errors.New("unreachable state")
	ErrCycle               = errors.New("cycle")
)

// ViolationError reports which facts broke a restriction.
type ViolationError struct {
	Restriction string
	Facts       []string
	Err         error
}

func (e *ViolationError) Error() string {
	if len(e.Facts) == 0 {
		return fmt.Sprintf("restriction %s: %v", e.Restriction, e.Err)
	}
	return fmt.Sprintf("restriction %s: %v: %s", e.Restriction, e.Err, strings.Join(e.Facts, ", "))
}

func (e *ViolationError) Unwrap() error { return e.Err }

// Rule is the identity shared by every restriction in this package.
type Rule struct {
	ID string `json:"uid"`
}

func (r Rule) UID() string     { return r.ID }
func (Rule) Kind() domain.Kind { return domain.KindRestriction }

func (r Rule) violation(err error, facts ...string) error {
	return &ViolationError{Restriction: r.ID, Facts: facts, Err: err}
}

// AlwaysSuccess never fails.
type AlwaysSuccess struct{ Rule }

func NewAlwaysSuccess(uid string) AlwaysSuccess { return AlwaysSuccess{Rule{ID: uid}} }

func (AlwaysSuccess) Validate(domain.FactReader) error { return nil }

// AlwaysError always fails with ErrAlwaysError.
type AlwaysError struct{ Rule }

func NewAlwaysError(uid string) AlwaysError { return AlwaysError{Rule{ID: uid}} }

func (r AlwaysError) Validate(domain.FactReader) error { return r.violation(ErrAlwaysError) }

// SingleStartState requires exactly one Start that no jump leads into.
type SingleStartState struct{ Rule }

func (r SingleStartState) Validate(kb domain.FactReader) error {
	g := load(kb)
	var roots []string
	for _, uid := range g.order {
		if g.states[uid].Kind().Is(domain.KindStart) && g.incoming[uid] == 0 {
			roots = append(roots, uid)
		}
	}
	if len(roots) != 1 {
		return r.violation(ErrStartState, roots...)
	}
	return nil
}

// FinishStateExists requires at least one Finish.
type FinishStateExists struct{ Rule }

func (r FinishStateExists) Validate(kb domain.FactReader) error {
	for range kb.Filter(domain.KindFinish) {
		return nil
	}
	return r.violation(ErrNoFinishState)
}

// ReferencesResolved requires every jump to connect two states and every
// ChoicePath to bind a Choice to one of its own Options.
type ReferencesResolved struct{ Rule }

func (r ReferencesResolved) Validate(kb domain.FactReader) error {
	g := load(kb)
	var broken []string
	for _, e := range g.edges {
		if _, ok := g.states[e.From()]; !ok {
			broken = append(broken, e.UID())
			continue
		}
		if _, ok := g.states[e.To()]; !ok {
			broken = append(broken, e.UID())
		}
	}
	for _, cp := range g.paths {
		choice, ok := g.states[cp.Choice]
		if !ok || !choice.Kind().Is(domain.KindChoice) {
			broken = append(broken, cp.UID())
			continue
		}
		f, ok := kb.Lookup(cp.Option)
		option, isOption := f.(domain.Edge)
		if !ok || !isOption || !f.Kind().Is(domain.KindOption) || option.From() != cp.Choice {
			broken = append(broken, cp.UID())
		}
	}
	if len(broken) > 0 {
		return r.violation(ErrUnresolvedReference, broken...)
	}
	return nil
}

// AllStatesHaveJumps requires every state other than a Finish to have an outgoing edge.
type AllStatesHaveJumps struct{ Rule }

func (r AllStatesHaveJumps) Validate(kb domain.FactReader) error {
	g := load(kb)
	var dead []string
	for _, uid := range g.order {
		if g.states[uid].Kind().Is(domain.KindFinish) {
			continue
		}
		if len(g.outgoing[uid]) == 0 {
			dead = append(dead, uid)
		}
	}
	if len(dead) > 0 {
		return r.violation(ErrDeadEnd, dead...)
	}
	return nil
}

// ChoicesConsistency requires Options to leave Choices only, plain Jumps never to
// leave a Choice, and every Choice to offer at least one Option and to be
// resolved by at most one ChoicePath.
type ChoicesConsistency struct{ Rule }

func (r ChoicesConsistency) Validate(kb domain.FactReader) error {
	g := load(kb)
	var bad []string

	options := make(map[string]int)
	for _, e := range g.edges {
		from, ok := g.states[e.From()]
		if !ok {
			continue
		}
		isChoice := from.Kind().Is(domain.KindChoice)
		isOption := e.Kind().Is(domain.KindOption)
		if isChoice != isOption {
			bad = append(bad, e.UID())
		}
		if isChoice && isOption {
			options[e.From()]++
		}
	}

	resolutions := make(map[string]int)
	for _, cp := range g.paths {
		resolutions[cp.Choice]++
	}

	for _, uid := range g.order {
		if !g.states[uid].Kind().Is(domain.KindChoice) {
			continue
		}
		if options[uid] == 0 || resolutions[uid] > 1 {
			bad = append(bad, uid)
		}
	}

	if len(bad) > 0 {
		return r.violation(ErrInconsistentChoice, bad...)
	}
	return nil
}

// ConnectedStateGraph requires every state to be reachable from some Start.
type ConnectedStateGraph struct{ Rule }

func (r ConnectedStateGraph) Validate(kb domain.FactReader) error {
	g := load(kb)

	visited := make(map[string]bool)
	var queue []string
	for _, uid := range g.order {
		if g.states[uid].Kind().Is(domain.KindStart) {
			queue = append(queue, uid)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, next := range g.outgoing[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	var unreachable []string
	for _, uid := range g.order {
		if !visited[uid] {
			unreachable = append(unreachable, uid)
		}
	}
	if len(unreachable) > 0 {
		return r.violation(ErrUnreachableState, unreachable...)
	}
	return nil
}

// NoCycles forbids any loop between states. Not part of Standard.
type NoCycles struct{ Rule }

func (r NoCycles) Validate(kb domain.FactReader) error {
	g := load(kb)

	const (
		unvisited = iota
		active
		done
	)
	color := make(map[string]int)
	var stack []string

	var visit func(uid string) []string
	visit = func(uid string) []string {
		color[uid] = active
		stack = append(stack, uid)
		for _, next := range g.outgoing[uid] {
			switch color[next] {
			case active:
				for i, s := range stack {
					if s == next {
						return append(append([]string{}, stack[i:]...), next)
					}
				}
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[uid] = done
		return nil
	}

	for _, uid := range g.order {
		if color[uid] != unvisited {
			continue
		}
		if cycle := visit(uid); cycle != nil {
			return r.violation(ErrCycle, cycle...)
		}
	}
	return nil
}

// Standard returns the rules a well-formed scenario is expected to satisfy.
func Standard() []domain.Fact {
	return []domain.Fact{
		SingleStartState{Rule{ID: "restriction/single_start_state"}},
		FinishStateExists{Rule{ID: "restriction/finish_state_exists"}},
		ReferencesResolved{Rule{ID: "restriction/references_resolved"}},
		AllStatesHaveJumps{Rule{ID: "restriction/all_states_have_jumps"}},
		ChoicesConsistency{Rule{ID: "restriction/choices_consistency"}},
		ConnectedStateGraph{Rule{ID: "restriction/connected_state_graph"}},
	}
}

// New returns the restriction registered under name, for scenario documents.
func New(name, uid string) (domain.Restriction, error) {
	rule := Rule{ID: uid}
	switch name {
	case "always_success":
		return AlwaysSuccess{rule}, nil
	case "always_error":
		return AlwaysError{rule}, nil
	case "single_start_state":
		return SingleStartState{rule}, nil
	case "finish_state_exists":
		return FinishStateExists{rule}, nil
	case "references_resolved":
		return ReferencesResolved{rule}, nil
	case "all_states_have_jumps":
		return AllStatesHaveJumps{rule}, nil
	case "choices_consistency":
		return ChoicesConsistency{rule}, nil
	case "connected_state_graph":
		return ConnectedStateGraph{rule}, nil
	case "no_cycles":
		return NoCycles{rule}, nil
	}
	return nil, fmt.Errorf("unknown restriction %q", name)
}

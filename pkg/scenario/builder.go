package scenario

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/questline/pkg/domain"
)

// Builder manages scenario construction in code.
type Builder struct {
	states map[string]*StateBuilder
	order  []string
	extra  []domain.Fact
}

// New creates a new scenario builder.
func New() *Builder {
	return &Builder{
		states: make(map[string]*StateBuilder),
	}
}

// Start adds a start state.
func (b *Builder) Start(uid string) *StateBuilder { return b.add(uid, TypeStart) }

// Finish adds a finish state.
func (b *Builder) Finish(uid string) *StateBuilder { return b.add(uid, TypeFinish) }

// Choice adds a branch point.
func (b *Builder) Choice(uid string) *StateBuilder { return b.add(uid, TypeChoice) }

// Node adds a plain state.
func (b *Builder) Node(uid string) *StateBuilder { return b.add(uid, TypeNode) }

// Fact adds content facts or restrictions as-is.
func (b *Builder) Fact(facts ...domain.Fact) *Builder {
	b.extra = append(b.extra, facts...)
	return b
}

// add creates a state, or returns the existing builder if uid was already added.
func (b *Builder) add(uid, typ string) *StateBuilder {
	if sb, ok := b.states[uid]; ok {
		return sb
	}
	sb := &StateBuilder{typ: typ, node: domain.Node{ID: uid}, builder: b}
	b.states[uid] = sb
	b.order = append(b.order, uid)
	return sb
}

// Build compiles the scenario into facts, ordered by state declaration.
func (b *Builder) Build() ([]domain.Fact, error) {
	var facts []domain.Fact
	for _, uid := range b.order {
		sf, err := b.states[uid].facts()
		if err != nil {
			return nil, err
		}
		facts = append(facts, sf...)
	}
	facts = append(facts, b.extra...)

	seen := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		if _, ok := seen[f.UID()]; ok {
			return nil, &domain.DuplicatedFactError{UID: f.UID()}
		}
		seen[f.UID()] = struct{}{}
	}
	return facts, nil
}

// Load implements ports.ScenarioLoader.
func (b *Builder) Load(context.Context) ([]domain.Fact, error) {
	return b.Build()
}

// StateBuilder provides a fluent API for configuring a state and its outgoing edges.
type StateBuilder struct {
	typ     string
	node    domain.Node
	jumps   []domain.Jump
	options []domain.Option
	def     string
	builder *Builder
}

// Describe sets the text shown when the state is entered.
func (s *StateBuilder) Describe(text string) *StateBuilder {
	s.node.Description = strings.TrimSpace(text)
	return s
}

// Tag names the flavour of the state.
func (s *StateBuilder) Tag(tag string) *StateBuilder {
	s.node.Tag = tag
	return s
}

// Require gates entry into the state.
func (s *StateBuilder) Require(reqs ...domain.Requirement) *StateBuilder {
	s.node.Require = append(s.node.Require, reqs...)
	return s
}

// Go adds a jump to target, gated by reqs.
func (s *StateBuilder) Go(target string, reqs ...domain.Requirement) *StateBuilder {
	s.jumps = append(s.jumps, domain.NewJump(JumpUID(s.node.ID, target), s.node.ID, target, reqs...))
	return s
}

// Option adds a candidate branch. Only meaningful on a Choice.
func (s *StateBuilder) Option(uid, target, label string, reqs ...domain.Requirement) *StateBuilder {
	o := domain.NewOption(uid, s.node.ID, target, reqs...)
	o.Label = label
	s.options = append(s.options, o)
	return s
}

// Default records a ChoicePath selecting option.
func (s *StateBuilder) Default(option string) *StateBuilder {
	s.def = option
	return s
}

// Done returns the owning builder to continue chaining.
func (s *StateBuilder) Done() *Builder {
	return s.builder
}

func (s *StateBuilder) facts() ([]domain.Fact, error) {
	var facts []domain.Fact
	switch s.typ {
	case TypeStart:
		facts = append(facts, domain.Start{Node: s.node})
	case TypeFinish:
		facts = append(facts, domain.Finish{Node: s.node})
	case TypeChoice:
		facts = append(facts, domain.Choice{Node: s.node})
	default:
		facts = append(facts, s.node)
	}

	for _, j := range s.jumps {
		facts = append(facts, j)
	}
	for _, o := range s.options {
		facts = append(facts, o)
	}

	if s.def != "" {
		if !slices.ContainsFunc(s.options, func(o domain.Option) bool { return o.ID == s.def }) {
			return nil, fmt.Errorf("state %s: default %q is not one of its options", s.node.ID, s.def)
		}
		facts = append(facts, domain.NewChoicePath(s.node.ID, s.def))
	}
	return facts, nil
}

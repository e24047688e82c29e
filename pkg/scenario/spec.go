package scenario

import (
	"fmt"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/restrictions"
)

// State types accepted in documents.
const (
	TypeNode   = "node"
	TypeStart  = "start"
	TypeFinish = "finish"
	TypeChoice = "choice"
)

// Document is a whole scenario file.
type Document struct {
	Name         string       `json:"name" mapstructure:"name"`
	Restrictions []string     `json:"restrictions" mapstructure:"restrictions"`
	States       []StateSpec  `json:"states" mapstructure:"states" validate:"dive"`
	Entities     []EntitySpec `json:"facts" mapstructure:"facts" validate:"dive"`
}

// StateSpec describes one state together with the edges leaving it.
// It uses "mapstructure" tags so the same shape decodes from YAML files and from
// document frontmatter.
type StateSpec struct {
	UID         string     `json:"uid" mapstructure:"uid" validate:"required"`
	Type        string     `json:"type" mapstructure:"type" validate:"omitempty,oneof=node start finish choice"`
	Tag         string     `json:"tag" mapstructure:"tag"`
	Description string     `json:"description" mapstructure:"description"`
	Require     []any      `json:"require" mapstructure:"require"`
	Jumps       []JumpSpec `json:"jumps" mapstructure:"jumps" validate:"dive"`
	Options     []JumpSpec `json:"options" mapstructure:"options" validate:"dive"`

	// Default records a ChoicePath selecting this option up front.
	Default string `json:"default" mapstructure:"default"`
}

// JumpSpec is an edge leaving the enclosing state.
// Without a uid, one is derived from both ends.
type JumpSpec struct {
	UID     string `json:"uid" mapstructure:"uid"`
	To      string `json:"to" mapstructure:"to" validate:"required"`
	Label   string `json:"label" mapstructure:"label"`
	Require []any  `json:"require" mapstructure:"require"`
}

// EntitySpec is a content fact.
type EntitySpec struct {
	UID        string         `json:"uid" mapstructure:"uid" validate:"required"`
	Kind       string         `json:"kind" mapstructure:"kind"`
	Attributes map[string]any `json:"attributes" mapstructure:"attributes"`
}

// JumpUID derives the uid of an unnamed edge.
func JumpUID(from, to string) string {
	return from + "->" + to
}

// Facts converts the document into facts ready for a knowledge base.
func (d *Document) Facts() ([]domain.Fact, error) {
	var facts []domain.Fact
	for _, s := range d.States {
		sf, err := s.Facts()
		if err != nil {
			return nil, err
		}
		facts = append(facts, sf...)
	}
	for _, e := range d.Entities {
		facts = append(facts, e.Fact())
	}

	rs, err := RestrictionFacts(d.Restrictions)
	if err != nil {
		return nil, err
	}
	return append(facts, rs...), nil
}

// Facts returns the state, its jumps and options, and its default ChoicePath.
func (s StateSpec) Facts() ([]domain.Fact, error) {
	require, err := ParseRequirements(s.Require)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", s.UID, err)
	}

	node := domain.Node{ID: s.UID, Tag: s.Tag, Description: s.Description, Require: require}
	var facts []domain.Fact
	switch s.Type {
	case "", TypeNode:
		facts = append(facts, node)
	case TypeStart:
		facts = append(facts, domain.Start{Node: node})
	case TypeFinish:
		facts = append(facts, domain.Finish{Node: node})
	case TypeChoice:
		facts = append(facts, domain.Choice{Node: node})
	default:
		return nil, fmt.Errorf("state %s: unknown type %q", s.UID, s.Type)
	}

	for _, j := range s.Jumps {
		jump, err := j.jump(s.UID)
		if err != nil {
			return nil, err
		}
		facts = append(facts, jump)
	}

	defaultFound := false
	for _, o := range s.Options {
		jump, err := o.jump(s.UID)
		if err != nil {
			return nil, err
		}
		facts = append(facts, domain.Option{Jump: jump, Label: o.Label})
		defaultFound = defaultFound || jump.ID == s.Default
	}

	if s.Default != "" {
		if !defaultFound {
			return nil, fmt.Errorf("state %s: default %q is not one of its options", s.UID, s.Default)
		}
		facts = append(facts, domain.NewChoicePath(s.UID, s.Default))
	}
	return facts, nil
}

func (j JumpSpec) jump(from string) (domain.Jump, error) {
	require, err := ParseRequirements(j.Require)
	if err != nil {
		return domain.Jump{}, fmt.Errorf("jump %s -> %s: %w", from, j.To, err)
	}
	uid := j.UID
	if uid == "" {
		uid = JumpUID(from, j.To)
	}
	return domain.NewJump(uid, from, j.To, require...), nil
}

// Fact converts the spec into a domain.Entity.
func (e EntitySpec) Fact() domain.Entity {
	return domain.Entity{ID: e.UID, Type: domain.Kind(e.Kind), Attributes: e.Attributes}
}

// RestrictionFacts resolves restriction names; "standard" expands to restrictions.Standard.
func RestrictionFacts(names []string) ([]domain.Fact, error) {
	var facts []domain.Fact
	for _, name := range names {
		if name == "standard" {
			facts = append(facts, restrictions.Standard()...)
			continue
		}
		r, err := restrictions.New(name, "restriction/"+name)
		if err != nil {
			return nil, err
		}
		facts = append(facts, r)
	}
	return facts, nil
}

package domain

import "iter"

// Fact is the atomic unit of state stored in a knowledge base.
// Facts are immutable values identified by a uid that is unique within one store.
type Fact interface {
	UID() string
	Kind() Kind
}

// FactReader is the read-only view of a fact store.
// Requirements and restrictions are checked against it.
type FactReader interface {
	// Get returns the fact with the given uid or a *NoFactError.
	Get(uid string) (Fact, error)

	// Lookup is the non-failing variant of Get.
	Lookup(uid string) (Fact, bool)

	// Contains reports whether a fact with the given uid is stored.
	Contains(uid string) bool

	// Filter yields every stored fact whose kind is kind or one of its subtypes.
	// Iteration order is unspecified.
	Filter(kind Kind) iter.Seq[Fact]
}

// Requirement is a predicate gating whether a state may be entered
// or a jump may be completed.
type Requirement interface {
	Check(kb FactReader) bool
}

// Restriction is a global consistency rule stored as a fact.
// Validate returns nil when the rule holds, or a restriction-specific error.
type Restriction interface {
	Fact
	Validate(kb FactReader) error
}

// Entity is a generic content fact (actors, places, flavour) supplied by scenario authors.
// The engine never interprets it; requirements may test for its presence.
type Entity struct {
	ID         string         `json:"uid"`
	Type       Kind           `json:"kind"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (e Entity) UID() string { return e.ID }

func (e Entity) Kind() Kind {
	if e.Type == "" {
		return KindFact
	}
	return e.Type
}

// Package requirements provides the stock predicates that gate entry into states
// and completion of jumps. Every predicate is a pure function of the fact store,
// so the machine may check it any number of times.
package requirements

import (
	"fmt"
	"strings"

	"github.com/aretw0/questline/pkg/domain"
)

// Exists holds when a fact with UID is stored.
type Exists struct {
	UID string
}

func (r Exists) Check(kb domain.FactReader) bool { return kb.Contains(r.UID) }

func (r Exists) String() string { return fmt.Sprintf("exists(%s)", r.UID) }

// Missing holds when no fact with UID is stored.
type Missing struct {
	UID string
}

func (r Missing) Check(kb domain.FactReader) bool { return !kb.Contains(r.UID) }

func (r Missing) String() string { return fmt.Sprintf("missing(%s)", r.UID) }

// KindCount holds when at least Min facts of Kind (or its subtypes) are stored.
type KindCount struct {
	Kind domain.Kind
	Min  int
}

func (r KindCount) Check(kb domain.FactReader) bool {
	n := 0
	for range kb.Filter(r.Kind) {
		n++
		if n >= r.Min {
			return true
		}
	}
	return n >= r.Min
}

func (r KindCount) String() string { return fmt.Sprintf("count(%s)>=%d", r.Kind, r.Min) }

// All holds when every member holds. An empty All holds.
type All []domain.Requirement

func (r All) Check(kb domain.FactReader) bool {
	for _, req := range r {
		if !req.Check(kb) {
			return false
		}
	}
	return true
}

func (r All) String() string { return join("all", r) }

// Any holds when at least one member holds. An empty Any never holds.
type Any []domain.Requirement

func (r Any) Check(kb domain.FactReader) bool {
	for _, req := range r {
		if req.Check(kb) {
			return true
		}
	}
	return false
}

func (r Any) String() string { return join("any", r) }

// Not inverts a requirement.
type Not struct {
	Requirement domain.Requirement
}

func (r Not) Check(kb domain.FactReader) bool { return !r.Requirement.Check(kb) }

func (r Not) String() string { return fmt.Sprintf("not(%s)", Describe(r.Requirement)) }

// Func adapts an ordinary function to a Requirement.
type Func func(kb domain.FactReader) bool

func (f Func) Check(kb domain.FactReader) bool { return f(kb) }

// Describe renders a requirement for graphs and logs.
func Describe(r domain.Requirement) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", r)
}

func join(name string, reqs []domain.Requirement) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		parts[i] = Describe(r)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

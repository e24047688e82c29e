package domain

// Edge is a directed connection between two states.
// Both Jump and Option implement it; the pointer's in-progress jump may reference either.
type Edge interface {
	Fact
	From() string
	To() string
	Requirements() []Requirement
}

// Jump is a directed edge from StateFrom to StateTo.
type Jump struct {
	ID        string        `json:"uid"`
	StateFrom string        `json:"state_from"`
	StateTo   string        `json:"state_to"`
	Require   []Requirement `json:"-"`
}

func (j Jump) UID() string                 { return j.ID }
func (j Jump) Kind() Kind                  { return KindJump }
func (j Jump) From() string                { return j.StateFrom }
func (j Jump) To() string                  { return j.StateTo }
func (j Jump) Requirements() []Requirement { return j.Require }

// Option is a candidate branch leaving a Choice.
type Option struct {
	Jump

	// Label is the text offered to whoever resolves the choice.
	Label string `json:"label,omitempty"`
}

func (Option) Kind() Kind { return KindOption }

// NewJump creates an edge between two states.
func NewJump(uid, from, to string, require ...Requirement) Jump {
	return Jump{ID: uid, StateFrom: from, StateTo: to, Require: require}
}

// NewOption creates a candidate branch leaving the choice from.
func NewOption(uid, from, to string, require ...Requirement) Option {
	return Option{Jump: NewJump(uid, from, to, require...)}
}

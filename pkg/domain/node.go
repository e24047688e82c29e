package domain

// State is implemented by every fact that can be the pointer's current state:
// Node, Start, Finish and Choice.
type State interface {
	Fact
	Requirements() []Requirement
	Details() Node
}

// Node is a plain state of the graph.
type Node struct {
	ID string `json:"uid"`

	// Tag names a domain-defined flavour of node (e.g. "event", "encounter")
	// without introducing a new variant.
	Tag string `json:"tag,omitempty"`

	// Description is free-form content shown to the player when the state is entered.
	Description string `json:"description,omitempty"`

	// Require lists the requirements that must hold before the state can be entered.
	Require []Requirement `json:"-"`
}

func (n Node) UID() string                 { return n.ID }
func (n Node) Kind() Kind                  { return KindState }
func (n Node) Requirements() []Requirement { return n.Require }
func (n Node) Details() Node               { return n }

// Start marks a possible entry point.
type Start struct{ Node }

func (Start) Kind() Kind { return KindStart }

// Finish marks a possible terminal point.
// A Finish with outgoing jumps is still transitable.
type Finish struct{ Node }

func (Finish) Kind() Kind { return KindFinish }

// Choice is a branch point. Its outgoing edges are Options, and only the ones
// selected by a ChoicePath are available to the machine.
type Choice struct{ Node }

func (Choice) Kind() Kind { return KindChoice }

// NewNode creates a plain state.
func NewNode(uid string, require ...Requirement) Node {
	return Node{ID: uid, Require: require}
}

// NewStart creates a start state.
func NewStart(uid string, require ...Requirement) Start {
	return Start{Node: NewNode(uid, require...)}
}

// NewFinish creates a finish state.
func NewFinish(uid string, require ...Requirement) Finish {
	return Finish{Node: NewNode(uid, require...)}
}

// NewChoice creates a branch point.
func NewChoice(uid string, require ...Requirement) Choice {
	return Choice{Node: NewNode(uid, require...)}
}

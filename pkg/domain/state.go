package domain

// PointerUID is the well-known uid of the traversal cursor.
const PointerUID = "pointer"

// Pointer is the singleton fact encoding the traversal position.
// An empty State means traversal has not started; an empty Jump means no jump is in progress.
// Pointers are values: every transition builds a new one that replaces the stored fact.
type Pointer struct {
	State string `json:"state,omitempty"`
	Jump  string `json:"jump,omitempty"`
}

func (Pointer) UID() string { return PointerUID }
func (Pointer) Kind() Kind  { return KindPointer }

// Enter returns a pointer positioned on state with no jump in progress.
func (p Pointer) Enter(state string) Pointer {
	return Pointer{State: state}
}

// Follow returns a pointer on the same state with jump in progress.
func (p Pointer) Follow(jump string) Pointer {
	return Pointer{State: p.State, Jump: jump}
}

// Started reports whether the pointer has ever been placed on a state.
func (p Pointer) Started() bool {
	return p.State != ""
}

// InProgress reports whether a jump has been selected but not completed.
func (p Pointer) InProgress() bool {
	return p.Jump != ""
}

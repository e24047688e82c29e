package domain

// LifecycleHooks defines the notification sinks of the traversal engine.
// Hooks run synchronously and before the pointer swap they announce is stored.
// Nil fields are ignored.
type LifecycleHooks struct {
	OnStateEnter func(state State)
	OnJumpStart  func(jump Edge)
	OnJumpEnd    func(jump Edge)
}

// StateEntered invokes OnStateEnter if set.
func (h LifecycleHooks) StateEntered(state State) {
	if h.OnStateEnter != nil {
		h.OnStateEnter(state)
	}
}

// JumpStarted invokes OnJumpStart if set.
func (h LifecycleHooks) JumpStarted(jump Edge) {
	if h.OnJumpStart != nil {
		h.OnJumpStart(jump)
	}
}

// JumpEnded invokes OnJumpEnd if set.
func (h LifecycleHooks) JumpEnded(jump Edge) {
	if h.OnJumpEnd != nil {
		h.OnJumpEnd(jump)
	}
}

// ChainHooks returns hooks that call each of hooks in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStateEnter: func(state State) {
			for _, h := range hooks {
				h.StateEntered(state)
			}
		},
		OnJumpStart: func(jump Edge) {
			for _, h := range hooks {
				h.JumpStarted(jump)
			}
		},
		OnJumpEnd: func(jump Edge) {
			for _, h := range hooks {
				h.JumpEnded(jump)
			}
		},
	}
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Is(t *testing.T) {
	tests := []struct {
		kind, target Kind
		want         bool
	}{
		{KindChoice, KindChoice, true},
		{KindChoice, KindState, true},
		{KindChoice, KindFact, true},
		{KindState, KindChoice, false},
		{KindOption, KindJump, true},
		{KindJump, KindState, false},
		{"stateful", KindState, false},
		{"actor/person", "actor", true},
		{"", KindState, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s is %s", tt.kind, tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Is(tt.target))
		})
	}
}

func TestKind_Parent(t *testing.T) {
	assert.Equal(t, KindState, KindFinish.Parent())
	assert.Equal(t, KindJump, KindOption.Parent())
	assert.Equal(t, KindFact, KindPointer.Parent())
	assert.Equal(t, KindFact, KindFact.Parent())
	assert.Equal(t, Kind("actor/person"), Kind("actor/person/hero").Parent())
}

func TestPointer(t *testing.T) {
	var p Pointer
	assert.False(t, p.Started())
	assert.False(t, p.InProgress())

	p = p.Enter("door").Follow("door->hall")
	assert.Equal(t, Pointer{State: "door", Jump: "door->hall"}, p)
	assert.True(t, p.Started())
	assert.True(t, p.InProgress())

	assert.Equal(t, Pointer{State: "hall"}, p.Enter("hall"))
	assert.Equal(t, PointerUID, p.UID())
}

func TestEntity_Kind(t *testing.T) {
	assert.Equal(t, KindFact, Entity{ID: "lamp"}.Kind())
	assert.Equal(t, Kind("item"), Entity{ID: "lamp", Type: "item"}.Kind())
}

func TestChainHooks(t *testing.T) {
	var calls []string
	record := func(name string) LifecycleHooks {
		return LifecycleHooks{
			OnStateEnter: func(s State) { calls = append(calls, name+":enter:"+s.UID()) },
			OnJumpEnd:    func(j Edge) { calls = append(calls, name+":end:"+j.UID()) },
		}
	}

	h := ChainHooks(record("a"), LifecycleHooks{}, record("b"))
	h.StateEntered(NewStart("door"))
	h.JumpStarted(NewJump("j", "door", "hall"))
	h.JumpEnded(NewJump("j", "door", "hall"))

	assert.Equal(t, []string{"a:enter:door", "b:enter:door", "a:end:j", "b:end:j"}, calls)

	assert.NotPanics(t, func() { LifecycleHooks{}.StateEntered(NewStart("door")) })
}

func TestErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
	}{
		{&NoFactError{UID: "x"}, ErrNoFact},
		{&DuplicatedFactError{UID: "x"}, ErrDuplicatedFact},
		{&WrongFactTypeError{Value: 42}, ErrWrongFactType},
		{&NoStartStateError{}, ErrNoStartState},
		{&StepLimitError{Limit: 3}, ErrStepLimit},
	}

	for _, tt := range tests {
		t.Run(tt.sentinel.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.False(t, errors.Is(wrapped, ErrMoreThanOneJumpsAvailable))
		})
	}
}

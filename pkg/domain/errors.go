package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds. Every typed error below matches its sentinel through errors.Is.
var (
	ErrNoFact                    = errors.New("no fact")
	ErrDuplicatedFact            = errors.New("duplicated fact")
	ErrWrongFactType             = errors.New("wrong fact type")
	ErrNoJumpsAvailable          = errors.New("no jumps available")
	ErrMoreThanOneJumpsAvailable = errors.New("more than one jump available")
	ErrNoJumpsFromLastState      = errors.New("no jumps from last state")
	ErrNoStartState              = errors.New("no start state")
	ErrAmbiguousStartState       = errors.New("ambiguous start state")
	ErrStepLimit                 = errors.New("step limit reached")
)

// NoFactError is returned when a uid is looked up or removed but not stored.
type NoFactError struct {
	UID string
}

func (e *NoFactError) Error() string {
	return fmt.Sprintf("fact %q not found", e.UID)
}

func (e *NoFactError) Is(target error) bool { return target == ErrNoFact }

// DuplicatedFactError is returned when a fact is added under a uid already in use.
type DuplicatedFactError struct {
	UID string
}

func (e *DuplicatedFactError) Error() string {
	return fmt.Sprintf("fact %q already exists", e.UID)
}

func (e *DuplicatedFactError) Is(target error) bool { return target == ErrDuplicatedFact }

// WrongFactTypeError is returned when a value that is not a fact (including a nested
// sequence of facts) is added or removed, or when a uid resolves to an unexpected variant.
type WrongFactTypeError struct {
	Value any
}

func (e *WrongFactTypeError) Error() string {
	if f, ok := e.Value.(Fact); ok {
		return fmt.Sprintf("wrong fact type: %q is a %s", f.UID(), f.Kind())
	}
	return fmt.Sprintf("wrong fact type: %T", e.Value)
}

func (e *WrongFactTypeError) Is(target error) bool { return target == ErrWrongFactType }

// NoJumpsAvailableError is returned when a state offers no eligible outgoing edge.
// For a Choice this means no ChoicePath has been recorded yet.
type NoJumpsAvailableError struct {
	State string
}

func (e *NoJumpsAvailableError) Error() string {
	return fmt.Sprintf("no jumps available from state %q", e.State)
}

func (e *NoJumpsAvailableError) Is(target error) bool { return target == ErrNoJumpsAvailable }

// MoreThanOneJumpsAvailableError is returned when a single edge was demanded
// but the state offers several.
type MoreThanOneJumpsAvailableError struct {
	State string
	Count int
}

func (e *MoreThanOneJumpsAvailableError) Error() string {
	return fmt.Sprintf("%d jumps available from state %q, expected one", e.Count, e.State)
}

func (e *MoreThanOneJumpsAvailableError) Is(target error) bool {
	return target == ErrMoreThanOneJumpsAvailable
}

// NoJumpsFromLastStateError is returned by Step when the current state has no outgoing edges at all.
type NoJumpsFromLastStateError struct {
	State string
}

func (e *NoJumpsFromLastStateError) Error() string {
	return fmt.Sprintf("state %q has no outgoing jumps", e.State)
}

func (e *NoJumpsFromLastStateError) Is(target error) bool { return target == ErrNoJumpsFromLastState }

// NoStartStateError is returned when no Start is free of incoming jumps.
type NoStartStateError struct{}

func (e *NoStartStateError) Error() string {
	return "no start state without incoming jumps"
}

func (e *NoStartStateError) Is(target error) bool { return target == ErrNoStartState }

// AmbiguousStartStateError is returned when several Starts are free of incoming jumps.
type AmbiguousStartStateError struct {
	Candidates []string
}

func (e *AmbiguousStartStateError) Error() string {
	return fmt.Sprintf("ambiguous start state: %s", strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousStartStateError) Is(target error) bool { return target == ErrAmbiguousStartState }

// StepLimitError is returned when a driver loop exceeds its configured bound.
type StepLimitError struct {
	Limit int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit of %d reached", e.Limit)
}

func (e *StepLimitError) Is(target error) bool { return target == ErrStepLimit }

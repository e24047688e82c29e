package knowledge

import (
	"io"
	"iter"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/questline/pkg/domain"
)

// Base is an exclusive-ownership container of facts keyed by uid.
// It is safe for concurrent readers; mutation is expected to come from a single owner.
type Base struct {
	mu     sync.RWMutex
	facts  map[string]domain.Fact
	logger *slog.Logger
}

// Option defines a functional option for configuring a Base.
type Option func(*Base)

// WithLogger sets the structured logger used for mutation traces.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an empty knowledge base.
func New(opts ...Option) *Base {
	b := &Base{
		facts:  make(map[string]domain.Fact),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add stores one fact or a flat sequence of facts.
// Non-fact values and nested sequences fail with *domain.WrongFactTypeError,
// uids already stored (or repeated within the call) with *domain.DuplicatedFactError.
// The call is all-or-nothing.
func (b *Base) Add(items ...any) error {
	facts, err := flatten(items)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		uid := f.UID()
		if _, ok := b.facts[uid]; ok {
			return &domain.DuplicatedFactError{UID: uid}
		}
		if _, ok := seen[uid]; ok {
			return &domain.DuplicatedFactError{UID: uid}
		}
		seen[uid] = struct{}{}
	}

	for _, f := range facts {
		b.facts[f.UID()] = f
	}
	b.logger.Debug("facts added", "count", len(facts))
	return nil
}

// Remove deletes one fact or a flat sequence of facts, matched by uid.
// Absent uids fail with *domain.NoFactError; the call is all-or-nothing.
func (b *Base) Remove(items ...any) error {
	facts, err := flatten(items)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		_, removed := seen[f.UID()]
		if _, ok := b.facts[f.UID()]; !ok || removed {
			return &domain.NoFactError{UID: f.UID()}
		}
		seen[f.UID()] = struct{}{}
	}
	for _, f := range facts {
		delete(b.facts, f.UID())
	}
	b.logger.Debug("facts removed", "count", len(facts))
	return nil
}

// Delete removes the fact stored under uid.
func (b *Base) Delete(uid string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.facts[uid]; !ok {
		return &domain.NoFactError{UID: uid}
	}
	delete(b.facts, uid)
	return nil
}

// Replace swaps old for replacement in a single step.
// Either both halves apply or the store is left untouched.
func (b *Base) Replace(old, replacement domain.Fact) error {
	if old == nil {
		return &domain.WrongFactTypeError{Value: old}
	}
	if replacement == nil {
		return &domain.WrongFactTypeError{Value: replacement}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.facts[old.UID()]; !ok {
		return &domain.NoFactError{UID: old.UID()}
	}
	if replacement.UID() != old.UID() {
		if _, ok := b.facts[replacement.UID()]; ok {
			return &domain.DuplicatedFactError{UID: replacement.UID()}
		}
	}

	delete(b.facts, old.UID())
	b.facts[replacement.UID()] = replacement
	return nil
}

// Contains reports whether a fact with uid is stored.
func (b *Base) Contains(uid string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.facts[uid]
	return ok
}

// Get returns the fact stored under uid or a *domain.NoFactError.
func (b *Base) Get(uid string) (domain.Fact, error) {
	f, ok := b.Lookup(uid)
	if !ok {
		return nil, &domain.NoFactError{UID: uid}
	}
	return f, nil
}

// Lookup returns the fact stored under uid and whether it exists.
func (b *Base) Lookup(uid string) (domain.Fact, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f, ok := b.facts[uid]
	return f, ok
}

// Filter yields every fact whose kind is kind or a subtype of it.
// The sequence is restartable; each iteration observes the store as it was when iteration began.
// Order is unspecified.
func (b *Base) Filter(kind domain.Kind) iter.Seq[domain.Fact] {
	return func(yield func(domain.Fact) bool) {
		for _, f := range b.snapshot() {
			if !f.Kind().Is(kind) {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

// Facts yields every stored fact.
func (b *Base) Facts() iter.Seq[domain.Fact] {
	return b.Filter(domain.KindFact)
}

// UIDs returns the set of stored uids.
func (b *Base) UIDs() map[string]struct{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	uids := make(map[string]struct{}, len(b.facts))
	for uid := range b.facts {
		uids[uid] = struct{}{}
	}
	return uids
}

// Len returns the number of stored facts.
func (b *Base) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.facts)
}

// ValidateConsistency runs every stored restriction against the base, in uid order,
// and returns the first failure unchanged.
func (b *Base) ValidateConsistency() error {
	for _, f := range Sorted(b.Filter(domain.KindRestriction)) {
		r, ok := f.(domain.Restriction)
		if !ok {
			return &domain.WrongFactTypeError{Value: f}
		}
		if err := r.Validate(b); err != nil {
			b.logger.Debug("restriction failed", "restriction", r.UID(), "err", err)
			return err
		}
	}
	return nil
}

func (b *Base) snapshot() []domain.Fact {
	b.mu.RLock()
	defer b.mu.RUnlock()

	facts := make([]domain.Fact, 0, len(b.facts))
	for _, f := range b.facts {
		facts = append(facts, f)
	}
	return facts
}

// flatten accepts facts and flat slices of facts; anything else is a wrong type.
func flatten(items []any) ([]domain.Fact, error) {
	facts := make([]domain.Fact, 0, len(items))
	for _, item := range items {
		if f, ok := item.(domain.Fact); ok {
			facts = append(facts, f)
			continue
		}

		v := reflect.ValueOf(item)
		if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
			return nil, &domain.WrongFactTypeError{Value: item}
		}

		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i).Interface()
			f, ok := elem.(domain.Fact)
			if !ok {
				return nil, &domain.WrongFactTypeError{Value: elem}
			}
			facts = append(facts, f)
		}
	}
	return facts, nil
}

// Sorted collects a fact sequence ordered by uid.
func Sorted[T domain.Fact](seq iter.Seq[T]) []T {
	out := slices.Collect(seq)
	slices.SortFunc(out, func(x, y T) int { return strings.Compare(x.UID(), y.UID()) })
	return out
}

// Of yields the facts of r matching kind that are of Go type T.
func Of[T domain.Fact](r domain.FactReader, kind domain.Kind) iter.Seq[T] {
	return func(yield func(T) bool) {
		for f := range r.Filter(kind) {
			t, ok := f.(T)
			if !ok {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

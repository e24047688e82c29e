package ports

import (
	"github.com/aretw0/questline/pkg/domain"
)

// FactStore defines the storage the traversal engine drives.
// The in-memory knowledge.Base is the reference implementation.
type FactStore interface {
	domain.FactReader

	// Add stores facts or flat sequences of facts; see knowledge.Base.Add.
	Add(items ...any) error

	// Remove deletes facts matched by uid; see knowledge.Base.Remove.
	Remove(items ...any) error

	// Replace swaps old for replacement atomically.
	// Returns *domain.NoFactError if old is absent, leaving the store untouched.
	Replace(old, replacement domain.Fact) error

	// ValidateConsistency runs every stored restriction and returns the first failure.
	ValidateConsistency() error
}

package ports

import (
	"iter"
	"slices"
	"testing"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFactStoreContract runs a suite of tests to verify that a FactStore implementation
// adheres to the defined interface contract. newStore must return an empty store.
func RunFactStoreContract(t *testing.T, newStore func() FactStore) {
	t.Run("Add and Get", func(t *testing.T) {
		store := newStore()
		start := domain.NewStart("a")

		require.NoError(t, store.Add(start))

		got, err := store.Get("a")
		require.NoError(t, err)
		assert.Equal(t, domain.KindStart, got.Kind())
		assert.True(t, store.Contains("a"))
	})

	t.Run("Add Duplicate", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.Add(domain.NewNode("a")))

		err := store.Add(domain.NewFinish("a"))
		assert.ErrorIs(t, err, domain.ErrDuplicatedFact)

		got, err := store.Get("a")
		require.NoError(t, err)
		assert.Equal(t, domain.KindState, got.Kind(), "original fact must survive a rejected add")
	})

	t.Run("Add Is All Or Nothing", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.Add(domain.NewNode("taken")))

		err := store.Add([]domain.Fact{domain.NewNode("fresh"), domain.NewNode("taken")})
		assert.ErrorIs(t, err, domain.ErrDuplicatedFact)
		assert.False(t, store.Contains("fresh"))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		store := newStore()
		_, err := store.Get("missing")
		assert.ErrorIs(t, err, domain.ErrNoFact)

		_, ok := store.Lookup("missing")
		assert.False(t, ok)
	})

	t.Run("Remove", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.Add(domain.NewNode("a"), domain.NewNode("b")))

		require.NoError(t, store.Remove(domain.NewNode("a")))
		assert.False(t, store.Contains("a"))
		assert.True(t, store.Contains("b"))

		assert.ErrorIs(t, store.Remove(domain.NewNode("a")), domain.ErrNoFact)
	})

	t.Run("Replace", func(t *testing.T) {
		store := newStore()
		old := domain.Pointer{}
		require.NoError(t, store.Add(old))

		next := old.Enter("a")
		require.NoError(t, store.Replace(old, next))

		got, err := store.Get(domain.PointerUID)
		require.NoError(t, err)
		assert.Equal(t, next, got)
		assert.Len(t, slices.Collect(store.Filter(domain.KindPointer)), 1)
	})

	t.Run("Replace Missing", func(t *testing.T) {
		store := newStore()
		err := store.Replace(domain.Pointer{}, domain.Pointer{State: "a"})
		assert.ErrorIs(t, err, domain.ErrNoFact)
		assert.False(t, store.Contains(domain.PointerUID))
	})

	t.Run("Filter", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.Add(
			domain.NewStart("s"),
			domain.NewFinish("f"),
			domain.NewJump("j", "s", "f"),
			domain.NewOption("o", "s", "f"),
		))

		assert.ElementsMatch(t, []string{"s", "f"}, uids(store.Filter(domain.KindState)))
		assert.ElementsMatch(t, []string{"j", "o"}, uids(store.Filter(domain.KindJump)))
		assert.ElementsMatch(t, []string{"o"}, uids(store.Filter(domain.KindOption)))
		assert.Empty(t, uids(store.Filter(domain.KindChoicePath)))
	})
}

func uids(seq iter.Seq[domain.Fact]) []string {
	var out []string
	for f := range seq {
		out = append(out, f.UID())
	}
	return out
}

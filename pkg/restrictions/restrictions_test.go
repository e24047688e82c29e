package restrictions_test

import (
	"testing"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/knowledge"
	"github.com/aretw0/questline/pkg/restrictions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wellFormed is s -> c, c offers o1 (-> f) and o2 (-> n), n -> f, resolved to o1.
func wellFormed() []domain.Fact {
	return []domain.Fact{
		domain.NewStart("s"),
		domain.NewChoice("c"),
		domain.NewNode("n"),
		domain.NewFinish("f"),
		domain.NewJump("s_c", "s", "c"),
		domain.NewOption("o1", "c", "f"),
		domain.NewOption("o2", "c", "n"),
		domain.NewJump("n_f", "n", "f"),
		domain.NewChoicePath("c", "o1"),
	}
}

func rule(t *testing.T, name string) domain.Restriction {
	t.Helper()
	r, err := restrictions.New(name, "restriction/"+name)
	require.NoError(t, err)
	return r
}

func TestStandard_WellFormed(t *testing.T) {
	kb := knowledge.New()
	require.NoError(t, kb.Add(wellFormed()))
	require.NoError(t, kb.Add(restrictions.Standard()))
	require.NoError(t, kb.Add(rule(t, "no_cycles")))

	assert.NoError(t, kb.ValidateConsistency())
}

func TestRestrictions_Violations(t *testing.T) {
	tests := []struct {
		name   string
		rule   string
		extra  []domain.Fact
		remove []string
		err    error
		facts  []string
	}{
		{
			name:  "second start",
			rule:  "single_start_state",
			extra: []domain.Fact{domain.NewStart("s2"), domain.NewJump("s2_f", "s2", "f")},
			err:   restrictions.ErrStartState,
			facts: []string{"s", "s2"},
		},
		{
			name:   "no start",
			rule:   "single_start_state",
			remove: []string{"s", "s_c"},
			err:    restrictions.ErrStartState,
		},
		{
			name:   "no finish",
			rule:   "finish_state_exists",
			remove: []string{"f", "o1", "n_f"},
			err:    restrictions.ErrNoFinishState,
		},
		{
			name:  "dangling jump",
			rule:  "references_resolved",
			extra: []domain.Fact{domain.NewJump("n_ghost", "n", "ghost")},
			err:   restrictions.ErrUnresolvedReference,
			facts: []string{"n_ghost"},
		},
		{
			name:  "path to foreign option",
			rule:  "references_resolved",
			extra: []domain.Fact{domain.NewChoice("c2"), domain.NewChoicePath("c2", "o1")},
			err:   restrictions.ErrUnresolvedReference,
			facts: []string{"choice_path(c2,o1)"},
		},
		{
			name:  "path to plain jump",
			rule:  "references_resolved",
			extra: []domain.Fact{domain.ChoicePath{ID: "cp", Choice: "c", Option: "s_c"}},
			err:   restrictions.ErrUnresolvedReference,
			facts: []string{"cp"},
		},
		{
			name:  "dead end",
			rule:  "all_states_have_jumps",
			extra: []domain.Fact{domain.NewNode("lost"), domain.NewJump("n_lost", "n", "lost")},
			err:   restrictions.ErrDeadEnd,
			facts: []string{"lost"},
		},
		{
			name:  "plain jump from choice",
			rule:  "choices_consistency",
			extra: []domain.Fact{domain.NewJump("c_n", "c", "n")},
			err:   restrictions.ErrInconsistentChoice,
			facts: []string{"c_n"},
		},
		{
			name:  "option from node",
			rule:  "choices_consistency",
			extra: []domain.Fact{domain.NewOption("n_o", "n", "f")},
			err:   restrictions.ErrInconsistentChoice,
			facts: []string{"n_o"},
		},
		{
			name:  "double resolution",
			rule:  "choices_consistency",
			extra: []domain.Fact{domain.NewChoicePath("c", "o2")},
			err:   restrictions.ErrInconsistentChoice,
			facts: []string{"c"},
		},
		{
			name:  "choice without options",
			rule:  "choices_consistency",
			extra: []domain.Fact{domain.NewChoice("empty")},
			err:   restrictions.ErrInconsistentChoice,
			facts: []string{"empty"},
		},
		{
			name:  "island",
			rule:  "connected_state_graph",
			extra: []domain.Fact{domain.NewNode("x"), domain.NewNode("y"), domain.NewJump("x_y", "x", "y")},
			err:   restrictions.ErrUnreachableState,
			facts: []string{"x", "y"},
		},
		{
			name:  "loop",
			rule:  "no_cycles",
			extra: []domain.Fact{domain.NewJump("n_c", "n", "c")},
			err:   restrictions.ErrCycle,
			facts: []string{"c", "n", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := knowledge.New()
			require.NoError(t, kb.Add(wellFormed()))
			for _, uid := range tt.remove {
				require.NoError(t, kb.Delete(uid))
			}
			require.NoError(t, kb.Add(tt.extra))

			r := rule(t, tt.rule)
			require.NoError(t, kb.Add(r))

			err := kb.ValidateConsistency()
			require.ErrorIs(t, err, tt.err)

			var violation *restrictions.ViolationError
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, r.UID(), violation.Restriction)
			assert.Equal(t, tt.facts, violation.Facts)
		})
	}
}

func TestValidateConsistency_FirstFailureWins(t *testing.T) {
	kb := knowledge.New()
	require.NoError(t, kb.Add(
		restrictions.NewAlwaysError("a"),
		restrictions.NoCycles{Rule: restrictions.Rule{ID: "b"}},
		domain.NewStart("s"),
		domain.NewJump("s_s", "s", "s"),
	))

	err := kb.ValidateConsistency()
	assert.ErrorIs(t, err, restrictions.ErrAlwaysError)
	assert.NotErrorIs(t, err, restrictions.ErrCycle)
	assert.EqualError(t, err, "restriction a: always error")
}

func TestNew_Unknown(t *testing.T) {
	_, err := restrictions.New("nope", "x")
	assert.Error(t, err)
}

package graph_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questline/internal/presentation/graph"
	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/knowledge"
	"github.com/aretw0/questline/pkg/requirements"
)

func tavern(t *testing.T) *knowledge.Base {
	t.Helper()

	door := domain.NewStart("door")
	door.Description = "The tavern door creaks open."
	hall := domain.NewChoice("hall")
	hall.Tag = "event"
	stairs := domain.NewOption("stairs", "hall", "attic")
	stairs.Label = "Climb the stairs"

	kb := knowledge.New()
	require.NoError(t, kb.Add(
		door,
		domain.NewJump("door->hall", "door", "hall"),
		hall,
		stairs,
		domain.NewOption("trapdoor", "hall", "cellar", requirements.Exists{UID: "lamp"}),
		domain.NewFinish("attic"),
		domain.NewFinish("cellar"),
		domain.NewChoicePath("hall", "stairs"),
		domain.Entity{ID: "lamp", Type: "item"},
	))
	return kb
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGenerateMermaid_Golden(t *testing.T) {
	kb := tavern(t)

	t.Run("plain", func(t *testing.T) {
		newGoldie(t).Assert(t, "tavern", []byte(graph.GenerateMermaid(kb, nil)))
	})

	t.Run("overlay", func(t *testing.T) {
		overlay := graph.OverlayFor(domain.Pointer{State: "hall", Jump: "stairs"}, "door", "hall")
		newGoldie(t).Assert(t, "tavern_overlay", []byte(graph.GenerateMermaid(kb, overlay)))
	})
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		facts    []domain.Fact
		contains []string
	}{
		{
			name:     "Plain Node Shape",
			facts:    []domain.Fact{domain.NewNode("camp")},
			contains: []string{`camp["camp"]`},
		},
		{
			name:     "Sanitized IDs",
			facts:    []domain.Fact{domain.NewNode("act.1/yard-north"), domain.NewJump("j", "act.1/yard-north", "act 2")},
			contains: []string{`act_1_yard_north["act.1/yard-north"]`, "act_1_yard_north --> act_2"},
		},
		{
			name: "Quoted Labels",
			facts: []domain.Fact{domain.Option{
				Jump:  domain.NewJump("o", "c", "d"),
				Label: `Say "hello"`,
			}},
			contains: []string{`c -- "Say 'hello'" --> d`},
		},
		{
			name:     "Jump Requirements",
			facts:    []domain.Fact{domain.NewJump("j", "a", "b", requirements.Missing{UID: "curse"}, requirements.Exists{UID: "key"})},
			contains: []string{`a -- "[missing(curse), exists(key)]" --> b`},
		},
		{
			name:     "Chosen Option Without Label",
			facts:    []domain.Fact{domain.NewJump("j", "a", "b"), domain.NewChoicePath("a", "j")},
			contains: []string{"a ==> b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := knowledge.New()
			require.NoError(t, kb.Add(tt.facts))

			out := graph.GenerateMermaid(kb, nil)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			assert.NotContains(t, out, "Overlay Styles")
		})
	}
}

func TestGenerateMermaid_OverlayWithoutJump(t *testing.T) {
	out := graph.GenerateMermaid(tavern(t), graph.OverlayFor(domain.Pointer{State: "door"}))
	assert.Contains(t, out, "class door current;")
	assert.NotContains(t, out, " next;")
	assert.NotContains(t, out, " visited;")
}

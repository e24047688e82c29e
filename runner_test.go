package questline_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questline"
	"github.com/aretw0/questline/pkg/requirements"
	"github.com/aretw0/questline/pkg/scenario"
)

func newTavern(t *testing.T) *questline.Engine {
	t.Helper()
	eng, err := questline.New(context.Background(), tavernPath)
	require.NoError(t, err)
	return eng
}

func TestRunner_Interactive(t *testing.T) {
	eng := newTavern(t)

	var out bytes.Buffer
	r := &questline.Runner{
		Input:  strings.NewReader("9\n2\n"),
		Output: &out,
	}
	require.NoError(t, r.Run(context.Background(), eng))

	assert.Equal(t, strings.Join([]string{
		"The tavern door creaks open.",
		"hall",
		"  [1] Climb the stairs",
		"  [2] Open the trapdoor",
		`> Unknown option "9".`,
		"> cellar",
		"",
	}, "\n"), out.String())

	done, err := eng.IsProcessed()
	require.NoError(t, err)
	assert.True(t, done)
}

func TestRunner_ByUID(t *testing.T) {
	eng := newTavern(t)

	var out bytes.Buffer
	r := &questline.Runner{Input: strings.NewReader("trapdoor"), Output: &out}
	require.NoError(t, r.Run(context.Background(), eng))

	current, err := eng.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, "cellar", current.UID())
}

func TestRunner_Headless(t *testing.T) {
	eng := newTavern(t)

	var out bytes.Buffer
	r := &questline.Runner{
		Output:   &out,
		Headless: true,
		Renderer: func(s string) (string, error) { return "* " + s, nil },
	}
	require.NoError(t, r.Run(context.Background(), eng))

	assert.Equal(t, "* The tavern door creaks open.\n* hall\n* attic\n", out.String())
}

func TestRunner_Quit(t *testing.T) {
	eng := newTavern(t)

	var out bytes.Buffer
	r := &questline.Runner{Input: strings.NewReader("quit\n"), Output: &out}
	require.NoError(t, r.Run(context.Background(), eng))
	assert.Contains(t, out.String(), "Bye!")

	current, err := eng.CurrentState()
	require.NoError(t, err)
	assert.Equal(t, "hall", current.UID())
}

func TestRunner_EOF(t *testing.T) {
	eng := newTavern(t)

	r := &questline.Runner{Input: strings.NewReader(""), Output: &bytes.Buffer{}}
	assert.NoError(t, r.Run(context.Background(), eng))
}

func TestRunner_Blocked(t *testing.T) {
	b := scenario.New()
	b.Start("a").Go("b")
	b.Finish("b").Require(requirements.Exists{UID: "key"})

	eng, err := questline.New(context.Background(), "", questline.WithLoader(b))
	require.NoError(t, err)

	r := &questline.Runner{Output: &bytes.Buffer{}, Headless: true}
	assert.ErrorIs(t, r.Run(context.Background(), eng), questline.ErrBlocked)
}

func TestRunner_Cancelled(t *testing.T) {
	eng := newTavern(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &questline.Runner{Output: &bytes.Buffer{}, Headless: true}
	assert.ErrorIs(t, r.Run(ctx, eng), context.Canceled)
}

func TestRunner_MissingIO(t *testing.T) {
	eng := newTavern(t)

	assert.Error(t, (&questline.Runner{Input: strings.NewReader("")}).Run(context.Background(), eng))
	assert.Error(t, (&questline.Runner{Output: &bytes.Buffer{}}).Run(context.Background(), eng))
}

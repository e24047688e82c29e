package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()

	out, err := render("# The Tavern\n\nThe door creaks **open**.")
	require.NoError(t, err)
	assert.Contains(t, out, "The Tavern")
	assert.Contains(t, out, "open")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestHighlight(t *testing.T) {
	assert.Contains(t, Highlight("[1]"), "[1]")
}

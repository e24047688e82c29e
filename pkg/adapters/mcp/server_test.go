package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questline"
	"github.com/aretw0/questline/pkg/domain"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	eng, err := questline.New(context.Background(), "../../scenario/testdata/tavern.yaml")
	require.NoError(t, err)
	return NewServer(eng)
}

func TestServer_Tools(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	resp, err := s.handleGetState(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "", resp.State)
	assert.False(t, resp.Processed)
	require.NotNil(t, resp.Choice)
	assert.Equal(t, "hall", resp.Choice.UID)

	resp, err = s.handleAdvance(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Steps)
	assert.Equal(t, "hall", resp.State)
	assert.Equal(t, domain.KindChoice, resp.Kind)
	assert.Contains(t, resp.Blocked, "no jumps available")
	require.NotNil(t, resp.Choice)
	assert.False(t, resp.Choice.Resolved)
	assert.Len(t, resp.Choice.Options, 2)

	resp, err = s.handleChoose(ctx, req, map[string]any{"choice": "hall", "option": "stairs"})
	require.NoError(t, err)
	assert.Equal(t, domain.Pointer{State: "hall", Jump: "stairs"}, resp.Pointer)
	assert.True(t, resp.Choice.Resolved)

	resp, err = s.handleAdvance(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Steps)
	assert.Equal(t, "attic", resp.State)
	assert.True(t, resp.Processed)
	assert.Empty(t, resp.Blocked)
	assert.Nil(t, resp.Choice)
}

func TestServer_ChooseErrors(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleChoose(ctx, mcp.CallToolRequest{}, map[string]any{"choice": "hall"})
	assert.Error(t, err)

	_, err = s.handleChoose(ctx, mcp.CallToolRequest{}, map[string]any{"choice": "hall", "option": "ghost"})
	assert.ErrorIs(t, err, domain.ErrNoFact)
}

func TestServer_Graph(t *testing.T) {
	s := newServer(t)

	_, err := s.handleAdvance(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)

	out := s.mermaid()
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "class hall current;")
}

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tavernPath = "../../pkg/scenario/testdata/tavern.yaml"

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.Equal(t, 0, Execute(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), "questline version "))
}

func TestGraphCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"graph", tavernPath})
	require.Equal(t, 0, Execute(context.Background()))
	assert.Contains(t, out.String(), "door --> hall")
}

func TestRunCommand_Headless(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{"run", "--headless", "--scenario", tavernPath})
	require.Equal(t, 0, Execute(context.Background()))
	assert.Equal(t, "The tavern door creaks open.\nhall\nattic\n", out.String())
}

func TestMCPCommand_UnknownTransport(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"mcp", "--transport", "carrier-pigeon", tavernPath})
	assert.Equal(t, 1, Execute(context.Background()))
}

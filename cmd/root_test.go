package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"grid", "census", "health", "munic", "finance", "compose", "run", "runs"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestComposeShapefileFlag(t *testing.T) {
	f := composeCmd.Flags().Lookup("shapefile")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)

	f = runCmd.Flags().Lookup("shapefile")
	require.NotNil(t, f)
}

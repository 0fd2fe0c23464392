package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed", "enrich", "export", "import"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestExportFlagDefaults(t *testing.T) {
	f := exportCmd.Flags()

	format, err := f.GetString("format")
	require.NoError(t, err)
	assert.Equal(t, "csv", format)

	out, err := f.GetString("out")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEnrichFlagDefaults(t *testing.T) {
	f := enrichCmd.Flags()

	workers, err := f.GetInt("workers")
	require.NoError(t, err)
	assert.Equal(t, 4, workers)

	all, err := f.GetBool("all")
	require.NoError(t, err)
	assert.False(t, all)
}

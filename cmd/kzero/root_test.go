package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLogLevelDefaultsToInfoWithNoPath(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, resolveLogLevel(""))
}

func TestResolveLogLevelDefaultsToInfoWhenFileMissing(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, resolveLogLevel(filepath.Join(t.TempDir(), "missing.json")))
}

func TestResolveLogLevelReadsConfiguredLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"level":"debug"}`), 0o600))

	assert.Equal(t, zerolog.DebugLevel, resolveLogLevel(path))
}

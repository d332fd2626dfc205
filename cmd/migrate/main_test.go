package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestMigrateCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "stylist.sqlite3")

	assert.Contains(t, run(t, "version", "--db", db), "Schema version 0 (clean)")
	assert.Contains(t, run(t, "up", "--db", db), "Schema version 1 (clean)")
	assert.Contains(t, run(t, "up", "--db", db), "Schema version 1 (clean)")
	assert.Contains(t, run(t, "down", "--db", db), "Schema version 0 (clean)")
}

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersCommand_EmptyStore(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"users", "--data-file", filepath.Join(t.TempDir(), "data.godb")})

	require.NoError(t, rootCmd.Execute())
	assert.JSONEq(t, `[]`, out.String())
}

func TestUsersCommand_UnknownBackend(t *testing.T) {
	rootCmd.SetArgs([]string{"users", "--docstore", "cassandra"})

	err := rootCmd.Execute()
	assert.Error(t, err)
}

package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chesslog.pid")

	cleanup, err := managePIDFile(path, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))

	_, err = managePIDFile(path, true)
	assert.ErrorContains(t, err, "already running")

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestManagePIDFileCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chesslog.pid")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := managePIDFile(path, true)
	assert.ErrorContains(t, err, "corrupted")
}

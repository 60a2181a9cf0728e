package creds

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, ok, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fs.Save(ctx, Credentials{Username: "alice", Secret: "secret"}))

	got, ok, err := fs.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Credentials{Username: "alice", Secret: "secret"}, got)

	require.NoError(t, fs.Delete(ctx))
	require.NoError(t, fs.Delete(ctx), "delete is idempotent")
	_, ok, err = fs.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_ExpiredEntryReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFileStore(dir, 10*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, fs.Save(ctx, Credentials{Username: "alice", Secret: "secret"}))
	time.Sleep(20 * time.Millisecond)

	_, ok, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(statErr), "expired file should be removed")
}

func TestFileStore_CorruptFileReadsAsError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("not json"), 0o600))

	_, ok, err := fs.Load(ctx)
	assert.Error(t, err)
	assert.False(t, ok)
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	key, err := store.Save(context.Background(), "record.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, "_record.pdf"))

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestDiskStoreUniqueKeys(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(context.Background(), "record.pdf", "application/pdf", []byte("one"))
	require.NoError(t, err)
	second, err := store.Save(context.Background(), "record.pdf", "application/pdf", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same filename must not overwrite a previous upload")
}

func TestDiskStoreStripsPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	key, err := store.Save(context.Background(), "../../etc/passwd", "application/pdf", []byte("x"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(key, ".."))

	_, err = os.Stat(filepath.Join(dir, key))
	assert.NoError(t, err)
}

func TestDiskStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewDiskStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

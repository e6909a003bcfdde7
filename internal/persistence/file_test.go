package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "orders_db.json")
	backend, err := NewFileBackend(path)
	require.NoError(t, err)

	require.NoError(t, backend.Save(context.Background(), []byte(`{"users": []}`)))

	data, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"users": []}`, string(data))
}

func TestFileBackendLoadMissingFile(t *testing.T) {
	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "orders_db.json"))
	require.NoError(t, err)

	data, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileBackendSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders_db.json")
	backend, err := NewFileBackend(path)
	require.NoError(t, err)

	require.NoError(t, backend.Save(context.Background(), []byte("first")))
	require.NoError(t, backend.Save(context.Background(), []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

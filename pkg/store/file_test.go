package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terminal-bench/bankledger/pkg/store"
)

func TestFileStore(t *testing.T) {
	t.Run("should round-trip a snapshot blob", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bank.json")
		fs := store.NewFileStore(path)

		require.NoError(t, fs.Save(context.Background(), []byte(`{"accounts":[]}`)))

		data, err := fs.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"accounts":[]}`), data)
	})

	t.Run("should report a missing snapshot", func(t *testing.T) {
		fs := store.NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

		_, err := fs.Load(context.Background())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("should overwrite atomically without leaving a temp file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bank.json")
		fs := store.NewFileStore(path)

		require.NoError(t, fs.Save(context.Background(), []byte("v1")))
		require.NoError(t, fs.Save(context.Background(), []byte("v2")))

		data, err := fs.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), data)

		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})
}

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/subsample/types"
)

func TestDirectory_Locate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "papers.parquet"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "mentions.parquet"), 0o755))

	src := NewDirectory(dir, "")

	t.Run("default extension", func(t *testing.T) {
		require.Equal(t, ".parquet", src.Extension())
		require.Equal(t, dir, src.Dir())
	})

	t.Run("extension without dot", func(t *testing.T) {
		require.Equal(t, ".pq", NewDirectory(dir, "pq").Extension())
	})

	t.Run("existing file", func(t *testing.T) {
		loc, err := src.Locate(context.Background(), "papers")
		require.NoError(t, err)
		require.True(t, loc.Exists)
		require.Equal(t, filepath.Join(dir, "papers.parquet"), loc.Path)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		loc, err := src.Locate(context.Background(), "purpose_assessments")
		require.NoError(t, err)
		require.False(t, loc.Exists)
		require.Equal(t, filepath.Join(dir, "purpose_assessments.parquet"), loc.Path)
	})

	t.Run("directory in place of file", func(t *testing.T) {
		_, err := src.Locate(context.Background(), "mentions")
		require.ErrorIs(t, err, types.ErrSourceRead)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := src.Locate(ctx, "papers")
		require.ErrorIs(t, err, context.Canceled)
	})
}

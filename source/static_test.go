package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatic_Locate(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "papers.parquet")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o600))

	t.Run("existing file", func(t *testing.T) {
		src := NewStatic(map[string]string{"papers": present})

		loc, err := src.Locate(context.Background(), "papers")
		require.NoError(t, err)
		require.True(t, loc.Exists)
		require.Equal(t, present, loc.Path)
	})

	t.Run("mapped but missing file", func(t *testing.T) {
		missing := filepath.Join(dir, "mentions.parquet")
		src := NewStatic(map[string]string{"mentions": missing})

		loc, err := src.Locate(context.Background(), "mentions")
		require.NoError(t, err)
		require.False(t, loc.Exists)
		require.Equal(t, missing, loc.Path)
	})

	t.Run("unmapped table", func(t *testing.T) {
		src := NewStatic(nil)

		loc, err := src.Locate(context.Background(), "papers")
		require.NoError(t, err)
		require.False(t, loc.Exists)
		require.Empty(t, loc.Path)
	})

	t.Run("does not alias the caller map", func(t *testing.T) {
		paths := map[string]string{"papers": present}
		src := NewStatic(paths)

		paths["papers"] = filepath.Join(dir, "elsewhere.parquet")

		loc, err := src.Locate(context.Background(), "papers")
		require.NoError(t, err)
		require.Equal(t, present, loc.Path)
	})
}

func TestStatic_Update(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "papers.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	src := NewStatic(nil)

	loc, err := src.Locate(context.Background(), "papers")
	require.NoError(t, err)
	require.False(t, loc.Exists)

	src.Update(map[string]string{"papers": path})

	loc, err = src.Locate(context.Background(), "papers")
	require.NoError(t, err)
	require.True(t, loc.Exists)
}

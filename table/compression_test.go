package table

import (
	"testing"

	"github.com/parquet-go/parquet-go/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/subsample/types"
)

func TestParseCompression(t *testing.T) {
	t.Run("known names", func(t *testing.T) {
		for _, name := range []string{"gzip", "GZIP", "", "snappy", "zstd", "none", "uncompressed"} {
			codec, err := ParseCompression(name, 0)
			require.NoError(t, err, name)
			require.NotNil(t, codec, name)
		}
	})

	t.Run("gzip level is honored", func(t *testing.T) {
		codec, err := ParseCompression("gzip", 9)
		require.NoError(t, err)

		g, ok := codec.(*gzip.Codec)
		require.True(t, ok)
		require.Equal(t, 9, g.Level)
	})

	t.Run("gzip level out of range", func(t *testing.T) {
		_, err := ParseCompression("gzip", 10)
		require.ErrorIs(t, err, types.ErrInvalidConfiguration)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParseCompression("lzma", 0)
		require.ErrorIs(t, err, types.ErrInvalidConfiguration)
	})
}

package table

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/subsample/internal/testutil"
	"github.com/arloliu/subsample/types"
)

func TestWriterSet(t *testing.T) {
	schema := parquet.SchemaOf(testutil.Mention{})
	rowsOf := func(mentions ...testutil.Mention) []parquet.Row {
		rows := make([]parquet.Row, len(mentions))
		for i, m := range mentions {
			rows[i] = schema.Deconstruct(nil, m)
		}

		return rows
	}

	t.Run("writes each partition to its own file", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "mentions.parquet")

		ws, err := OpenWriterSet(base, 2, schema, WithKeyValueMetadata([]KeyValue{{Key: "k", Value: "v"}}))
		require.NoError(t, err)
		require.Equal(t, 2, ws.Len())

		require.NoError(t, ws.Write(0, rowsOf(testutil.Mention{PaperID: 1, Seq: 1, Text: "a"})))
		require.NoError(t, ws.Write(1, rowsOf(
			testutil.Mention{PaperID: 4, Seq: 2, Text: "b"},
			testutil.Mention{PaperID: 4, Seq: 3, Text: "c"},
		)))
		require.NoError(t, ws.Write(1, nil))
		require.Equal(t, []int64{1, 2}, ws.Written())
		require.NoError(t, ws.Close())

		p0 := testutil.ReadParquet[testutil.Mention](t, filepath.Join(dir, "mentions_0.parquet"))
		require.Equal(t, []testutil.Mention{{PaperID: 1, Seq: 1, Text: "a"}}, p0)

		p1 := testutil.ReadParquet[testutil.Mention](t, filepath.Join(dir, "mentions_1.parquet"))
		require.Len(t, p1, 2)
		require.Equal(t, int64(2), p1[0].Seq)
		require.Equal(t, int64(3), p1[1].Seq)

		r, err := Open(filepath.Join(dir, "mentions_1.parquet"))
		require.NoError(t, err)
		defer r.Close()
		require.Contains(t, r.Metadata(), KeyValue{Key: "k", Value: "v"})
		require.Equal(t, schema.Columns(), r.Schema().Columns())
	})

	t.Run("empty partitions still produce valid files", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "m.parquet")

		codec, err := ParseCompression("snappy", 0)
		require.NoError(t, err)

		ws, err := OpenWriterSet(base, 3, schema, WithCompression(codec))
		require.NoError(t, err)
		require.NoError(t, ws.Close())

		for _, p := range ws.Paths() {
			r, err := Open(p)
			require.NoError(t, err)
			require.Equal(t, int64(0), r.NumRows())

			_, err = r.Next(context.Background())
			require.ErrorIs(t, err, io.EOF)
			require.NoError(t, r.Close())
		}
	})

	t.Run("write after close", func(t *testing.T) {
		ws, err := OpenWriterSet(filepath.Join(t.TempDir(), "m.parquet"), 1, schema)
		require.NoError(t, err)
		require.NoError(t, ws.Close())
		require.NoError(t, ws.Close())

		require.ErrorIs(t, ws.Write(0, rowsOf(testutil.Mention{PaperID: 1})), types.ErrWriterClosed)
	})

	t.Run("index out of range", func(t *testing.T) {
		ws, err := OpenWriterSet(filepath.Join(t.TempDir(), "m.parquet"), 1, schema)
		require.NoError(t, err)
		defer ws.Close()

		require.ErrorIs(t, ws.Write(1, rowsOf(testutil.Mention{PaperID: 1})), types.ErrPartitionOutOfRange)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		_, err := OpenWriterSet(filepath.Join(t.TempDir(), "missing", "m.parquet"), 2, schema)
		require.ErrorIs(t, err, types.ErrSinkWrite)
	})

	t.Run("rejects zero partitions", func(t *testing.T) {
		_, err := OpenWriterSet(filepath.Join(t.TempDir(), "m.parquet"), 0, schema)
		require.ErrorIs(t, err, types.ErrInvalidConfiguration)
	})
}

// Package testutil provides Parquet fixtures shared by package tests.
package testutil

import (
	"errors"
	"os"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
)

// Paper is a primary-table fixture row.
type Paper struct {
	PaperID     int64  `parquet:"paper_id"`
	Title       string `parquet:"title"`
	HasMentions bool   `parquet:"has_mentions"`
}

// NullablePaper is a primary-table fixture row whose flag may be null.
type NullablePaper struct {
	PaperID     int64  `parquet:"paper_id"`
	HasMentions *bool  `parquet:"has_mentions,optional"`
	Venue       string `parquet:"venue"`
}

// Mention is a dependent-table fixture row.
type Mention struct {
	PaperID int64  `parquet:"paper_id"`
	Seq     int64  `parquet:"seq"`
	Text    string `parquet:"text"`
}

// Assessment is a dependent-table fixture row with a 32-bit identifier and an
// optional column.
type Assessment struct {
	PaperID int32    `parquet:"paper_id"`
	Label   string   `parquet:"label"`
	Score   *float64 `parquet:"score,optional"`
}

// WriteParquet writes rows to path with a generic writer.
func WriteParquet[T any](t testing.TB, path string, rows []T, opts ...parquet.WriterOption) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	w := parquet.NewGenericWriter[T](f, opts...)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

// ReadParquet reads every row of path.
func ReadParquet[T any](t testing.TB, path string) []T {
	t.Helper()

	rows, err := parquet.ReadFile[T](path)
	require.NoError(t, err)

	return rows
}

// Papers returns n papers with ids 1..n; every id divisible by flagEvery has mentions.
func Papers(n int, flagEvery int) []Paper {
	papers := make([]Paper, n)
	for i := range papers {
		id := int64(i + 1)
		papers[i] = Paper{
			PaperID:     id,
			Title:       "paper",
			HasMentions: flagEvery > 0 && id%int64(flagEvery) == 0,
		}
	}

	return papers
}

// ErrInjected is returned by FailingRowReader.
var ErrInjected = errors.New("injected read failure")

// FailingRowReader passes rows through until After rows have been read, then fails.
type FailingRowReader struct {
	Rows  parquet.RowReader
	After int
	read  int
}

// ReadRows implements parquet.RowReader.
func (r *FailingRowReader) ReadRows(rows []parquet.Row) (int, error) {
	if r.read >= r.After {
		return 0, ErrInjected
	}
	if room := r.After - r.read; len(rows) > room {
		rows = rows[:room]
	}

	n, err := r.Rows.ReadRows(rows)
	r.read += n

	return n, err
}

// OpenRows opens path and returns its row reader and schema. The file is closed
// when the test ends.
func OpenRows(t testing.TB, path string) (*parquet.Reader, *parquet.Schema) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	info, err := f.Stat()
	require.NoError(t, err)

	pf, err := parquet.OpenFile(f, info.Size())
	require.NoError(t, err)

	r := parquet.NewReader(pf)
	t.Cleanup(func() { _ = r.Close() })

	return r, pf.Schema()
}

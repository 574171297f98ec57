package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/subsample/types"
)

func sample() *Manifest {
	m := New()
	m.Seed = 42
	m.Fractions = []float64{0.01, 0.05}
	m.Thresholds = []float64{0.01, 0.06}
	m.Strategy = "mt19937"
	m.Compression = "gzip"
	m.Digest = FormatDigest(0xdeadbeef)
	m.Sizes = []int{12, 61}
	m.Primary = Primary{Table: "papers", RowsScanned: 2000, Qualifying: 1200, Unsampled: 1127}
	m.Tables = []types.TableSummary{
		{
			Table:       "papers",
			Input:       "/in/papers.parquet",
			Outputs:     []string{"/out/papers_0.parquet", "/out/papers_1.parquet"},
			RowsRead:    2000,
			RowsWritten: []int64{12, 61},
			RowsDropped: 1927,
		},
		{
			Table:   "purpose_assessments",
			Input:   "/in/purpose_assessments.parquet",
			Skipped: true,
			Warning: "optional input missing",
		},
	}
	m.Warnings = []string{"optional input missing"}

	return m
}

func TestNew(t *testing.T) {
	a, b := New(), New()
	require.NotEqual(t, a.RunID, b.RunID)
	require.False(t, a.CreatedAt.IsZero())
}

func TestDigest(t *testing.T) {
	s := FormatDigest(0xdeadbeef)
	require.Equal(t, "00000000deadbeef", s)

	d, err := ParseDigest(s)
	require.NoError(t, err)
	require.Equal(t, uint64(0xdeadbeef), d)
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	m := sample()

	require.NoError(t, Write(path, m))

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, m.RunID, got.RunID)
	require.True(t, m.CreatedAt.Equal(got.CreatedAt))
	require.Equal(t, m.Sizes, got.Sizes)
	require.Equal(t, m.Tables, got.Tables)
	require.Equal(t, m.Primary, got.Primary)
	require.NoError(t, got.Validate())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must not be left behind")

	t.Run("overwrite", func(t *testing.T) {
		m2 := sample()
		require.NoError(t, Write(path, m2))

		got, err := Read(path)
		require.NoError(t, err)
		require.Equal(t, m2.RunID, got.RunID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "none.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("seed: [unclosed"), 0o600))

		_, err := Read(bad)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, sample().Validate())

	tests := []struct {
		name   string
		mutate func(*Manifest)
	}{
		{"bad run id", func(m *Manifest) { m.RunID = "run-1" }},
		{"no fractions", func(m *Manifest) { m.Fractions = nil }},
		{"sizes misaligned", func(m *Manifest) { m.Sizes = []int{1} }},
		{"bad digest", func(m *Manifest) { m.Digest = "xyz" }},
		{"outputs misaligned", func(m *Manifest) { m.Tables[0].Outputs = m.Tables[0].Outputs[:1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sample()
			tt.mutate(m)
			require.Error(t, m.Validate())
		})
	}
}

func TestTable(t *testing.T) {
	m := sample()

	s, ok := m.Table("purpose_assessments")
	require.True(t, ok)
	require.True(t, s.Skipped)

	_, ok = m.Table("mentions")
	require.False(t, ok)
}

package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionPath(t *testing.T) {
	tests := []struct {
		base string
		i    int
		want string
	}{
		{"out/papers.parquet", 0, "out/papers_0.parquet"},
		{"out/papers.parquet", 1, "out/papers_1.parquet"},
		{"out/purpose_assessments.parquet", 12, "out/purpose_assessments_12.parquet"},
		{"out/papers", 0, "out/papers_0"},
		{"out/papers.snappy.parquet", 3, "out/papers.snappy_3.parquet"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, filepath.FromSlash(tt.want), PartitionPath(filepath.FromSlash(tt.base), tt.i))
		})
	}

	t.Run("paths are index aligned", func(t *testing.T) {
		paths := PartitionPaths("m.parquet", 3)
		require.Equal(t, []string{"m_0.parquet", "m_1.parquet", "m_2.parquet"}, paths)
	})
}

package table

import (
	"path/filepath"
	"strconv"
	"strings"
)

// PartitionPath returns the output path of partition i for the given base path.
//
// The index is inserted between the stem and the final extension, so
// "out/papers.parquet" becomes "out/papers_0.parquet". A base without an
// extension gets the bare suffix: "out/papers" becomes "out/papers_0".
func PartitionPath(base string, i int) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	return stem + "_" + strconv.Itoa(i) + ext
}

// PartitionPaths returns the output paths of partitions 0..n-1.
func PartitionPaths(base string, n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = PartitionPath(base, i)
	}

	return paths
}

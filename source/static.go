package source

import (
	"context"
	"sync"

	"github.com/arloliu/subsample/types"
)

// Static implements a table source with a fixed map of table paths.
type Static struct {
	mu    sync.RWMutex
	paths map[string]string
}

var _ types.TableSource = (*Static)(nil)

// NewStatic creates a new static table source.
//
// Tables absent from the map resolve to a Location with an empty path and
// Exists=false. Mapped paths are checked on the filesystem at Locate time.
//
// Parameters:
//   - paths: Table name to file path
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic(map[string]string{
//	    "papers":   "/data/2024/papers.parquet",
//	    "mentions": "/archive/mentions.parquet",
//	})
//	runner, err := subsample.NewRunner(cfg, subsample.WithSource(src))
//	if err != nil { /* handle */ }
func NewStatic(paths map[string]string) *Static {
	s := &Static{}
	s.Update(paths)

	return s
}

// Locate returns the mapped path and whether it exists.
func (s *Static) Locate(_ context.Context, table string) (types.Location, error) {
	s.mu.RLock()
	path, ok := s.paths[table]
	s.mu.RUnlock()

	if !ok {
		return types.Location{}, nil
	}

	return locate(path)
}

// Update replaces the path map.
//
// Parameters:
//   - paths: New table name to file path map
func (s *Static) Update(paths map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paths = make(map[string]string, len(paths))
	for table, path := range paths {
		s.paths[table] = path
	}
}

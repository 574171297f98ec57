package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arloliu/subsample/types"
)

// DefaultExtension is the input file extension used when none is given.
const DefaultExtension = ".parquet"

// Directory resolves tables to files in a single input directory.
type Directory struct {
	dir string
	ext string
}

var _ types.TableSource = (*Directory)(nil)

// NewDirectory creates a directory table source.
//
// Table "papers" resolves to <dir>/papers<ext>. The extension may be given
// with or without the leading dot.
//
// Parameters:
//   - dir: Input directory
//   - ext: File extension (default ".parquet" if empty)
//
// Returns:
//   - *Directory: Initialized directory source
//
// Example:
//
//	src := source.NewDirectory("/data/in", ".parquet")
//	loc, err := src.Locate(ctx, "mentions")
//	if err != nil { /* handle */ }
//	if !loc.Exists { /* skip */ }
func NewDirectory(dir, ext string) *Directory {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return &Directory{dir: dir, ext: ext}
}

// Dir returns the input directory.
func (d *Directory) Dir() string {
	return d.dir
}

// Extension returns the file extension, including the leading dot.
func (d *Directory) Extension() string {
	return d.ext
}

// Locate returns <dir>/<table><ext> and whether it exists.
func (d *Directory) Locate(ctx context.Context, table string) (types.Location, error) {
	if err := ctx.Err(); err != nil {
		return types.Location{}, err
	}

	return locate(filepath.Join(d.dir, table+d.ext))
}

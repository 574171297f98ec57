package source

import (
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/subsample/types"
)

// locate stats path and reports whether it is a regular file.
func locate(path string) (types.Location, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.Location{Path: path}, nil
		}

		return types.Location{}, fmt.Errorf("%w: stat %s: %w", types.ErrSourceRead, path, err)
	}
	if info.IsDir() {
		return types.Location{}, fmt.Errorf("%w: %s is a directory", types.ErrSourceRead, path)
	}

	return types.Location{Path: path, Exists: true}, nil
}

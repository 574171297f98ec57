package table

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/parquet-go/parquet-go/compress/gzip"

	"github.com/arloliu/subsample/types"
)

// Compression names accepted by ParseCompression.
const (
	CompressionGzip   = "gzip"
	CompressionSnappy = "snappy"
	CompressionZstd   = "zstd"
	CompressionNone   = "none"
)

// ParseCompression returns the codec for a compression name.
//
// Parameters:
//   - name: gzip, snappy, zstd or none (case-insensitive; "" means gzip)
//   - level: gzip level in [1, 9]; 0 selects the library default. Ignored by other codecs.
//
// Returns:
//   - compress.Codec: Codec to pass to WithCompression
//   - error: ErrInvalidConfiguration for an unknown name or bad gzip level
func ParseCompression(name string, level int) (compress.Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CompressionGzip:
		if level == 0 {
			return &parquet.Gzip, nil
		}
		if level < 1 || level > 9 {
			return nil, fmt.Errorf("%w: gzip level must be in [1, 9], got %d", types.ErrInvalidConfiguration, level)
		}

		return &gzip.Codec{Level: level}, nil
	case CompressionSnappy:
		return &parquet.Snappy, nil
	case CompressionZstd:
		return &parquet.Zstd, nil
	case CompressionNone, "uncompressed":
		return &parquet.Uncompressed, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %q", types.ErrInvalidConfiguration, name)
	}
}

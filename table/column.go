package table

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/arloliu/subsample/types"
)

// Column is a resolved leaf column of a table schema.
type Column struct {
	Name  string
	Index int
	Kind  parquet.Kind
}

// IDColumn resolves an identifier column.
//
// The column must be a non-repeated leaf of physical type INT32 or INT64.
//
// Returns:
//   - Column: Resolved column
//   - error: ErrSchemaMismatch when absent or of another type
func IDColumn(schema *parquet.Schema, name string) (Column, error) {
	return lookup(schema, name, parquet.Int64, parquet.Int32)
}

// FlagColumn resolves a boolean flag column.
//
// Returns:
//   - Column: Resolved column
//   - error: ErrSchemaMismatch when absent or not BOOLEAN
func FlagColumn(schema *parquet.Schema, name string) (Column, error) {
	return lookup(schema, name, parquet.Boolean)
}

func lookup(schema *parquet.Schema, name string, kinds ...parquet.Kind) (Column, error) {
	leaf, ok := schema.Lookup(name)
	if !ok {
		return Column{}, fmt.Errorf("%w: column %q not found", types.ErrSchemaMismatch, name)
	}
	if leaf.MaxRepetitionLevel > 0 {
		return Column{}, fmt.Errorf("%w: column %q is repeated", types.ErrSchemaMismatch, name)
	}

	kind := leaf.Node.Type().Kind()
	for _, k := range kinds {
		if kind == k {
			return Column{Name: name, Index: leaf.ColumnIndex, Kind: kind}, nil
		}
	}

	return Column{}, fmt.Errorf("%w: column %q has type %s, want %v", types.ErrSchemaMismatch, name, kind, kinds)
}

// Value returns the value of this column in row.
//
// Rows of flat schemas hold one value per column in column order, so the direct
// index is tried first; otherwise the row is scanned.
func (c Column) Value(row parquet.Row) (parquet.Value, bool) {
	if c.Index < len(row) && row[c.Index].Column() == c.Index {
		return row[c.Index], true
	}
	for _, v := range row {
		if v.Column() == c.Index {
			return v, true
		}
	}

	return parquet.Value{}, false
}

// Int64 returns the identifier in row. Null or absent values report false.
func (c Column) Int64(row parquet.Row) (int64, bool) {
	v, ok := c.Value(row)
	if !ok || v.IsNull() {
		return 0, false
	}

	switch v.Kind() {
	case parquet.Int64:
		return v.Int64(), true
	case parquet.Int32:
		return int64(v.Int32()), true
	default:
		return 0, false
	}
}

// Bool returns the flag in row. Null or absent values are false.
func (c Column) Bool(row parquet.Row) bool {
	v, ok := c.Value(row)
	if !ok || v.IsNull() || v.Kind() != parquet.Boolean {
		return false
	}

	return v.Boolean()
}

// Package hash provides xxh3-based hashing for entity identifiers.
//
// Two uses share the same encoding (little-endian 8-byte identifier):
//   - Unit maps an identifier to a uniform value in [0, 1) for keyed draws
//   - Accumulator fingerprints identifier sets independently of insertion order
package hash

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// unitScale is 2^-53, the spacing of float64 values in [0, 1).
const unitScale = 1.0 / (1 << 53)

// Unit maps an identifier to a uniform value in [0, 1).
//
// The top 53 bits of the seeded hash become the mantissa, so every result
// is exactly representable and strictly below 1.
//
// Parameters:
//   - id: Entity identifier
//   - seed: Hash seed
//
// Returns:
//   - float64: Value in [0, 1)
func Unit(id int64, seed uint64) float64 {
	return float64(ID(id, seed)>>11) * unitScale
}

// ID hashes an identifier with the given seed.
func ID(id int64, seed uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id)) //nolint:gosec // bit pattern reinterpretation

	return xxh3.HashSeed(b[:], seed)
}

// Accumulator builds an order-independent fingerprint of a multiset of identifiers.
//
// Per-identifier hashes are combined with wrapping addition, which is commutative,
// so the same members yield the same Sum regardless of the order they were added.
type Accumulator struct {
	seed  uint64
	sum   uint64
	count uint64
}

// NewAccumulator creates an accumulator whose member hashes use seed.
func NewAccumulator(seed uint64) *Accumulator {
	return &Accumulator{seed: seed}
}

// Add folds one identifier into the fingerprint.
func (a *Accumulator) Add(id int64) {
	a.sum += ID(id, a.seed)
	a.count++
}

// Sum returns the fingerprint, mixing in the member count.
func (a *Accumulator) Sum() uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], a.sum)
	binary.LittleEndian.PutUint64(b[8:], a.count)

	return xxh3.HashSeed(b[:], a.seed)
}

// Combine folds an ordered list of fingerprints into one value.
//
// Unlike Accumulator, position matters: swapping two inputs changes the result.
func Combine(parts ...uint64) uint64 {
	buf := make([]byte, 8*len(parts))
	for i, p := range parts {
		binary.LittleEndian.PutUint64(buf[8*i:], p)
	}

	return xxh3.Hash(buf)
}

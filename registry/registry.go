// Package registry holds the disjoint identifier sets produced by partition assignment.
//
// A Registry is built once by the assigner, frozen, and then shared read-only by
// every table pass. After Freeze it is safe for concurrent readers without locking.
package registry

import (
	"fmt"

	"github.com/arloliu/subsample/internal/hash"
	"github.com/arloliu/subsample/types"
)

// digestSeed keys member hashes in Digest. Changing it changes every recorded digest.
const digestSeed = 0x5eed5a3b1e

// Registry is an ordered collection of N identifier sets, index-aligned with the
// partition spec.
//
// Writes are not synchronized; build a Registry from a single goroutine and
// call Freeze before sharing it.
type Registry struct {
	sets   []map[int64]struct{}
	frozen bool
}

// New creates a registry with n empty partitions.
//
// Parameters:
//   - n: Number of partitions (must be > 0)
//
// Returns:
//   - *Registry: Empty, writable registry
//   - error: ErrInvalidConfiguration if n <= 0
func New(n int) (*Registry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: partition count must be positive, got %d", types.ErrInvalidConfiguration, n)
	}

	sets := make([]map[int64]struct{}, n)
	for i := range sets {
		sets[i] = make(map[int64]struct{})
	}

	return &Registry{sets: sets}, nil
}

// Add records id as a member of partition i.
//
// Parameters:
//   - i: Partition index in [0, Len())
//   - id: Entity identifier
//
// Returns:
//   - error: ErrRegistryFrozen after Freeze, ErrPartitionOutOfRange for a bad index
func (r *Registry) Add(i int, id int64) error {
	if r.frozen {
		return types.ErrRegistryFrozen
	}
	if err := r.checkIndex(i); err != nil {
		return err
	}

	r.sets[i][id] = struct{}{}

	return nil
}

// Set returns the members of partition i.
//
// The returned map is owned by the registry and must not be modified.
func (r *Registry) Set(i int) (map[int64]struct{}, error) {
	if err := r.checkIndex(i); err != nil {
		return nil, err
	}

	return r.sets[i], nil
}

// Contains reports whether id belongs to partition i. Out-of-range indexes report false.
func (r *Registry) Contains(i int, id int64) bool {
	if i < 0 || i >= len(r.sets) {
		return false
	}
	_, ok := r.sets[i][id]

	return ok
}

// Lookup returns the first partition containing id.
//
// Returns:
//   - int: Partition index, or -1 when id is in no partition
//   - bool: True when a partition was found
func (r *Registry) Lookup(id int64) (int, bool) {
	for i, set := range r.sets {
		if _, ok := set[id]; ok {
			return i, true
		}
	}

	return -1, false
}

// Len returns the number of partitions.
func (r *Registry) Len() int {
	return len(r.sets)
}

// Sizes returns the member count of each partition.
func (r *Registry) Sizes() []int {
	sizes := make([]int, len(r.sets))
	for i, set := range r.sets {
		sizes[i] = len(set)
	}

	return sizes
}

// Total returns the number of identifiers across all partitions.
func (r *Registry) Total() int {
	total := 0
	for _, set := range r.sets {
		total += len(set)
	}

	return total
}

// Freeze makes the registry read-only. Calling it more than once is harmless.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Digest returns a fingerprint of the registry membership.
//
// Each partition is fingerprinted independently of insertion order, and the
// partition fingerprints are combined in index order. Two registries have equal
// digests exactly when they agree on every partition's members, up to hash collisions.
func (r *Registry) Digest() uint64 {
	parts := make([]uint64, len(r.sets))
	for i, set := range r.sets {
		acc := hash.NewAccumulator(digestSeed)
		for id := range set {
			acc.Add(id)
		}
		parts[i] = acc.Sum()
	}

	return hash.Combine(parts...)
}

// Validate verifies that no identifier belongs to more than one partition.
//
// Returns:
//   - error: ErrNotDisjoint naming the first offending identifier and partitions
func (r *Registry) Validate() error {
	seen := make(map[int64]int, r.Total())
	for i, set := range r.sets {
		for id := range set {
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("%w: id %d in partitions %d and %d", types.ErrNotDisjoint, id, prev, i)
			}
			seen[id] = i
		}
	}

	return nil
}

func (r *Registry) checkIndex(i int) error {
	if i < 0 || i >= len(r.sets) {
		return fmt.Errorf("%w: %d not in [0, %d)", types.ErrPartitionOutOfRange, i, len(r.sets))
	}

	return nil
}

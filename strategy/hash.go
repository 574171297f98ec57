package strategy

import (
	"github.com/arloliu/subsample/internal/hash"
	"github.com/arloliu/subsample/types"
)

// Hash derives each draw from an xxh3 hash of the entity id keyed by the seed.
//
// Because the draw for an id never depends on the rows before it, inserting,
// removing or reordering primary-table rows leaves every other entity's
// partition unchanged.
type Hash struct{}

var _ types.DrawStrategy = (*Hash)(nil)

// NewHash creates the keyed strategy.
func NewHash() *Hash {
	return &Hash{}
}

// Name returns "hash".
func (s *Hash) Name() string {
	return NameHash
}

// NewDrawer returns a keyed drawer for seed.
func (s *Hash) NewDrawer(seed int64) types.Drawer {
	return hashDrawer{seed: uint64(seed)} //nolint:gosec // seed bits reused as-is
}

type hashDrawer struct {
	seed uint64
}

func (d hashDrawer) Draw(id int64) float64 {
	return hash.Unit(id, d.seed)
}

package types

// DrawStrategy creates seeded uniform draws used to assign entities to partitions.
//
// Implementations must be deterministic: the same seed and the same sequence of
// Draw calls yield the same values. Strategies may be sequential (the value depends
// only on how many draws came before) or keyed (the value depends only on the id).
type DrawStrategy interface {
	// Name returns the strategy identifier recorded in run manifests.
	Name() string

	// NewDrawer returns a fresh generator for one assignment pass.
	//
	// Parameters:
	//   - seed: Determinism anchor
	//
	// Returns:
	//   - Drawer: Generator owned by the caller
	NewDrawer(seed int64) Drawer
}

// Drawer produces one uniform value in [0, 1) per qualifying entity.
//
// A Drawer is not safe for concurrent use.
type Drawer interface {
	// Draw returns the next value for the entity id.
	Draw(id int64) float64
}

// Package strategy provides built-in draw strategy implementations.
//
// Draw strategies produce the uniform value each qualifying entity is compared
// against the cumulative partition thresholds. The package includes three
// built-in strategies:
//
//   - MersenneTwister: MT19937 seeded and scaled exactly like CPython's random.random()
//   - PCG: math/rand/v2 PCG generator
//   - Hash: keyed xxh3 draw of (seed, id), independent of scan order
//
// # Strategy Selection Guide
//
// MersenneTwister (default):
//   - Use to reproduce samples produced by Python tooling with the same seed
//   - Sequential: one draw per qualifying row, in primary-table row order
//
// PCG:
//   - Use when Python compatibility is irrelevant and speed matters
//   - Sequential, same ordering requirement as MersenneTwister
//
// Hash:
//   - Use when the primary table may be rewritten or reordered between runs
//   - Keyed: an entity's draw depends only on its identifier and the seed
//
// Custom strategies can be implemented by satisfying the types.DrawStrategy interface.
package strategy

package strategy

import (
	"fmt"
	"strings"

	"github.com/arloliu/subsample/types"
)

// Strategy names accepted by Parse and recorded in manifests.
const (
	NameMersenneTwister = "mt19937"
	NamePCG             = "pcg"
	NameHash            = "hash"
)

// Names lists the built-in strategy names.
func Names() []string {
	return []string{NameMersenneTwister, NamePCG, NameHash}
}

// Parse returns the built-in strategy with the given name.
//
// Parameters:
//   - name: One of "mt19937", "pcg", "hash" (case-insensitive)
//
// Returns:
//   - types.DrawStrategy: The strategy
//   - error: ErrUnknownStrategy for any other name
//
// Example:
//
//	s, err := strategy.Parse(cfg.Strategy)
//	if err != nil { /* handle */ }
//	drawer := s.NewDrawer(cfg.Seed)
func Parse(name string) (types.DrawStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameMersenneTwister:
		return NewMersenneTwister(), nil
	case NamePCG:
		return NewPCG(), nil
	case NameHash:
		return NewHash(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
	}
}

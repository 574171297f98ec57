package strategy

import (
	"math/rand/v2"

	"github.com/arloliu/subsample/types"
)

// pcgStream is the fixed PCG increment; only the seed varies between runs.
const pcgStream = 0x9e3779b97f4a7c15

// PCG draws from the math/rand/v2 PCG generator.
type PCG struct{}

var _ types.DrawStrategy = (*PCG)(nil)

// NewPCG creates the PCG sequential strategy.
func NewPCG() *PCG {
	return &PCG{}
}

// Name returns "pcg".
func (s *PCG) Name() string {
	return NamePCG
}

// NewDrawer returns a PCG generator seeded from seed.
func (s *PCG) NewDrawer(seed int64) types.Drawer {
	return &pcgDrawer{rng: rand.New(rand.NewPCG(uint64(seed), pcgStream))} //nolint:gosec // seed bits reused as-is
}

type pcgDrawer struct {
	rng *rand.Rand
}

func (d *pcgDrawer) Draw(_ int64) float64 {
	return d.rng.Float64()
}

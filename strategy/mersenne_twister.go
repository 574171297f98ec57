package strategy

import "github.com/arloliu/subsample/types"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// MersenneTwister draws from MT19937 seeded the way CPython's random.seed(int) does.
//
// Given the same integer seed, the sequence of Draw values equals the sequence of
// random.random() results in CPython, so subsamples produced by Python tooling can
// be reproduced bit for bit.
type MersenneTwister struct{}

var _ types.DrawStrategy = (*MersenneTwister)(nil)

// NewMersenneTwister creates the CPython-compatible sequential strategy.
//
// Returns:
//   - *MersenneTwister: Stateless strategy; state lives in each Drawer
func NewMersenneTwister() *MersenneTwister {
	return &MersenneTwister{}
}

// Name returns "mt19937".
func (s *MersenneTwister) Name() string {
	return NameMersenneTwister
}

// NewDrawer returns a generator seeded from seed.
//
// CPython seeds from the absolute value of the integer, split into 32-bit words
// least significant first, so negative seeds share a stream with their magnitude.
func (s *MersenneTwister) NewDrawer(seed int64) types.Drawer {
	mag := uint64(seed) //nolint:gosec // magnitude computed below
	if seed < 0 {
		mag = -mag
	}

	key := []uint32{uint32(mag)} //nolint:gosec // low word
	if hi := uint32(mag >> 32); hi != 0 {
		key = append(key, hi)
	}

	m := &mt19937{}
	m.seedByArray(key)

	return m
}

// mt19937 is the generator state. It is not safe for concurrent use.
type mt19937 struct {
	state [mtN]uint32
	index int
}

func (m *mt19937) seed(s uint32) {
	m.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i) //nolint:gosec // i < mtN
	}
	m.index = mtN
}

func (m *mt19937) seedByArray(key []uint32) {
	m.seed(19650218)

	i, j := 1, 0
	for k := max(mtN, len(key)); k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j) //nolint:gosec // j < len(key)
		i++
		j++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}

	for k := mtN - 1; k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i) //nolint:gosec // i < mtN
		i++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
	}

	m.state[0] = 0x80000000 // non-zero initial array
	m.index = mtN
}

func (m *mt19937) twist() {
	for k := range mtN {
		y := (m.state[k] & mtUpperMask) | (m.state[(k+1)%mtN] & mtLowerMask)
		v := m.state[(k+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			v ^= mtMatrixA
		}
		m.state[k] = v
	}
	m.index = 0
}

// Uint32 returns the next tempered 32-bit output.
func (m *mt19937) Uint32() uint32 {
	if m.index >= mtN {
		m.twist()
	}

	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18

	return y
}

// Draw returns a 53-bit float in [0, 1) built from two outputs, as random.random() does.
// The id is ignored; the value depends only on the number of previous draws.
func (m *mt19937) Draw(_ int64) float64 {
	a := m.Uint32() >> 5
	b := m.Uint32() >> 6

	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

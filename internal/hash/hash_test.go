package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnit(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		for _, id := range []int64{0, 1, 42, -7, 1 << 40} {
			require.Equal(t, Unit(id, 42), Unit(id, 42), "id %d not consistent", id)
		}
	})

	t.Run("depends on seed", func(t *testing.T) {
		differs := 0
		for id := range int64(100) {
			if Unit(id, 1) != Unit(id, 2) {
				differs++
			}
		}
		require.Greater(t, differs, 95)
	})

	t.Run("stays in unit interval and spreads evenly", func(t *testing.T) {
		const n = 100_000
		buckets := make([]int, 10)
		for id := range int64(n) {
			u := Unit(id, 7)
			require.GreaterOrEqual(t, u, 0.0)
			require.Less(t, u, 1.0)
			buckets[int(u*10)]++
		}

		// Each decile should hold roughly 10% (allow 10% relative variance)
		for i, count := range buckets {
			require.InDelta(t, n/10, count, n/100, "decile %d skewed", i)
		}
	})
}

func TestAccumulator(t *testing.T) {
	t.Run("order independent", func(t *testing.T) {
		a := NewAccumulator(1)
		b := NewAccumulator(1)
		for _, id := range []int64{5, 3, 9, 1} {
			a.Add(id)
		}
		for _, id := range []int64{1, 9, 3, 5} {
			b.Add(id)
		}

		require.Equal(t, a.Sum(), b.Sum())
	})

	t.Run("membership changes the sum", func(t *testing.T) {
		a := NewAccumulator(1)
		b := NewAccumulator(1)
		a.Add(1)
		a.Add(2)
		b.Add(1)
		b.Add(3)

		require.NotEqual(t, a.Sum(), b.Sum())
	})

	t.Run("empty sets with different seeds differ", func(t *testing.T) {
		require.NotEqual(t, NewAccumulator(1).Sum(), NewAccumulator(2).Sum())
	})
}

func TestCombine(t *testing.T) {
	require.Equal(t, Combine(1, 2, 3), Combine(1, 2, 3))
	require.NotEqual(t, Combine(1, 2), Combine(2, 1))
}

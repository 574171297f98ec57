package registry

import (
	"testing"

	"github.com/arloliu/subsample/types"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("creates empty partitions", func(t *testing.T) {
		r, err := New(3)
		require.NoError(t, err)
		require.Equal(t, 3, r.Len())
		require.Equal(t, []int{0, 0, 0}, r.Sizes())
		require.False(t, r.Frozen())
	})

	t.Run("rejects non-positive count", func(t *testing.T) {
		_, err := New(0)
		require.ErrorIs(t, err, types.ErrInvalidConfiguration)

		_, err = New(-2)
		require.ErrorIs(t, err, types.ErrInvalidConfiguration)
	})
}

func TestRegistry_AddAndLookup(t *testing.T) {
	r, err := New(2)
	require.NoError(t, err)

	require.NoError(t, r.Add(0, 1))
	require.NoError(t, r.Add(1, 4))
	require.NoError(t, r.Add(1, 6))

	t.Run("contains", func(t *testing.T) {
		require.True(t, r.Contains(0, 1))
		require.False(t, r.Contains(1, 1))
		require.True(t, r.Contains(1, 6))
		require.False(t, r.Contains(5, 1))
		require.False(t, r.Contains(-1, 1))
	})

	t.Run("lookup returns first partition", func(t *testing.T) {
		idx, ok := r.Lookup(4)
		require.True(t, ok)
		require.Equal(t, 1, idx)

		idx, ok = r.Lookup(2)
		require.False(t, ok)
		require.Equal(t, -1, idx)
	})

	t.Run("set and sizes", func(t *testing.T) {
		set, err := r.Set(1)
		require.NoError(t, err)
		require.Len(t, set, 2)
		require.Equal(t, []int{1, 2}, r.Sizes())
		require.Equal(t, 3, r.Total())

		_, err = r.Set(2)
		require.ErrorIs(t, err, types.ErrPartitionOutOfRange)
	})

	t.Run("add out of range", func(t *testing.T) {
		require.ErrorIs(t, r.Add(2, 9), types.ErrPartitionOutOfRange)
		require.ErrorIs(t, r.Add(-1, 9), types.ErrPartitionOutOfRange)
	})

	t.Run("duplicate add is idempotent", func(t *testing.T) {
		require.NoError(t, r.Add(0, 1))
		require.Equal(t, []int{1, 2}, r.Sizes())
	})
}

func TestRegistry_Freeze(t *testing.T) {
	r, err := New(1)
	require.NoError(t, err)
	require.NoError(t, r.Add(0, 10))

	r.Freeze()
	r.Freeze()

	require.True(t, r.Frozen())
	require.ErrorIs(t, r.Add(0, 11), types.ErrRegistryFrozen)
	require.True(t, r.Contains(0, 10))
	require.False(t, r.Contains(0, 11))
}

func TestRegistry_Digest(t *testing.T) {
	build := func(t *testing.T, members [][]int64) *Registry {
		t.Helper()
		r, err := New(len(members))
		require.NoError(t, err)
		for i, ids := range members {
			for _, id := range ids {
				require.NoError(t, r.Add(i, id))
			}
		}

		return r
	}

	t.Run("independent of insertion order", func(t *testing.T) {
		a := build(t, [][]int64{{1, 2, 3}, {7, 8}})
		b := build(t, [][]int64{{3, 1, 2}, {8, 7}})
		require.Equal(t, a.Digest(), b.Digest())
	})

	t.Run("sensitive to partition placement", func(t *testing.T) {
		a := build(t, [][]int64{{1}, {2}})
		b := build(t, [][]int64{{2}, {1}})
		require.NotEqual(t, a.Digest(), b.Digest())
	})

	t.Run("sensitive to membership", func(t *testing.T) {
		a := build(t, [][]int64{{1, 2}, {}})
		b := build(t, [][]int64{{1, 3}, {}})
		require.NotEqual(t, a.Digest(), b.Digest())
	})

	t.Run("empty registries with different partition counts differ", func(t *testing.T) {
		a := build(t, [][]int64{{}})
		b := build(t, [][]int64{{}, {}})
		require.NotEqual(t, a.Digest(), b.Digest())
	})
}

func TestRegistry_Validate(t *testing.T) {
	t.Run("disjoint registry passes", func(t *testing.T) {
		r, err := New(2)
		require.NoError(t, err)
		require.NoError(t, r.Add(0, 1))
		require.NoError(t, r.Add(1, 2))
		require.NoError(t, r.Validate())
	})

	t.Run("overlap is reported", func(t *testing.T) {
		r, err := New(2)
		require.NoError(t, err)
		require.NoError(t, r.Add(0, 5))
		require.NoError(t, r.Add(1, 5))

		err = r.Validate()
		require.ErrorIs(t, err, types.ErrNotDisjoint)
		require.Contains(t, err.Error(), "id 5")
	})
}

package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/subsample/types"
)

func TestNewNop(t *testing.T) {
	h := NewNop()
	ctx := context.Background()

	require.NoError(t, h.OnRegistryBuilt(ctx, []int{1, 2}))
	require.NoError(t, h.OnTablePartitioned(ctx, types.TableSummary{Table: "papers"}))
	require.NoError(t, h.OnWarning(ctx, errors.New("missing")))
}

func TestFill(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		h := Fill(nil)
		require.NotNil(t, h.OnRegistryBuilt)
		require.NotNil(t, h.OnTablePartitioned)
		require.NotNil(t, h.OnWarning)
	})

	t.Run("keeps caller callbacks", func(t *testing.T) {
		var warned error
		h := Fill(&types.Hooks{
			OnWarning: func(_ context.Context, err error) error {
				warned = err
				return nil
			},
		})

		require.NoError(t, h.OnWarning(context.Background(), types.ErrMissingOptionalInput))
		require.ErrorIs(t, warned, types.ErrMissingOptionalInput)
		require.NoError(t, h.OnRegistryBuilt(context.Background(), nil))
	})
}

// Package hooks provides default lifecycle hook implementations.
package hooks

import (
	"context"

	"github.com/arloliu/subsample/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, []int) error              = (*NopHooks)(nil).OnRegistryBuilt
	_ func(context.Context, types.TableSummary) error = (*NopHooks)(nil).OnTablePartitioned
	_ func(context.Context, error) error              = (*NopHooks)(nil).OnWarning
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnRegistryBuilt:    h.OnRegistryBuilt,
		OnTablePartitioned: h.OnTablePartitioned,
		OnWarning:          h.OnWarning,
	}
}

// Fill returns hooks with every nil callback replaced by its no-op version.
//
// Parameters:
//   - h: Caller hooks (may be nil)
//
// Returns:
//   - types.Hooks: Hooks safe to call without nil checks
func Fill(h *types.Hooks) types.Hooks {
	nop := NewNop()
	if h == nil {
		return nop
	}

	out := *h
	if out.OnRegistryBuilt == nil {
		out.OnRegistryBuilt = nop.OnRegistryBuilt
	}
	if out.OnTablePartitioned == nil {
		out.OnTablePartitioned = nop.OnTablePartitioned
	}
	if out.OnWarning == nil {
		out.OnWarning = nop.OnWarning
	}

	return out
}

// OnRegistryBuilt is a no-op implementation.
func (h *NopHooks) OnRegistryBuilt(_ context.Context, _ []int) error {
	return nil
}

// OnTablePartitioned is a no-op implementation.
func (h *NopHooks) OnTablePartitioned(_ context.Context, _ types.TableSummary) error {
	return nil
}

// OnWarning is a no-op implementation.
func (h *NopHooks) OnWarning(_ context.Context, _ error) error {
	return nil
}

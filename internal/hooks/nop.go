package hooks

import (
	"context"

	"github.com/arloliu/allot/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, *types.Result) error             = (*NopHooks)(nil).OnPlanCompleted
	_ func(context.Context, types.NoCandidateWarning) error = (*NopHooks)(nil).OnTaskUnassigned
	_ func(context.Context, error) error                     = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnPlanCompleted:  h.OnPlanCompleted,
		OnTaskUnassigned: h.OnTaskUnassigned,
		OnError:          h.OnError,
	}
}

// WithDefaults returns a copy of h whose nil callbacks are replaced by no-ops.
// A nil h yields NewNop().
func WithDefaults(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnPlanCompleted != nil {
		out.OnPlanCompleted = h.OnPlanCompleted
	}
	if h.OnTaskUnassigned != nil {
		out.OnTaskUnassigned = h.OnTaskUnassigned
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnPlanCompleted is a no-op implementation.
func (h *NopHooks) OnPlanCompleted(ctx context.Context, result *types.Result) error {
	return nil
}

// OnTaskUnassigned is a no-op implementation.
func (h *NopHooks) OnTaskUnassigned(ctx context.Context, warning types.NoCandidateWarning) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}

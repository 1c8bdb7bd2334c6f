package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/arloliu/allot/types"
	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnPlanCompleted)
	require.NotNil(t, hooks.OnTaskUnassigned)
	require.NotNil(t, hooks.OnError)
}

func TestNopHooks_Callbacks(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	require.NoError(t, hooks.OnPlanCompleted(ctx, &types.Result{Strategy: "greedy"}))
	require.NoError(t, hooks.OnPlanCompleted(ctx, nil))
	require.NoError(t, hooks.OnTaskUnassigned(ctx, types.NoCandidateWarning{TaskID: "T1"}))
	require.NoError(t, hooks.OnError(ctx, errors.New("boom")))
}

func TestWithDefaults(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		h := WithDefaults(nil)
		require.NotNil(t, h.OnPlanCompleted)
		require.NotNil(t, h.OnTaskUnassigned)
		require.NotNil(t, h.OnError)
	})

	t.Run("partial hooks keep user callbacks", func(t *testing.T) {
		var seen []string
		h := WithDefaults(&types.Hooks{
			OnTaskUnassigned: func(_ context.Context, w types.NoCandidateWarning) error {
				seen = append(seen, w.TaskID)
				return nil
			},
		})

		require.NoError(t, h.OnTaskUnassigned(context.Background(), types.NoCandidateWarning{TaskID: "T9"}))
		require.NoError(t, h.OnPlanCompleted(context.Background(), &types.Result{}))
		require.Equal(t, []string{"T9"}, seen)
	})
}

package logging

import (
	"testing"

	"github.com/arloliu/allot/types"
	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	var _ types.Logger = logger

	require.NotPanics(t, func() {
		logger.Debug("candidate ranked", "task_id", "T1", "person_id", "P1")
		logger.Info("plan completed", "assignments", 3)
		logger.Warn("no candidate", "task_id", "T2")
		logger.Error("publish failed", "err", "boom")
		logger.Fatal("unreachable", "k", "v") // must not exit
	})
}

func TestNopLogger_OddArguments(t *testing.T) {
	logger := NewNop()

	require.NotPanics(t, func() {
		logger.Debug("")
		logger.Info("", nil)
		logger.Error("message", "single")
	})
}

func BenchmarkNopLogger(b *testing.B) {
	logger := NewNop()

	for b.Loop() {
		logger.Debug("generation evolved", "generation", 1, "best_fitness", 42.0)
	}
}

package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJitterBackoff_BoundsAndCap(t *testing.T) {
	base := 200 * time.Millisecond
	capDur := 500 * time.Millisecond
	rng := newRetryRNG(42)

	prev := time.Duration(0)
	for range 10 {
		next := jitterBackoff(prev, base, 1.6, capDur, rng)
		require.GreaterOrEqual(t, next, base)
		require.LessOrEqual(t, next, capDur)
		prev = next
	}
}

func TestJitterBackoff_Guards(t *testing.T) {
	require.Equal(t, 50*time.Millisecond, jitterBackoff(0, 0, 2, 0, nil), "zero base uses 50ms")
	require.Equal(t, 100*time.Millisecond, jitterBackoff(0, 100*time.Millisecond, 2, 0, nil), "first delay is base")
	require.Equal(t, 10*time.Millisecond, jitterBackoff(time.Second, 100*time.Millisecond, 2, 10*time.Millisecond, nil), "cap below base wins")

	// mult < 1 means no growth beyond prev.
	next := jitterBackoff(300*time.Millisecond, 100*time.Millisecond, 0.5, 0, newRetryRNG(1))
	require.GreaterOrEqual(t, next, 100*time.Millisecond)
	require.Less(t, next, 300*time.Millisecond)
}

func TestJitterBackoff_SeededIsDeterministic(t *testing.T) {
	a, b := newRetryRNG(7), newRetryRNG(7)
	prevA, prevB := time.Duration(0), time.Duration(0)
	for range 8 {
		prevA = jitterBackoff(prevA, 50*time.Millisecond, 2, time.Second, a)
		prevB = jitterBackoff(prevB, 50*time.Millisecond, 2, time.Second, b)
		require.Equal(t, prevA, prevB)
	}
	require.Nil(t, newRetryRNG(0))
}

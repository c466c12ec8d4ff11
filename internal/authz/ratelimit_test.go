package authz_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vettore-hr/vettore/internal/authz"
)

func TestSlidingWindowLimiter(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	limiter := authz.NewSlidingWindowLimiter(3, time.Minute).
		WithClock(func() time.Time { return clock })

	const principal = int64(7)

	require.True(t, limiter.Allow(principal))
	require.True(t, limiter.Allow(principal))
	require.True(t, limiter.Allow(principal))
	require.False(t, limiter.Allow(principal))

	// Other principals keep their own window.
	require.True(t, limiter.Allow(8))

	// Past the window the principal is admitted again.
	clock = clock.Add(61 * time.Second)
	require.True(t, limiter.Allow(principal))
}

func TestSlidingWindowPartialExpiry(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	limiter := authz.NewSlidingWindowLimiter(2, time.Minute).
		WithClock(func() time.Time { return clock })

	require.True(t, limiter.Allow(1))
	clock = clock.Add(40 * time.Second)
	require.True(t, limiter.Allow(1))
	require.False(t, limiter.Allow(1))

	// The first hit leaves the window; one slot frees up.
	clock = clock.Add(21 * time.Second)
	require.True(t, limiter.Allow(1))
	require.False(t, limiter.Allow(1))
}

func TestSlidingWindowEvictsStalePrincipals(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	limiter := authz.NewSlidingWindowLimiter(5, time.Minute).
		WithClock(func() time.Time { return clock })

	for id := int64(1); id <= 50; id++ {
		require.True(t, limiter.Allow(id))
	}
	require.Equal(t, 50, limiter.Len())

	// After a full window every historical principal is swept.
	clock = clock.Add(2 * time.Minute)
	require.True(t, limiter.Allow(1))
	require.Equal(t, 1, limiter.Len())
}

func TestLimiterDefaults(t *testing.T) {
	limiter := authz.NewSlidingWindowLimiter(0, 0)
	require.True(t, limiter.Allow(1))
}

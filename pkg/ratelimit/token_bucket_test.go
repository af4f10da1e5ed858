package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(l *KeyedLimiter, t *time.Time) {
	l.now = func() time.Time { return *t }
}

func TestKeyedLimiterBurstPerKey(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewKeyedLimiter(1, 2)
	fixedClock(l, &now)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "突发额度用完")
	assert.True(t, l.Allow("b"), "不同的键互不影响")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"), "一秒后补充一个令牌")
	assert.False(t, l.Allow("a"))
}

func TestKeyedLimiterRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewKeyedLimiter(2, 1)
	fixedClock(l, &now)

	assert.Equal(t, time.Duration(0), l.RetryAfter("a"), "RetryAfter 不消耗令牌")
	require.True(t, l.Allow("a"))
	assert.Equal(t, 500*time.Millisecond, l.RetryAfter("a"))
}

func TestKeyedLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewKeyedLimiter(1, 1).WithIdleTTL(time.Minute)
	fixedClock(l, &now)

	l.Allow("old")
	now = now.Add(2 * time.Minute)
	l.Allow("new")

	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.Len())
}

func TestKeyedLimiterWait(t *testing.T) {
	l := NewKeyedLimiter(1000, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Wait(ctx, "a"))
	require.NoError(t, l.Wait(ctx, "a"))

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	assert.Error(t, NewKeyedLimiter(0.001, 1).Wait(canceled, "x"))
}

func TestNewKeyedLimiterMinimumBurst(t *testing.T) {
	l := NewKeyedLimiter(1, 0)
	assert.True(t, l.Allow("a"))
}

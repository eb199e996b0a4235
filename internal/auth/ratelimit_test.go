package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("k", 2, time.Minute))
	assert.True(t, l.Allow("k", 2, time.Minute))
	assert.False(t, l.Allow("k", 2, time.Minute))

	// other keys have their own budget
	assert.True(t, l.Allow("other", 2, time.Minute))

	now = now.Add(time.Minute + time.Second)
	assert.True(t, l.Allow("k", 2, time.Minute))
}

func TestMemoryLimiterDropsExpiredBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }

	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		assert.True(t, l.Allow("/login|"+ip, 5, time.Minute))
	}
	assert.Len(t, l.buckets, 3)

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("/login|4.4.4.4", 5, time.Minute))
	assert.Len(t, l.buckets, 1)
}

func TestRedisLimiterWithoutClientFailsOpen(t *testing.T) {
	var l *RedisLimiter
	assert.True(t, l.Allow("k", 1, time.Minute))
	assert.True(t, NewRedisLimiter(nil).Allow("k", 1, time.Minute))
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limits map[string]Limit) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limits)
	rl.now = clock.now
	return rl, clock
}

func TestAllow_RefillsOverTime(t *testing.T) {
	rl, clock := newTestLimiter(map[string]Limit{ActionSendMessage: PerMinute(2)})

	ok, _ := rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok)
	ok, _ = rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok)

	ok, wait := rl.Allow("u1", ActionSendMessage)
	assert.False(t, ok)
	assert.InDelta(t, 30, wait.Seconds(), 0.5)

	// A denied call does not consume the next token.
	clock.advance(31 * time.Second)
	ok, _ = rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok)
}

func TestAllow_BucketsAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(map[string]Limit{ActionCreateDeal: PerHour(1)})

	ok, _ := rl.Allow("u1", ActionCreateDeal)
	assert.True(t, ok)
	ok, _ = rl.Allow("u1", ActionCreateDeal)
	assert.False(t, ok)

	ok, _ = rl.Allow("u2", ActionCreateDeal)
	assert.True(t, ok, "other users have their own bucket")
	ok, _ = rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok, "other actions have their own bucket")
}

func TestAllow_NilLimiterAllowsEverything(t *testing.T) {
	var rl *RateLimiter
	ok, wait := rl.Allow("u1", ActionReport)
	assert.True(t, ok)
	assert.Zero(t, wait)
}

func TestCleanup_DropsIdleBuckets(t *testing.T) {
	rl, clock := newTestLimiter(nil)

	rl.Allow("u1", ActionSendMessage)
	clock.advance(50 * time.Minute)
	rl.Allow("u2", ActionSendMessage)
	clock.advance(20 * time.Minute)

	rl.Cleanup()
	assert.Len(t, rl.buckets, 1)
	assert.Contains(t, rl.buckets, "u2:"+ActionSendMessage)
}

func TestPerMinute(t *testing.T) {
	assert.Equal(t, Limit{Burst: 10, Every: 6 * time.Second}, PerMinute(10))
	assert.Equal(t, Limit{Burst: 1, Every: time.Minute}, PerMinute(0))
	assert.Equal(t, Limit{Burst: 20, Every: 3 * time.Minute}, PerHour(20))
}

package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionCreateDeal  = "create_deal"
	ActionReport      = "report_seller"
	ActionSignup      = "signup"
)

// Limit describes a token bucket: Burst actions, refilled one every Every.
type Limit struct {
	Burst int
	Every time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one bucket per user and action.
type RateLimiter struct {
	limits       map[string]Limit
	defaultLimit Limit
	buckets      map[string]*bucket
	mutex        sync.Mutex
	now          func() time.Time
}

func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	// 10 messages a minute, 20 deal requests an hour
	merged := map[string]Limit{
		ActionSendMessage: {Burst: 10, Every: 6 * time.Second},
		ActionCreateDeal:  {Burst: 20, Every: 3 * time.Minute},
		ActionReport:      {Burst: 5, Every: 12 * time.Minute},
		ActionSignup:      {Burst: 5, Every: 12 * time.Second},
	}
	for action, l := range limits {
		merged[action] = l
	}

	return &RateLimiter{
		limits:       merged,
		defaultLimit: Limit{Burst: 20, Every: 3 * time.Second},
		buckets:      make(map[string]*bucket),
		now:          time.Now,
	}
}

// PerMinute builds a limit allowing n actions per minute.
func PerMinute(n int) Limit {
	if n <= 0 {
		n = 1
	}
	return Limit{Burst: n, Every: time.Minute / time.Duration(n)}
}

// PerHour builds a limit allowing n actions per hour.
func PerHour(n int) Limit {
	if n <= 0 {
		n = 1
	}
	return Limit{Burst: n, Every: time.Hour / time.Duration(n)}
}

// Allow consumes a token for userID/action. When the bucket is empty it
// reports how long until the next token.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	if rl == nil {
		return true, 0
	}

	key := userID + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		l, found := rl.limits[action]
		if !found {
			l = rl.defaultLimit
		}
		b = &bucket{limiter: rate.NewLimiter(rate.Every(l.Every), l.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup drops buckets idle for longer than an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every 30 minutes until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}

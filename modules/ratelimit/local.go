package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxIdleBuckets bounds the bucket map before idle buckets are swept.
const maxIdleBuckets = 10000

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is an in-process token bucket per key. The bucket holds
// RequestsPerWindow tokens and refills one every WindowSize/RequestsPerWindow.
type LocalLimiter struct {
	mu      sync.Mutex
	config  Config
	buckets map[string]*bucket
	now     func() time.Time
}

var _ Limiter = (*LocalLimiter)(nil)

// NewLocalLimiter creates an in-process limiter.
func NewLocalLimiter(config Config) *LocalLimiter {
	return &LocalLimiter{
		config:  config,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow takes a token from the key's bucket if one is available.
func (l *LocalLimiter) Allow(_ context.Context, key string) (*Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxIdleBuckets {
			l.sweep(now)
		}
		every := rate.Every(l.config.WindowSize / time.Duration(l.config.RequestsPerWindow))
		b = &bucket{limiter: rate.NewLimiter(every, l.config.RequestsPerWindow)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := &Result{ResetAt: now.Add(l.config.WindowSize)}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = true
		res.Remaining = int(b.limiter.TokensAt(now))
		return res, nil
	}

	r := b.limiter.ReserveN(now, 1)
	res.RetryAfter = r.DelayFrom(now)
	r.CancelAt(now)
	return res, nil
}

// sweep drops buckets that have been idle for a full window and are therefore full again.
func (l *LocalLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.config.WindowSize {
			delete(l.buckets, key)
		}
	}
}

// Close releases the buckets.
func (l *LocalLimiter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets = make(map[string]*bucket)
	return nil
}

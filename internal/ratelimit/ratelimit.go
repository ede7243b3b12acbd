package ratelimit

// Package ratelimit provides per-client request limiting. With Redis
// configured the window is shared across replicas (fixed one-minute window,
// INCR + EXPIRE); otherwise an in-process token bucket per client applies.

import (
	"context"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	// redisOpTimeout bounds each limiter round trip so a slow Redis cannot
	// stall request admission.
	redisOpTimeout = 200 * time.Millisecond

	// windowTTL keeps expired minute keys from accumulating.
	windowTTL = 65 * time.Second
)

// Limiter decides whether a client may issue another request.
type Limiter interface {
	Allow(ctx context.Context, client string) bool
}

// New picks the limiter implementation: unlimited when rpm is not positive,
// Redis-backed when a client is supplied, in-process otherwise.
func New(rdb *redis.Client, rpm int) Limiter {
	if rpm <= 0 {
		return noopLimiter{}
	}
	local := newLocalLimiter(rpm)
	if rdb == nil {
		return local
	}
	return &redisLimiter{rdb: rdb, rpm: rpm, fallback: local}
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) bool { return true }

// redisLimiter counts requests per client in a fixed one-minute window. On
// Redis errors it degrades to the in-process limiter rather than failing open
// or closed arbitrarily.
type redisLimiter struct {
	rdb      *redis.Client
	rpm      int
	fallback *localLimiter
}

func minuteKey(client string) string {
	return fmt.Sprintf("ratelimit:%s:%d", client, time.Now().Unix()/60)
}

func (l *redisLimiter) Allow(ctx context.Context, client string) bool {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	key := minuteKey(client)
	n, err := l.rdb.Incr(opCtx, key).Result()
	if err != nil {
		return l.fallback.Allow(ctx, client)
	}
	if n == 1 {
		_ = l.rdb.Expire(opCtx, key, windowTTL).Err()
	}
	return int(n) <= l.rpm
}

// localLimiter keeps one token bucket per client, refilling at rpm per
// minute with a burst of rpm.
type localLimiter struct {
	rpm     int
	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func newLocalLimiter(rpm int) *localLimiter {
	return &localLimiter{rpm: rpm, clients: make(map[string]*rate.Limiter)}
}

func (l *localLimiter) Allow(_ context.Context, client string) bool {
	l.mu.Lock()
	lim, ok := l.clients[client]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(l.rpm)/60.0), l.rpm)
		l.clients[client] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

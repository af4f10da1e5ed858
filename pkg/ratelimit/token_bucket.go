package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// 长时间没有请求的客户端会被清理
const defaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter 为每个键（通常是客户端 IP 或 API Key）维护独立的令牌桶
type KeyedLimiter struct {
	rate    rate.Limit
	burst   int
	idleTTL time.Duration

	mutex    sync.Mutex
	limiters map[string]*entry
	now      func() time.Time
}

// NewKeyedLimiter 创建按键限流器，burst 小于 1 时按 1 处理
func NewKeyedLimiter(rps float64, burst int) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		rate:     rate.Limit(rps),
		burst:    burst,
		idleTTL:  defaultIdleTTL,
		limiters: make(map[string]*entry),
		now:      time.Now,
	}
}

// WithIdleTTL 设置空闲条目的保留时间
func (l *KeyedLimiter) WithIdleTTL(ttl time.Duration) *KeyedLimiter {
	l.idleTTL = ttl
	return l
}

func (l *KeyedLimiter) get(key string) *rate.Limiter {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Allow 立即判断是否放行，不等待
func (l *KeyedLimiter) Allow(key string) bool {
	return l.get(key).AllowN(l.now(), 1)
}

// Wait 阻塞直到获得令牌或 ctx 结束
func (l *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return l.get(key).Wait(ctx)
}

// RetryAfter 下一个令牌可用前需要等待的时间
func (l *KeyedLimiter) RetryAfter(key string) time.Duration {
	lim := l.get(key)
	r := lim.ReserveN(l.now(), 1)
	defer r.CancelAt(l.now())
	return r.DelayFrom(l.now())
}

// Cleanup 删除空闲超过 idleTTL 的条目，返回删除数量
func (l *KeyedLimiter) Cleanup() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	cutoff := l.now().Add(-l.idleTTL)
	removed := 0
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// Len 当前跟踪的键数量
func (l *KeyedLimiter) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.limiters)
}

// StartJanitor 定期清理空闲条目，ctx 结束时退出
func (l *KeyedLimiter) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}

// Package ratelimit provides per-client rate limiting backed by token buckets
// from golang.org/x/time/rate.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// idleTTL is how long an unused bucket is kept before cleanup drops it.
const idleTTL = time.Hour

type bucket struct {
	limiter    *rate.Limiter
	burst      int
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket // client:endpoint:method -> bucket
	config      *Config
	stopCleanup chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.stopCleanup = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}

	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}

	// Unlimited endpoint (e.g., health check)
	if endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.getBucket(clientID+":"+endpoint+":"+method, endpointConfig, now)

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	info := Info{
		Allowed:   allowed,
		Limit:     endpointConfig.Limit,
		Remaining: max(int(tokens), 0),
		ResetTime: now.Add(untilTokens(b.limiter, float64(b.burst)-tokens)),
	}
	if !allowed {
		info.RetryAfter = untilTokens(b.limiter, 1-tokens)
	}
	return allowed, info
}

// untilTokens returns how long the limiter needs to accumulate n more tokens.
func untilTokens(lim *rate.Limiter, n float64) time.Duration {
	if n <= 0 || lim.Limit() <= 0 {
		return 0
	}
	return time.Duration(n / float64(lim.Limit()) * float64(time.Second))
}

// getBucket gets or creates the bucket for key and marks it as used.
func (l *Limiter) getBucket(key string, cfg *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.Limit
		}
		every := rate.Limit(float64(cfg.Limit) / cfg.Window.Seconds())
		b = &bucket{limiter: rate.NewLimiter(every, burst), burst: burst}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

// cleanup removes idle buckets until Stop is called.
func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.stopCleanup:
			return
		}
	}
}

// cleanupBuckets removes buckets that haven't been accessed within idleTTL.
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.stopCleanup != nil {
			close(l.stopCleanup)
		}
	})
}

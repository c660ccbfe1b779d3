package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// newTestLimiter returns a limiter whose clock only moves when the returned func is called.
func newTestLimiter(config *Config) (*Limiter, func(time.Duration)) {
	limiter := NewLimiter(config)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	limiter.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
	return limiter, advance
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/keywords", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/keywords", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
	if !info.ResetTime.After(limiter.now()) {
		t.Error("Expected reset time in the future")
	}
}

func TestLimiter_Refill(t *testing.T) {
	limiter, advance := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/score", Method: "POST", Limit: 60, Window: time.Minute, Burst: 2},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1", "/score", "POST"); !allowed {
			t.Fatalf("Expected burst request %d to be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow("10.0.0.1", "/score", "POST"); allowed {
		t.Fatal("Expected request after burst to be denied")
	}

	advance(time.Second)
	if allowed, _ := limiter.Allow("10.0.0.1", "/score", "POST"); !allowed {
		t.Error("Expected request to be allowed after one token refilled")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/score", "POST")
		if !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
		if info.Limit != 0 {
			t.Errorf("Expected limit 0 for whitelisted, got %d", info.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("192.168.1.1", "/keywords", "GET"); allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/score", "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
		if info.Limit != 0 {
			t.Errorf("Expected limit 0 when disabled, got %d", info.Limit)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(30),
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/score", "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 30 {
			t.Errorf("Expected limit 30, got %d", info.Limit)
		}
	}

	if allowed, _ := limiter.Allow("127.0.0.1", "/score", "POST"); allowed {
		t.Error("Expected 6th request to be denied")
	}

	// Buckets are per endpoint
	if allowed, _ := limiter.Allow("127.0.0.1", "/score/text", "POST"); !allowed {
		t.Error("Expected text scoring to have its own bucket")
	}

	allowed, info := limiter.Allow("127.0.0.1", "/reports", "GET")
	if !allowed {
		t.Error("Expected different endpoint to be allowed")
	}
	if info.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", info.Limit)
	}
}

func TestLimiter_StreamScoringLimited(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(60),
	})
	defer limiter.Stop()

	allowedCount := 0
	for i := 0; i < 200; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/score/stream", "POST"); allowed {
			allowedCount++
		}
	}
	if allowedCount != 10 {
		t.Errorf("Expected burst of 10 stream requests, got %d", allowedCount)
	}

	if c := MatchEndpoint("/score/stream", "POST", DefaultEndpointConfigs(60)); c == nil || c.Limit != 60 {
		t.Errorf("Expected /score/stream to use the scoring limit, got %+v", c)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/keywords", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, advance := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 4; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/keywords", "GET")
	}

	advance(2 * time.Hour)
	limiter.Allow("127.0.0.1", "/keywords", "GET")
	limiter.cleanupBuckets()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if len(limiter.buckets) != 1 {
		t.Errorf("Expected 1 bucket after cleanup, got %d", len(limiter.buckets))
	}
	if _, ok := limiter.buckets["127.0.0.1:/keywords:GET"]; !ok {
		t.Error("Expected recently used bucket to survive cleanup")
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	limiter.Stop()
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/keywords", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if info.Limit != 600 {
		t.Errorf("Expected default limit 600, got %d", info.Limit)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/score", Method: "POST", Limit: 5},
		{Path: "/reports/", Method: "GET", Limit: 7},
	}

	if c := MatchEndpoint("/health", "GET", configs); c == nil || c.Limit != 0 {
		t.Error("Expected /health to be unlimited")
	}
	if c := MatchEndpoint("/metrics", "GET", configs); c == nil || c.Limit != 0 {
		t.Error("Expected /metrics to be unlimited")
	}
	if c := MatchEndpoint("/score", "POST", configs); c == nil || c.Limit != 5 {
		t.Error("Expected exact match for /score")
	}
	if c := MatchEndpoint("/reports/abc", "GET", configs); c == nil || c.Limit != 7 {
		t.Error("Expected prefix match for /reports/")
	}
	if c := MatchEndpoint("/score", "GET", configs); c != nil {
		t.Error("Expected no match for different method")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_SCORE_LIMIT", "12")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")

	cfg := LoadConfig()
	if cfg.DefaultLimit != 42 {
		t.Errorf("Expected default limit 42, got %d", cfg.DefaultLimit)
	}
	if len(cfg.Whitelist) != 2 || !cfg.Whitelist["10.0.0.2"] {
		t.Errorf("Unexpected whitelist: %v", cfg.Whitelist)
	}
	if len(cfg.EndpointConfigs) != 2 || cfg.EndpointConfigs[0].Limit != 12 || cfg.EndpointConfigs[0].Burst != 2 {
		t.Errorf("Unexpected endpoint configs: %+v", cfg.EndpointConfigs)
	}
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	if LoadConfig().Enabled {
		t.Error("Expected rate limiting to be disabled")
	}
}

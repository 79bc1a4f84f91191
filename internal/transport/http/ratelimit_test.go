package http

import (
	"sync"
	"testing"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	limiter := newRateLimiter(2)

	if !limiter.allow() || !limiter.allow() {
		t.Fatal("first two frames must pass")
	}
	if limiter.allow() {
		t.Fatal("third frame must be rejected")
	}

	limiter.counter.Store(0)
	if !limiter.allow() {
		t.Fatal("frame after reset must pass")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(0)

	for i := 0; i < 100; i++ {
		if !limiter.allow() {
			t.Fatal("disabled limiter must always allow")
		}
	}
}

// Increments and resets run on different goroutines in the ws read
// loop; this is here for the race detector.
func TestRateLimiterConcurrentReset(t *testing.T) {
	limiter := newRateLimiter(1000)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			limiter.allow()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			limiter.counter.Store(0)
		}
	}()
	wg.Wait()

	if !limiter.allow() {
		t.Fatal("limiter should allow after resets")
	}
}

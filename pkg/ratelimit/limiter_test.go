package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if tb.Allow() {
		t.Error("request over capacity should be denied")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(2, 50*time.Millisecond)

	tb.Allow()
	tb.Allow()
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(60 * time.Millisecond)
	if !tb.Allow() {
		t.Error("bucket should refill after the period elapses")
	}
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(1, time.Minute)

	tb.Allow()
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}

	tb.Reset()
	if !tb.Allow() {
		t.Error("reset should restore capacity")
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(1, 50*time.Millisecond)

	tb.Allow()
	start := time.Now()
	tb.Wait()
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("wait returned too fast: %v", elapsed)
	}
}

func TestUnlimited(t *testing.T) {
	var limiter Limiter = Unlimited{}

	for i := 0; i < 100; i++ {
		if !limiter.Allow() {
			t.Fatal("unlimited limiter should always allow")
		}
	}
	limiter.Wait() // must not block
	limiter.Reset()
}

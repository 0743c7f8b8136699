package chatws

import (
	"testing"
	"time"
)

func TestMessageRateLimiter_BlocksOverLimit(t *testing.T) {
	l := NewMessageRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("u1") {
			t.Fatalf("Allow() #%d = false, want true", i+1)
		}
	}
	if l.Allow("u1") {
		t.Error("Allow() over limit = true, want false")
	}
	if !l.Allow("u2") {
		t.Error("Allow() for a different user = false, want true")
	}
}

func TestMessageRateLimiter_WindowSlides(t *testing.T) {
	l := NewMessageRateLimiter(2, 20*time.Millisecond)

	if !l.Allow("u1") || !l.Allow("u1") {
		t.Fatal("initial sends should be allowed")
	}
	if l.Allow("u1") {
		t.Fatal("third send inside window should be blocked")
	}

	time.Sleep(25 * time.Millisecond)
	if !l.Allow("u1") {
		t.Error("send after window elapsed should be allowed")
	}
}

func TestMessageRateLimiter_Forget(t *testing.T) {
	l := NewMessageRateLimiter(1, time.Minute)

	if !l.Allow("u1") {
		t.Fatal("first send should be allowed")
	}
	if l.Allow("u1") {
		t.Fatal("second send should be blocked")
	}

	l.Forget("u1")
	if !l.Allow("u1") {
		t.Error("send after Forget() should be allowed")
	}
}

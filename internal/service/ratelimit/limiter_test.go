package ratelimit

import (
	"testing"
	"time"
)

func TestAllowDrainsBucket(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 1) {
			t.Fatalf("call %d should be allowed", i)
		}
	}
	if l.Allow("k", 3, 1) {
		t.Fatalf("bucket should be empty")
	}
}

func TestAllowRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	if !l.Allow("k", 1, 0.5) {
		t.Fatalf("first call should be allowed")
	}
	if l.Allow("k", 1, 0.5) {
		t.Fatalf("second immediate call should be denied")
	}

	now = now.Add(2 * time.Second)
	if !l.Allow("k", 1, 0.5) {
		t.Fatalf("call after refill should be allowed")
	}
}

package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestInMemoryLimiterPerKey(t *testing.T) {
	l := NewInMemoryLimiter(1, time.Hour, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request should be limited")
	}
	if !l.Allow("b") {
		t.Error("other keys must have their own bucket")
	}

	now = now.Add(time.Hour)
	if !l.Allow("a") {
		t.Error("token should be refilled after the period")
	}
}

func TestInMemoryLimiterDropsIdleKeys(t *testing.T) {
	l := NewInMemoryLimiter(1, time.Second, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(2 * time.Minute)
	l.Allow("b")

	if _, ok := l.keys["a"]; ok {
		t.Error("idle key was not dropped")
	}
	if len(l.keys) != 1 {
		t.Errorf("expected 1 key, got %d", len(l.keys))
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		xff    string
		want   string
	}{
		{"10.0.0.1:5555", "", "10.0.0.1"},
		{"10.0.0.1:5555", "203.0.113.7, 10.0.0.1", "203.0.113.7"},
		{"10.0.0.1:5555", "garbage", "10.0.0.1"},
		{"[2001:db8::1]:443", "", "2001:db8::1"},
		{"not-an-ip", "", ""},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = tt.remote
		if tt.xff != "" {
			r.Header.Set("X-Forwarded-For", tt.xff)
		}
		if got := ClientIP(r); got != tt.want {
			t.Errorf("ClientIP(%q, %q) = %q; want %q", tt.remote, tt.xff, got, tt.want)
		}
	}
}

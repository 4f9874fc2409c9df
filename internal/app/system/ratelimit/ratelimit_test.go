package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/ratelimit"
)

func TestLimiter_AllowsBurstThenBlocks(t *testing.T) {
	l := ratelimit.New(3, time.Hour)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d blocked", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth request should be blocked")
	}
	if !l.Allow("other") {
		t.Error("keys should be independent")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Hour)
	defer l.Stop()

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected block")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected allow after reset")
	}
	if got := l.Remaining("fresh"); got != 1 {
		t.Errorf("Remaining(fresh) = %d", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded first hop", "10.0.0.1, 10.0.0.2", "", "1.1.1.1:80", "10.0.0.1"},
		{"real ip", "", "10.0.0.9", "1.1.1.1:80", "10.0.0.9"},
		{"remote addr", "", "", "192.0.2.4:5555", "192.0.2.4"},
		{"remote addr without port", "", "", "192.0.2.4", "192.0.2.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_PerEmail(t *testing.T) {
	ll := ratelimit.NewLoginLimiter(4, time.Hour)
	defer ll.Stop()

	r := httptest.NewRequest("POST", "/login", nil)
	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(r, "Alex@Uni.edu"); !ok {
			t.Fatalf("attempt %d blocked", i+1)
		}
	}
	ok, reason := ll.Check(r, "alex@uni.edu ")
	if ok || reason == "" {
		t.Errorf("third attempt for same account should be blocked (ok=%v)", ok)
	}
	ll.ResetEmail("alex@uni.edu")
	if ok, _ := ll.Check(r, "alex@uni.edu"); !ok {
		t.Error("expected allow after ResetEmail")
	}
	if ok, _ := ll.Check(r, "other@uni.edu"); ok {
		t.Error("IP budget of 4 should now be spent")
	}
}

package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/casadefe/internal/app/system/ratelimit"
)

func TestLimiter_AllowAndRemaining(t *testing.T) {
	l := ratelimit.New(2, time.Minute)

	if got := l.Remaining("a"); got != 2 {
		t.Errorf("Remaining before use: got %d, want 2", got)
	}
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request should be blocked")
	}
	if !l.Allow("b") {
		t.Error("other keys are independent")
	}

	l.Reset("a")
	if !l.Allow("a") {
		t.Error("Reset should clear the window")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "1.2.3.4:80", "10.0.0.9"},
		{"remote addr", nil, "1.2.3.4:5678", "1.2.3.4"},
		{"remote addr without port", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := ratelimit.NewLoginLimiter(100, 2)
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(r, "Ana@Example.com"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	ok, msg := ll.Check(r, " ana@example.com ")
	if ok || msg == "" {
		t.Errorf("third attempt for same login: got (%v, %q), want blocked with message", ok, msg)
	}

	ll.ResetLogin("ana@example.com")
	if ok, _ := ll.Check(r, "ana@example.com"); !ok {
		t.Error("ResetLogin should allow again")
	}
}

func TestLoginLimiter_PerIP(t *testing.T) {
	ll := ratelimit.NewLoginLimiter(1, 100)
	r := httptest.NewRequest("POST", "/login", nil)

	if ok, _ := ll.Check(r, "a"); !ok {
		t.Fatal("first attempt should be allowed")
	}
	if ok, _ := ll.Check(r, "b"); ok {
		t.Error("second attempt from same IP should be blocked")
	}
}

func TestLoginLimiter_PhoneSpellings(t *testing.T) {
	ll := ratelimit.NewLoginLimiter(100, 1)
	r := httptest.NewRequest("POST", "/login", nil)

	if ok, _ := ll.Check(r, "+55 (11) 98765-4321"); !ok {
		t.Fatal("first attempt should be allowed")
	}
	if ok, _ := ll.Check(r, "11987654321"); ok {
		t.Error("same phone typed differently should share the counter")
	}
}

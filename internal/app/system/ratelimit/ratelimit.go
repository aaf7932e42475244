// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/casadefe/internal/app/system/phone"
)

// Limiter allows up to limit hits per key in each fixed window. Expired
// windows are swept lazily on Allow, so no goroutine is left behind. Safe
// for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	hits      map[string]*bucket
	limit     int
	window    time.Duration
	nextSweep time.Time
	now       func() time.Time
}

type bucket struct {
	n     int
	until time.Time
}

// New allows limit hits per key every window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		hits:   make(map[string]*bucket),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b := l.hits[key]
	if b == nil || !now.Before(b.until) {
		l.hits[key] = &bucket{n: 1, until: now.Add(l.window)}
		return true
	}
	if b.n >= l.limit {
		return false
	}
	b.n++
	return true
}

// Remaining reports how many hits key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.hits[key]
	if b == nil || !l.now().Before(b.until) {
		return l.limit
	}
	return max(l.limit-b.n, 0)
}

// Reset forgets key's window.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hits, key)
}

// sweep drops expired buckets at most once per window. Callers hold mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for k, b := range l.hits {
		if !now.Before(b.until) {
			delete(l.hits, k)
		}
	}
	l.nextSweep = now.Add(l.window)
}

// ClientIP returns the caller's address: the first X-Forwarded-For hop,
// then X-Real-IP, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// LoginLimiter caps sign-in attempts per client IP and per login, so
// neither spraying from many IPs nor hammering one account goes unchecked.
type LoginLimiter struct {
	byIP    *Limiter
	byLogin *Limiter
}

// NewLoginLimiter allows perIP attempts per minute per IP and perLogin
// attempts per five minutes per login. Non-positive values pick 10 and 5.
func NewLoginLimiter(perIP, perLogin int) *LoginLimiter {
	if perIP <= 0 {
		perIP = 10
	}
	if perLogin <= 0 {
		perLogin = 5
	}
	return &LoginLimiter{
		byIP:    New(perIP, time.Minute),
		byLogin: New(perLogin, 5*time.Minute),
	}
}

// Check reports whether this attempt may proceed and, if not, a message
// suitable for the user.
func (ll *LoginLimiter) Check(r *http.Request, login string) (bool, string) {
	if !ll.byIP.Allow(ClientIP(r)) {
		return false, "Muitas tentativas de login. Aguarde um minuto e tente novamente."
	}
	if key := loginKey(login); key != "" && !ll.byLogin.Allow(key) {
		return false, "Muitas tentativas para esta conta. Aguarde alguns minutos."
	}
	return true, ""
}

// ResetLogin clears the per-login counter after a successful sign-in.
func (ll *LoginLimiter) ResetLogin(login string) {
	if key := loginKey(login); key != "" {
		ll.byLogin.Reset(key)
	}
}

// loginKey folds the ways one account can be typed into one key: emails
// by case, phones by their digits.
func loginKey(login string) string {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || strings.Contains(login, "@") {
		return login
	}
	if d := phone.Digits(login); d != "" {
		return "phone:" + d
	}
	return login
}

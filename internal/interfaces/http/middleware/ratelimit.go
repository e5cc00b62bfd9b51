package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// RateLimitConfig configures a token bucket per client key.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// KeyFunc picks the bucket; the default is the client IP.
	KeyFunc   func(r *http.Request) string
	SkipPaths []string
	// IdleTTL drops buckets not used for this long.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig allows 10 req/s with bursts of 20 per client.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		KeyFunc:           ClientIPKey,
		SkipPaths:         []string{"/health", "/healthz", "/readyz", "/metrics"},
		IdleTTL:           10 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one rate.Limiter per key.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

// NewLimiter creates a keyed limiter.
func NewLimiter(rps float64, burst int, idleTTL time.Duration) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Reserve reports whether key may proceed now and, if not, how long to wait.
func (l *Limiter) Reserve(key string) (bool, time.Duration) {
	now := l.now()
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Prune removes idle buckets and returns how many were dropped.
func (l *Limiter) Prune() int {
	if l.idleTTL <= 0 {
		return 0
	}
	cutoff := l.now().Add(-l.idleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, k)
			n++
		}
	}
	return n
}

// SetLimit changes the rate for every bucket, existing ones included.
func (l *Limiter) SetLimit(rps float64, burst int) {
	if burst <= 0 {
		burst = 1
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = rate.Limit(rps)
	l.burst = burst
	for _, v := range l.visitors {
		v.limiter.SetLimitAt(now, l.limit)
		v.limiter.SetBurstAt(now, burst)
	}
}

// Burst returns the current bucket size.
func (l *Limiter) Burst() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burst
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimit rejects requests over the limit with 429 and Retry-After.
func RateLimit(limiter *Limiter, cfg RateLimitConfig) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIPKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Burst()))
			ok, wait := limiter.Reserve(keyFunc(r))
			if !ok {
				secs := int(wait.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeError(w, errors.New(errors.ErrCodeTooManyRequests, "rate limit exceeded, retry later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIPKey keys buckets by remote address. Run chi's RealIP first so
// proxied requests carry the client address.
func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// TenantKey keys buckets by tenant and client IP, so one tenant's traffic
// never drains another's bucket. It runs before Tenant, so the slug is read
// the same way: header first, then query parameter.
func TenantKey(header, queryParam string) func(r *http.Request) string {
	return func(r *http.Request) string {
		ip := "ip:" + ClientIPKey(r)
		t := strings.TrimSpace(r.Header.Get(header))
		if t == "" && queryParam != "" {
			t = strings.TrimSpace(r.URL.Query().Get(queryParam))
		}
		if t == "" {
			return ip
		}
		return "tenant:" + t + "|" + ip
	}
}

//Personal.AI order the ending

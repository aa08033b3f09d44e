package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"atscheck/internal/errors"

	"golang.org/x/time/rate"
)

// limiterEvictionAge is how long an idle key keeps its bucket.
const limiterEvictionAge = 10 * time.Minute

// LimiterManager keeps one token bucket per client key (IP or API key).
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	done     chan struct{}
	once     sync.Once
	logger   *errors.Logger
}

// RateLimiter is the limiter the server uses.
type RateLimiter = LimiterManager

// NewRateLimiter allows requests per window for each key, with burst as the
// bucket size. A zero window means one minute.
func NewRateLimiter(requests int, window time.Duration, burst int, logger *errors.Logger) *LimiterManager {
	if window <= 0 {
		window = time.Minute
	}
	if burst <= 0 {
		burst = 1
	}

	// rate.Limit is in events per second.
	m := &LimiterManager{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requests) / window.Seconds()),
		burst:    burst,
		done:     make(chan struct{}),
		logger:   logger,
	}

	// Evict idle buckets in the background
	go m.cleanupRoutine(limiterEvictionAge)
	return m
}

// GetLimiter retrieves or creates a limiter for a given key.
func (m *LimiterManager) GetLimiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, exists := m.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = limiter
	}
	m.lastSeen[key] = time.Now()

	return limiter
}

// Allow reports whether a request for key may proceed now.
func (m *LimiterManager) Allow(key string) bool {
	// Allow() takes a token without blocking
	return m.GetLimiter(key).Allow()
}

// GetStats returns current rate limiter statistics
func (m *LimiterManager) GetStats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]any{
		"enabled":         true,
		"active_limiters": len(m.limiters),
		"rate_per_second": float64(m.rate),
		"rate_per_minute": float64(m.rate) * 60.0,
		"burst_capacity":  m.burst,
	}
}

// cleanupRoutine sweeps idle limiters every interval until Close.
func (m *LimiterManager) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup(interval)
		case <-m.done:
			return
		}
	}
}

// cleanup removes limiters that haven't been used for the specified duration
func (m *LimiterManager) cleanup(evictionAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, lastSeen := range m.lastSeen {
		if now.Sub(lastSeen) > evictionAge {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}

	// Report what survived the sweep
	m.logger.Debug("Rate limiter cleanup completed", "remaining_limiters", len(m.limiters))
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (m *LimiterManager) Close() {
	m.once.Do(func() { close(m.done) })
}

// rateLimitMiddleware rejects requests over the per-key budget with 429.
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimiter == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key, by := getRateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			// Neither mode applies to this request
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				s.Logger.Info("Rate limit exceeded",
					"by", by,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r),
					"request_id", requestIDFrom(r.Context()))
				s.Metrics.RecordRateLimitHit(r.Context(), by)
				// Retry-After is a fixed one-minute hint
				w.Header().Set("Retry-After", "60")
				writeErrorResponse(w, r, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// getRateLimitKey picks the bucket key for r and names what it is keyed by.
// API keys are preferred when both modes are on.
func getRateLimitKey(r *http.Request, byAPIKey, byIP bool) (key, by string) {
	if byAPIKey {
		if apiKey := apiKeyFrom(r); apiKey != "" {
			return "api:" + apiKey, "api_key"
		}
	}
	if byIP {
		return "ip:" + getClientIP(r), "ip"
	}
	return "", ""
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For first; the left-most entry is the original client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	// Then X-Real-IP, set by some reverse proxies
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return xri
		}
	}

	// Fall back to the connection address
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP parses the first valid IP from a comma-separated list
func parseFirstIP(ips string) string {
	// Skip entries that are not addresses, such as "unknown"
	for ip := range strings.SplitSeq(ips, ",") {
		ip = strings.TrimSpace(ip)
		if parsed := net.ParseIP(ip); parsed != nil {
			return ip
		}
	}
	return ""
}

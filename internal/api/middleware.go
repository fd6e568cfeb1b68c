package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/metrics"
)

// MaxBodySize is the maximum allowed request body size (1MB)
const MaxBodySize = 1 << 20

// LimitBody limits the size of request bodies.
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

// RequestID tags every response with an X-Request-ID, reusing the caller's
// if one was sent.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// CORS allows the hosted web signer and local pages to call the broker.
// Chrome's private network access preflight needs the extra allow header.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		h.Set("Access-Control-Allow-Private-Network", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging logs every request and counts it by method and status code.
// m may be nil.
func Logging(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if m != nil {
				m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
			}
			log.Broker.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Str("request_id", w.Header().Get("X-Request-ID")).
				Msg("request")
		})
	}
}

// UnlockLimiter throttles password attempts per wallet session token.
type UnlockLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUnlockLimiter allows burst attempts per token, refilled one every interval.
func NewUnlockLimiter(interval time.Duration, burst int) *UnlockLimiter {
	return &UnlockLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(interval),
		burst:    burst,
		idle:     10 * time.Minute,
	}
}

func (l *UnlockLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Sweep drops limiters idle for longer than ten minutes.
func (l *UnlockLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, v := range l.visitors {
		if time.Since(v.lastSeen) > l.idle {
			delete(l.visitors, key)
			n++
		}
	}
	return n
}

// Limit wraps a handler whose route carries a {token} path value.
func (l *UnlockLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(r.PathValue("token")) {
			log.Broker.Warn().Str("path", r.URL.Path).Msg("unlock rate limited")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded","code":"RATE_LIMITED"}`))
			return
		}
		next(w, r)
	}
}

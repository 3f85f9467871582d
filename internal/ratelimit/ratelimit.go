// Package ratelimit is the access guard's counter. It only throttles
// abuse; a reset on restart is acceptable, so the in-memory store is the
// default and redis is opt-in for multi-process deployments.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aeroprep/aeroprep-backend/internal/apierr"
)

// CounterStore increments the counter for key within the current window
// and returns the new count.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// MemoryStore is a per-process CounterStore with TTL eviction.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count   int64
	resetAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: map[string]*bucket{}, now: time.Now}
}

func (m *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	b, ok := m.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		m.buckets[key] = b
	}
	b.count++
	// opportunistic eviction keeps the map bounded
	if len(m.buckets) > 4096 {
		for k, v := range m.buckets {
			if now.After(v.resetAt) {
				delete(m.buckets, k)
			}
		}
	}
	return b.count, nil
}

// Guard limits requests per client key. Counter errors fail open: the
// limiter protects cost, not correctness.
func Guard(store CounterStore, max int64, window time.Duration, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			n, err := store.Incr(r.Context(), key, window)
			if err != nil {
				log.Warnw("rate limit counter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if n > max {
				apierr.Write(w, apierr.New(http.StatusTooManyRequests, apierr.CodeRateLimited, nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/Rrens/wardrobe-stylist/internal/api/response"
)

// Faults injects failures into the service. The zero value passes every
// request through.
type Faults struct {
	offline atomic.Bool
}

// SetOffline makes every subsequent request fail with 503
func (f *Faults) SetOffline(offline bool) {
	f.offline.Store(offline)
}

// Offline reports whether requests are currently failed
func (f *Faults) Offline() bool {
	return f.offline.Load()
}

// Handler fails requests while offline
func (f *Faults) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.offline.Load() {
			response.Error(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}

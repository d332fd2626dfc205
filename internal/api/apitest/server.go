// Package apitest starts the in-memory stylist service on a loopback port
package apitest

import (
	"net/http/httptest"
	"testing"

	"github.com/Rrens/wardrobe-stylist/internal/api"
	"github.com/Rrens/wardrobe-stylist/internal/api/memory"
	"github.com/Rrens/wardrobe-stylist/internal/api/middleware"
)

// Server is a running in-memory stylist service
type Server struct {
	*httptest.Server
	Store  *memory.Store
	Faults *middleware.Faults
}

// New starts a server that is closed when the test ends
func New(tb testing.TB) *Server {
	tb.Helper()

	store := memory.NewStore()
	faults := &middleware.Faults{}
	srv := httptest.NewServer(api.NewRouter(store, faults))
	tb.Cleanup(srv.Close)

	return &Server{Server: srv, Store: store, Faults: faults}
}

// SetOffline toggles 503 answers for every route
func (s *Server) SetOffline(offline bool) {
	s.Faults.SetOffline(offline)
}

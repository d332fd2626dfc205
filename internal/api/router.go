// Package api is an in-memory rendition of the stylist service. The client
// stores are exercised against it in tests and cmd/server runs it for local
// development.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Rrens/wardrobe-stylist/internal/api/handler"
	"github.com/Rrens/wardrobe-stylist/internal/api/memory"
	customMiddleware "github.com/Rrens/wardrobe-stylist/internal/api/middleware"
)

// NewRouter creates and configures the HTTP router
func NewRouter(store *memory.Store, faults *customMiddleware.Faults) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if faults != nil {
		r.Use(faults.Handler)
	}

	clothesHandler := handler.NewClothesHandler(store)
	chatHandler := handler.NewChatHandler(store)
	outfitHandler := handler.NewOutfitHandler(store)

	r.Get("/", handler.HealthCheck)
	r.Get("/uploads/{filename}", clothesHandler.Image)
	r.Post("/upload", clothesHandler.Upload)
	r.Post("/generate-outfit", outfitHandler.Generate)

	r.Route("/clothes", func(r chi.Router) {
		r.Get("/", clothesHandler.List)
		r.Put("/{itemID}", clothesHandler.Update)
		r.Delete("/{itemID}", clothesHandler.Delete)
	})

	r.Route("/chats", func(r chi.Router) {
		r.Get("/", chatHandler.List)
		r.Post("/", chatHandler.Create)

		r.Route("/{chatID}", func(r chi.Router) {
			r.Put("/", chatHandler.Rename)
			r.Delete("/", chatHandler.Delete)
			r.Get("/messages", chatHandler.Messages)
			r.Post("/messages", chatHandler.Send)
		})
	})

	return r
}

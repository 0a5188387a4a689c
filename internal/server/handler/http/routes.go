// Package http provides HTTP routing and middleware configuration
// for the pantry API.
package http

import (
	"net/http"

	"github.com/avolkov/pantrypal/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the pantry API.
//
// Routes:
//
//	GET    /api/items                       → items.List
//	POST   /api/items                       → items.Create
//	DELETE /api/items                       → items.Clear
//	PATCH  /api/items/{id}                  → items.SetExpiration
//	DELETE /api/items/{id}                  → items.Delete
//	GET    /api/expiring                    → items.Expiring
//	GET    /api/stats                       → items.Stats
//	GET    /api/recipes                     → items.SuggestRecipes
//	GET    /api/settings/notification-time  → settings.GetNotificationTime
//	PUT    /api/settings/notification-time  → settings.PutNotificationTime
//	POST   /api/settings/notification-test  → settings.SendTest
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") — rejects non-JSON bodies
//  2. WithRequestLogging(logger)           — logs incoming requests
func NewRouter(
	items *ItemsHandler,
	settings *SettingsHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", items.List)
			r.Post("/", items.Create)
			r.Delete("/", items.Clear)
			r.Patch("/{id}", items.SetExpiration)
			r.Delete("/{id}", items.Delete)
		})
		r.Get("/expiring", items.Expiring)
		r.Get("/stats", items.Stats)
		r.Get("/recipes", items.SuggestRecipes)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/notification-time", settings.GetNotificationTime)
			r.Put("/notification-time", settings.PutNotificationTime)
			r.Post("/notification-test", settings.SendTest)
		})
	})

	return r
}

// Package router sets up all HTTP routes and middleware chains for the
// content admin API. Routes are split into a public group (health, login,
// register) and a bearer-authenticated group.
package router

import (
	"github.com/go-chi/chi/v5"

	"contentadmin/internal/auth"
	"contentadmin/internal/handlers"
	"contentadmin/internal/middleware"
	"contentadmin/internal/models"
)

// Deps carries everything the router wires together.
type Deps struct {
	Tokens      *auth.TokenIssuer
	Revocations middleware.RevocationChecker // nil disables the revocation check
	AuthLimiter *middleware.AttemptLimiter   // nil disables throttling of login and register
	CORSOrigins []string

	Content      *handlers.Content
	Translations *handlers.Translations
	Versions     *handlers.Versions
	Stats        *handlers.Stats
	Auth         *handlers.Auth
}

// New creates and returns the configured Chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. CORS answers pre-flight
	// requests before anything else runs.
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", handlers.Health)

	// Credential endpoints, throttled per client and per client+account.
	r.Group(func(r chi.Router) {
		if d.AuthLimiter != nil {
			r.Use(d.AuthLimiter.Middleware)
		}
		r.Post("/login", d.Auth.Login)
		r.Post("/register", d.Auth.Register)
	})

	// Everything else needs a valid bearer token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Tokens, d.Revocations))

		r.Get("/content-children", d.Content.Children)
		r.Get("/content-tree", d.Content.Tree)
		r.Post("/content-create", d.Content.Create)
		r.Post("/content-update", d.Content.Update)
		r.Post("/content-delete", d.Content.Delete)
		r.Post("/content-reorder", d.Content.Reorder)

		r.Get("/translations-get", d.Translations.Get)
		r.Post("/translation-save", d.Translations.Save)

		r.Get("/versions-list", d.Versions.List)
		r.Get("/versions-download", d.Versions.Download)
		r.With(middleware.RequireRole(models.RoleAdmin)).Post("/export-db", d.Versions.Export)

		r.Get("/stats", d.Stats.Get)

		r.Post("/logout", d.Auth.Logout)
		r.Post("/2fa/setup", d.Auth.TwoFASetup)
		r.Post("/2fa/enable", d.Auth.TwoFAEnable)
	})

	return r
}

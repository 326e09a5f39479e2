package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	router.Get("/api/version", h.getServerVersion)

	router.Route("/api/credentials", func(r chi.Router) {
		// ceremonies
		r.Group(func(r chi.Router) {
			r.Use(h.withRateLimit)

			r.Post("/authenticate/begin", h.beginAuthentication)
			r.Post("/authenticate/finish", h.finishAuthentication)

			r.With(h.auth).Post("/register/begin", h.beginRegistration)
			r.With(h.auth).Post("/register/finish", h.finishRegistration)
		})

		// management
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Get("/", h.listCredentials)
			r.Delete("/{credentialID}", h.deleteCredential)
		})
	})

	return router
}

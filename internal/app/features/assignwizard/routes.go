// internal/app/features/assignwizard/routes.go
package assignwizard

import (
	"github.com/dalemusser/strataassign/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the assignment wizard, mounted at /assign.
// openLimit, when non-nil, limits how often one client may open wizards.
func Routes(h *Handler, openLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	if openLimit != nil {
		r.With(openLimit.PerIP).Post("/sessions", h.ServeOpen)
	} else {
		r.Post("/sessions", h.ServeOpen)
	}

	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Use(h.requireSession)

		r.Get("/", h.ServeSnapshot)
		r.Delete("/", h.ServeClose)
		r.Get("/options/{level}", h.ServeOptions)
		r.Post("/selection/{level}/toggle", h.ServeToggle)
		r.Post("/selection/{level}/all", h.ServeSelectAll)
		r.Delete("/selection/{level}", h.ServeClear)
		r.Put("/draft", h.ServeDraft)
		r.Get("/preview", h.ServePreview)
		r.Post("/submit", h.ServeSubmit)
	})

	return r
}

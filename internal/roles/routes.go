package roles

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/roles", h.List)
	r.Post("/roles", h.Create)
	r.Get("/roles/status", h.ProbeStatus)
	r.Post("/roles/probe", h.ProbeAll)
	r.Get("/roles/{id}", h.Get)
	r.Put("/roles/{id}", h.Update)
	r.Delete("/roles/{id}", h.Delete)
}

package llm

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/llm/test", h.TestConnection)
	r.Get("/llm/providers", h.ListProviders)
}

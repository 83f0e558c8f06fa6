package chat

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.HandleChat)
	r.Post("/group-chat", h.HandleGroupChat)
	r.Get("/chat/history/{sessionId}", h.HandleHistory)
}

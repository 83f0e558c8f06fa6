package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sevensons/ai-roles-bridge/internal/llm"
	"github.com/sevensons/ai-roles-bridge/internal/roles"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// HandleChat — single-persona reply.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		RoleName  string `json:"roleName"`
		SessionID string `json:"sessionId"`
		UserID    string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if payload.Message == "" || payload.RoleName == "" || payload.SessionID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields: message, roleName, sessionId")
		return
	}

	reply, err := h.svc.Chat(r.Context(), payload.Message, payload.RoleName, payload.SessionID, payload.UserID)
	if err != nil {
		h.writeChatError(w, err, payload.RoleName)
		return
	}
	writeOK(w, map[string]any{
		"content":   reply.Content,
		"role":      reply.RoleName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleGroupChat — multi-persona fan-out. The response is a delivery
// plan; the frontend schedules each entry after its delay.
func (h *Handler) HandleGroupChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
		UserID    string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if payload.Message == "" || payload.SessionID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields: message, sessionId")
		return
	}

	replies, err := h.svc.GroupChat(r.Context(), payload.Message, payload.SessionID, payload.UserID)
	if err != nil {
		h.writeChatError(w, err, "")
		return
	}
	writeOK(w, map[string]any{"replies": replies})
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	msgs, err := h.svc.History(r.Context(), chi.URLParam(r, "sessionId"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeOK(w, map[string]any{"messages": msgs})
}

func (h *Handler) writeChatError(w http.ResponseWriter, err error, roleName string) {
	switch {
	case errors.Is(err, ErrAuthRequired):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, roles.ErrNotFound):
		writeError(w, http.StatusNotFound, "role not found: "+roleName)
	default:
		switch llm.KindOf(err) {
		case llm.KindConfig:
			writeError(w, http.StatusBadRequest, err.Error())
		case llm.KindProvider:
			writeError(w, http.StatusBadGateway, err.Error())
		case llm.KindTransient, llm.KindParse:
			writeError(w, http.StatusBadGateway, "the AI provider did not answer, please try again later")
		default:
			writeError(w, http.StatusInternalServerError, "processing error")
		}
	}
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

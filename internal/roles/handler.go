package roles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sevensons/ai-roles-bridge/internal/auth"
	"github.com/sevensons/ai-roles-bridge/internal/llm"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load roles")
		return
	}
	writeOK(w, map[string]any{"roles": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	role, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "role not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load role")
		return
	}
	writeOK(w, map[string]any{"role": role})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var role Role
	if err := json.NewDecoder(r.Body).Decode(&role); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	role.ID = ""
	if err := h.svc.Save(r.Context(), &role, ownerFrom(r)); err != nil {
		writeError(w, badRequestStatus(err), err.Error())
		return
	}
	writeOK(w, map[string]any{"role": role})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var role Role
	if err := json.NewDecoder(r.Body).Decode(&role); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	role.ID = chi.URLParam(r, "id")
	err := h.svc.Save(r.Context(), &role, ownerFrom(r))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "role not found")
		return
	}
	if err != nil {
		writeError(w, badRequestStatus(err), err.Error())
		return
	}
	writeOK(w, map[string]any{"role": role})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "role not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete role")
		return
	}
	writeOK(w, nil)
}

// ProbeAll re-checks connectivity for every stored role and returns the
// fresh result map.
func (h *Handler) ProbeAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.ProbeAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to probe roles")
		return
	}
	writeOK(w, map[string]any{"results": results})
}

// ProbeStatus returns the latest known probe result per role without
// triggering new checks.
func (h *Handler) ProbeStatus(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, map[string]any{"results": h.svc.ProbeStatus()})
}

func ownerFrom(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok {
		return id.UserID
	}
	return ""
}

// Validation failures carry actionable messages for the form; anything
// out of the llm taxonomy that is not a config problem is a server error.
func badRequestStatus(err error) int {
	if kind := llm.KindOf(err); kind != 0 && kind != llm.KindConfig {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func writeOK(w http.ResponseWriter, data any) {
	body := map[string]any{"success": true}
	if data != nil {
		body["data"] = data
	}
	writeJSON(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

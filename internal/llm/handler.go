package llm

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// TestConnection — interactive check from the configuration UI. Key
// format failures and probe failures both come back as ok=false with a
// human-readable message; transport problems never surface as a 5xx.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Provider string `json:"provider"`
		APIKey   string `json:"apiKey"`
		Host     string `json:"host"`
		Model    string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := Config{
		Provider: payload.Provider,
		APIKey:   payload.APIKey,
		Host:     payload.Host,
		Model:    payload.Model,
	}
	res := h.client.Probe(r.Context(), cfg)

	out := map[string]any{"ok": res.Status == ProbeSuccess}
	if res.Status == ProbeSuccess {
		out["latency_ms"] = res.LatencyMS
	}
	if res.Message != "" {
		out["message"] = res.Message
	} else if res.Status == ProbeIdle {
		out["message"] = "provider and api key must be set"
		out["ok"] = false
	}
	writeJSON(w, http.StatusOK, out)
}

// ListProviders exposes the static catalog for configuration forms.
func (h *Handler) ListProviders(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		ID            string   `json:"id"`
		Label         string   `json:"label"`
		DefaultHost   string   `json:"default_host,omitempty"`
		AllowHost     bool     `json:"allow_host"`
		DefaultModels []string `json:"default_models"`
	}
	specs := Providers()
	out := make([]entry, 0, len(specs))
	for _, s := range specs {
		out = append(out, entry{
			ID:            s.ID,
			Label:         s.Label,
			DefaultHost:   s.DefaultHost,
			AllowHost:     s.AllowHost,
			DefaultModels: s.DefaultModels,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": out})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

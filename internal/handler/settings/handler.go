package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/state"
	"github.com/hoshinokaze/kokoro-chat/backend/pkg/utils"
)

// Handler manages the persisted model configuration.
type Handler struct {
	state *state.State
}

// New creates a settings handler.
func New(st *state.State) *Handler {
	return &Handler{state: st}
}

// RegisterRoutes registers settings routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings/providers", h.handleProviders)
	r.Get("/settings/model", h.handleGetConfig)
	r.Put("/settings/model", h.handleSaveConfig)
	r.Delete("/settings/model", h.handleClearConfig)
}

// handleProviders returns the provider catalog with per-provider defaults.
func (h *Handler) handleProviders(w http.ResponseWriter, r *http.Request) {
	providers := llm.AvailableProviders()
	defaults := make(map[llm.Provider]llm.ModelConfig, len(providers))
	for _, info := range providers {
		defaults[info.ID] = llm.DefaultConfig(info.ID)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"providers": providers,
		"defaults":  defaults,
	})
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.state.LoadModelConfig(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no model config saved")
		return
	}
	utils.RespondJSON(w, http.StatusOK, cfg)
}

func (h *Handler) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg llm.ModelConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if problems := cfg.ValidateForSave(); len(problems) > 0 {
		utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": problems,
		})
		return
	}

	h.state.SaveModelConfig(r.Context(), cfg)
	utils.RespondJSON(w, http.StatusOK, cfg)
}

func (h *Handler) handleClearConfig(w http.ResponseWriter, r *http.Request) {
	h.state.ClearModelConfig(r.Context())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Package proxy implements the model backend proxy: a thin HTTP service that
// holds the provider wire formats so the chat core can stay provider-agnostic.
package proxy

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
	"github.com/hoshinokaze/kokoro-chat/backend/pkg/utils"
)

// Handler exposes the completion endpoint.
type Handler struct {
	dispatcher *Dispatcher
}

// NewHandler creates a proxy handler.
func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// RegisterRoutes registers proxy routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/completions", h.handleCompletion)
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleCompletion(w http.ResponseWriter, r *http.Request) {
	var req llm.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, ok := validate(req); !ok {
		utils.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("provider", string(req.Provider)).Msg("dispatch failed")
		utils.RespondError(w, http.StatusBadGateway, err.Error())
		return
	}

	log.Debug().
		Str("provider", string(req.Provider)).
		Str("model", req.Model).
		Int("messages", len(req.Messages)).
		Msg("completion dispatched")
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validate(req llm.CompletionRequest) (string, bool) {
	switch req.Provider {
	case llm.ProviderOpenAI, llm.ProviderClaude, llm.ProviderDeepSeek:
	case "":
		return "provider is required", false
	default:
		return "unsupported provider: " + string(req.Provider), false
	}

	if strings.TrimSpace(req.APIKey) == "" {
		return "apiKey is required", false
	}
	if strings.TrimSpace(req.Model) == "" {
		return "model is required", false
	}
	if len(req.Messages) == 0 {
		return "messages must not be empty", false
	}
	return "", true
}

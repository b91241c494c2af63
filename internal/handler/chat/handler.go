package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	chatService "github.com/hoshinokaze/kokoro-chat/backend/internal/service/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/pkg/utils"
)

// Handler exposes persona selection and session lookup over HTTP.
type Handler struct {
	chatSvc  *chatService.Service
	personas persona.Store
}

// New creates a chat handler.
func New(chatSvc *chatService.Service, personas persona.Store) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		personas: personas,
	}
}

// RegisterRoutes registers chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/select", h.handleSelectPersona)
	r.Get("/chat/selected", h.handleSelectedPersona)
	r.Delete("/chat/selected", h.handleDeselectPersona)
	r.Get("/chat/sessions/{sessionID}", h.handleGetSession)
	r.Get("/chat/sessions/{sessionID}/composing", h.handleComposing)
}

// handleSelectPersona marks a persona as active and returns its session,
// seeded with the opening message when it is brand new.
func (h *Handler) handleSelectPersona(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID string `json:"personaId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.PersonaID == "" {
		utils.RespondError(w, http.StatusBadRequest, "personaId is required")
		return
	}

	p, ok := h.personas.FindByID(payload.PersonaID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}

	session := h.chatSvc.SelectPersona(r.Context(), p)
	session = h.chatSvc.EnsureOpeningMessage(r.Context(), p, session)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"persona": p,
		"session": session,
	})
}

func (h *Handler) handleSelectedPersona(w http.ResponseWriter, r *http.Request) {
	p, ok := h.chatSvc.SelectedPersona(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no persona selected")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeselectPersona(w http.ResponseWriter, r *http.Request) {
	h.chatSvc.DeselectPersona(r.Context())
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deselected"})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, ok := h.chatSvc.GetSession(r.Context(), sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleComposing(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	utils.RespondJSON(w, http.StatusOK, map[string]bool{
		"composing": h.chatSvc.IsComposing(sessionID),
	})
}

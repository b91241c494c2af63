package stream

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	chatService "github.com/hoshinokaze/kokoro-chat/backend/internal/service/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/pkg/utils"
)

// Handler streams conversation turns via Server-Sent Events. Each persisted
// session snapshot becomes one frame, so the client can rerender the whole
// transcript after every fragment.
type Handler struct {
	chatSvc  *chatService.Service
	personas persona.Store
}

// New creates a stream handler.
func New(chatSvc *chatService.Service, personas persona.Store) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		personas: personas,
	}
}

// RegisterRoutes registers streaming routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// StreamEvent is one SSE frame of a conversation turn.
type StreamEvent struct {
	Event     string        `json:"event"`
	SessionID string        `json:"sessionId,omitempty"`
	Session   *chat.Session `json:"session,omitempty"`
	Composing bool          `json:"composing,omitempty"`
	Finished  bool          `json:"finished,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")

	if strings.TrimSpace(userMessage) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	session, p, ok := h.resolve(w, r, sessionID)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	utils.SendSSEChunk(w, flusher, StreamEvent{
		Event:     "start",
		SessionID: sessionID,
		Composing: true,
	})

	emit := func(snapshot chat.Session) {
		utils.SendSSEChunk(w, flusher, StreamEvent{
			Event:     "session",
			SessionID: sessionID,
			Session:   &snapshot,
		})
	}

	_, err := h.chatSvc.SendUserMessage(r.Context(), userMessage, p, session, emit)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Debug().Str("session", sessionID).Msg("stream client disconnected")
			return
		}
		utils.SendSSEChunk(w, flusher, StreamEvent{
			Event: "error",
			Error: err.Error(),
		})
		return
	}

	utils.SendSSEChunk(w, flusher, StreamEvent{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})
}

// resolve loads the session and its persona, writing the error response on
// failure.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, sessionID string) (chat.Session, persona.Persona, bool) {
	session, ok := h.chatSvc.GetSession(r.Context(), sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return chat.Session{}, persona.Persona{}, false
	}
	p, ok := h.personas.FindByID(session.PersonaID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return chat.Session{}, persona.Persona{}, false
	}
	return session, p, true
}

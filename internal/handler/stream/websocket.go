package stream

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	chatService "github.com/hoshinokaze/kokoro-chat/backend/internal/service/chat"
)

// WebSocketHandler runs conversation turns over a persistent socket. Unlike
// the SSE endpoint a single connection carries many turns.
type WebSocketHandler struct {
	chatSvc  *chatService.Service
	personas persona.Store
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a websocket stream handler.
func NewWebSocketHandler(chatSvc *chatService.Service, personas persona.Store) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc:  chatSvc,
		personas: personas,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers websocket routes.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outboundMessage struct {
	Type      string        `json:"type"`
	SessionID string        `json:"sessionId,omitempty"`
	Session   *chat.Session `json:"session,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, ok := h.chatSvc.GetSession(r.Context(), sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	p, ok := h.personas.FindByID(session.PersonaID)
	if !ok {
		http.Error(w, "persona not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Gorilla connections allow one concurrent writer.
	var writeMu sync.Mutex
	send := func(msg outboundMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Str("session", sessionID).Msg("websocket write failed")
		}
	}

	log.Debug().Str("session", sessionID).Msg("websocket stream opened")

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("session", sessionID).Msg("websocket closed unexpectedly")
			}
			return
		}

		if inbound.Type != "message" {
			send(outboundMessage{Type: "error", Error: "unsupported message type: " + inbound.Type})
			continue
		}
		if strings.TrimSpace(inbound.Text) == "" {
			send(outboundMessage{Type: "error", Error: "message text is empty"})
			continue
		}

		emit := func(snapshot chat.Session) {
			send(outboundMessage{Type: "session", SessionID: sessionID, Session: &snapshot})
		}

		latest, turnErr := h.chatSvc.SendUserMessage(r.Context(), inbound.Text, p, session, emit)
		if turnErr != nil {
			send(outboundMessage{Type: "error", Error: turnErr.Error()})
			continue
		}
		session = latest
		send(outboundMessage{Type: "end", SessionID: sessionID})
	}
}

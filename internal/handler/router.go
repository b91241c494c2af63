// Package handler wires HTTP routes to core services.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/hoshinokaze/kokoro-chat/backend/internal/handler/chat"
	personaHandler "github.com/hoshinokaze/kokoro-chat/backend/internal/handler/persona"
	settingsHandler "github.com/hoshinokaze/kokoro-chat/backend/internal/handler/settings"
	streamHandler "github.com/hoshinokaze/kokoro-chat/backend/internal/handler/stream"
	middlewarePkg "github.com/hoshinokaze/kokoro-chat/backend/internal/middleware"
	personaModel "github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	chatService "github.com/hoshinokaze/kokoro-chat/backend/internal/service/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/state"
	"github.com/hoshinokaze/kokoro-chat/backend/pkg/utils"
)

// NewRouter builds the API routing tree.
func NewRouter(personas personaModel.Store, chatSvc *chatService.Service, st *state.State, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(personas).RegisterRoutes(api)
		chatHandler.New(chatSvc, personas).RegisterRoutes(api)
		settingsHandler.New(st).RegisterRoutes(api)
		streamHandler.New(chatSvc, personas).RegisterRoutes(api)
		streamHandler.NewWebSocketHandler(chatSvc, personas).RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}

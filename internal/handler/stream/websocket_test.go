package stream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	streamHandler "github.com/hoshinokaze/kokoro-chat/backend/internal/handler/stream"
	chatmodel "github.com/hoshinokaze/kokoro-chat/backend/internal/model/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	chatService "github.com/hoshinokaze/kokoro-chat/backend/internal/service/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/state"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/store"
)

type wsFrame struct {
	Type      string             `json:"type"`
	SessionID string             `json:"sessionId"`
	Session   *chatmodel.Session `json:"session"`
	Error     string             `json:"error"`
}

func newWebSocketFixture(t *testing.T, fragments ...string) (*httptest.Server, chatmodel.Session) {
	t.Helper()
	personas := persona.NewMemoryStore(persona.Seed())
	svc := chatService.NewService(state.New(store.NewMemoryStore()), personas, stubResponder{fragments: fragments}, noopPacer{})

	p, ok := personas.FindByID("caring-sister")
	require.True(t, ok)
	ctx := context.Background()
	session := svc.EnsureOpeningMessage(ctx, p, svc.SelectPersona(ctx, p))

	r := chi.NewRouter()
	streamHandler.NewWebSocketHandler(svc, personas).RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, session
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + sessionID
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketTurn(t *testing.T) {
	server, session := newWebSocketFixture(t, "どうしたの？", "ゆっくり話して？")
	conn := dial(t, server, session.ID)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "message", "text": "ねえ"}))

	var frames []wsFrame
	for {
		var frame wsFrame
		require.NoError(t, conn.ReadJSON(&frame))
		frames = append(frames, frame)
		if frame.Type == "end" {
			break
		}
	}

	// one frame per appended message, then the end marker
	require.Len(t, frames, 4)
	require.NotNil(t, frames[0].Session)
	assert.Len(t, frames[0].Session.Messages, 2)
	require.NotNil(t, frames[2].Session)
	assert.Len(t, frames[2].Session.Messages, 4)
	assert.Equal(t, "ゆっくり話して？", frames[2].Session.Messages[3].Content)

	// a second turn reuses the connection and extends the same session
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "message", "text": "ありがとう"}))
	for {
		var frame wsFrame
		require.NoError(t, conn.ReadJSON(&frame))
		if frame.Type == "end" {
			break
		}
		require.Equal(t, "session", frame.Type)
	}
}

func TestWebSocketRejectsEmptyText(t *testing.T) {
	server, session := newWebSocketFixture(t, "はい")
	conn := dial(t, server, session.ID)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "message", "text": "   "}))

	var frame wsFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
	assert.NotEmpty(t, frame.Error)
}

func TestWebSocketUnknownSession(t *testing.T) {
	server, _ := newWebSocketFixture(t, "はい")

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/unknown"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

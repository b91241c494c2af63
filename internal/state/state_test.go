package state_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/state"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/store"
)

func TestSessionRoundTrip(t *testing.T) {
	st := state.New(store.NewMemoryStore())
	ctx := context.Background()

	createdAt := time.Date(2025, 6, 1, 12, 30, 45, 123_000_000, time.UTC)
	session := chat.Session{
		ID:        "s-1",
		PersonaID: "cheerful-girl",
		Messages: []chat.Message{
			{ID: "m-1", Content: "おはよう", CreatedAt: createdAt, IsFromUser: true, DeliveryState: chat.DeliverySent},
			{ID: "m-2", Content: "おはよう！", CreatedAt: createdAt.Add(time.Second), DeliveryState: chat.DeliveryRead},
		},
		LastActivityAt: createdAt.Add(time.Second),
	}
	st.SaveSessions(ctx, []chat.Session{session})

	loaded := st.LoadSessions(ctx)
	require.Len(t, loaded, 1)
	got := loaded[0]
	assert.Equal(t, session.PersonaID, got.PersonaID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "おはよう", got.Messages[0].Content)
	assert.True(t, got.Messages[0].IsFromUser)
	assert.Equal(t, chat.DeliverySent, got.Messages[0].DeliveryState)
	assert.Equal(t, chat.DeliveryRead, got.Messages[1].DeliveryState)
	// timestamps must survive to the millisecond originally stored
	assert.True(t, got.Messages[0].CreatedAt.Equal(createdAt))
	assert.True(t, got.LastActivityAt.Equal(session.LastActivityAt))
}

func TestFindSessionByPersonaFirstMatch(t *testing.T) {
	st := state.New(store.NewMemoryStore())
	ctx := context.Background()

	// the store technically permits duplicates; lookup takes the first match
	st.SaveSessions(ctx, []chat.Session{
		{ID: "first", PersonaID: "mature-lady"},
		{ID: "second", PersonaID: "mature-lady"},
	})

	got, ok := st.FindSessionByPersona(ctx, "mature-lady")
	require.True(t, ok)
	assert.Equal(t, "first", got.ID)

	_, ok = st.FindSessionByPersona(ctx, "gentle-healer")
	assert.False(t, ok)
}

func TestUpsertSession(t *testing.T) {
	st := state.New(store.NewMemoryStore())
	ctx := context.Background()

	st.UpsertSession(ctx, chat.Session{ID: "a", PersonaID: "mature-lady"})
	st.UpsertSession(ctx, chat.Session{ID: "b", PersonaID: "cheerful-girl"})
	st.UpsertSession(ctx, chat.Session{ID: "a", PersonaID: "mature-lady", Messages: []chat.Message{{ID: "m"}}})

	sessions := st.LoadSessions(ctx)
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].ID)
	assert.Len(t, sessions[0].Messages, 1)
}

func TestMalformedPayloadTreatedAsAbsent(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "ai-chat-sessions", "{not json"))
	require.NoError(t, kv.Set(ctx, "ai-chat-model-config", `["wrong","shape"]`))

	st := state.New(kv)
	assert.Nil(t, st.LoadSessions(ctx))
	_, ok := st.LoadModelConfig(ctx)
	assert.False(t, ok)
}

func TestSelectedPersonaAndModelConfig(t *testing.T) {
	st := state.New(store.NewMemoryStore())
	ctx := context.Background()

	_, ok := st.LoadSelectedPersona(ctx)
	assert.False(t, ok)

	st.SaveSelectedPersona(ctx, persona.Persona{ID: "caring-sister", Name: "Charlie"})
	p, ok := st.LoadSelectedPersona(ctx)
	require.True(t, ok)
	assert.Equal(t, "caring-sister", p.ID)

	st.ClearSelectedPersona(ctx)
	_, ok = st.LoadSelectedPersona(ctx)
	assert.False(t, ok)

	st.SaveModelConfig(ctx, llm.ModelConfig{Provider: llm.ProviderOpenAI, APIKey: "sk", Model: "gpt-4o"})
	cfg, ok := st.LoadModelConfig(ctx)
	require.True(t, ok)
	assert.Equal(t, llm.ProviderOpenAI, cfg.Provider)

	st.ClearModelConfig(ctx)
	_, ok = st.LoadModelConfig(ctx)
	assert.False(t, ok)
}

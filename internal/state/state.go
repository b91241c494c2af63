// Package state is the typed persistence layer of the conversation core.
// Each logical key is written wholesale as JSON on every mutation; load
// failures and malformed payloads degrade to absence, never to a fault.
package state

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/store"
)

const (
	keySessions        = "ai-chat-sessions"
	keySelectedPersona = "ai-chat-selected-persona"
	keyModelConfig     = "ai-chat-model-config"
)

// State wraps a key-value store with the three persisted collections.
type State struct {
	kv store.Store
}

// New builds a State over the injected store.
func New(kv store.Store) *State {
	return &State{kv: kv}
}

// LoadSessions returns the persisted session collection, or nil when the key
// is absent or its payload cannot be decoded.
func (s *State) LoadSessions(ctx context.Context) []chat.Session {
	var sessions []chat.Session
	if !s.load(ctx, keySessions, &sessions) {
		return nil
	}
	return sessions
}

// SaveSessions overwrites the whole session collection.
func (s *State) SaveSessions(ctx context.Context, sessions []chat.Session) {
	s.save(ctx, keySessions, sessions)
}

// FindSessionByPersona returns the first session bound to personaID.
func (s *State) FindSessionByPersona(ctx context.Context, personaID string) (chat.Session, bool) {
	for _, session := range s.LoadSessions(ctx) {
		if session.PersonaID == personaID {
			return session, true
		}
	}
	return chat.Session{}, false
}

// FindSession returns the session with the given id.
func (s *State) FindSession(ctx context.Context, sessionID string) (chat.Session, bool) {
	for _, session := range s.LoadSessions(ctx) {
		if session.ID == sessionID {
			return session, true
		}
	}
	return chat.Session{}, false
}

// UpsertSession replaces the stored session with the same id, or appends it,
// then persists the whole collection.
func (s *State) UpsertSession(ctx context.Context, session chat.Session) {
	sessions := s.LoadSessions(ctx)
	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}
	s.SaveSessions(ctx, sessions)
}

// SaveSelectedPersona persists the currently selected persona.
func (s *State) SaveSelectedPersona(ctx context.Context, p persona.Persona) {
	s.save(ctx, keySelectedPersona, p)
}

// LoadSelectedPersona returns the selected persona, if any.
func (s *State) LoadSelectedPersona(ctx context.Context) (persona.Persona, bool) {
	var p persona.Persona
	if !s.load(ctx, keySelectedPersona, &p) {
		return persona.Persona{}, false
	}
	return p, true
}

// ClearSelectedPersona removes the selected-persona marker. Sessions stay.
func (s *State) ClearSelectedPersona(ctx context.Context) {
	if err := s.kv.Remove(ctx, keySelectedPersona); err != nil {
		log.Error().Err(err).Str("key", keySelectedPersona).Msg("failed to remove persisted value")
	}
}

// SaveModelConfig persists the model configuration.
func (s *State) SaveModelConfig(ctx context.Context, cfg llm.ModelConfig) {
	s.save(ctx, keyModelConfig, cfg)
}

// LoadModelConfig returns the persisted model configuration, if any.
func (s *State) LoadModelConfig(ctx context.Context) (llm.ModelConfig, bool) {
	var cfg llm.ModelConfig
	if !s.load(ctx, keyModelConfig, &cfg) {
		return llm.ModelConfig{}, false
	}
	return cfg, true
}

// ClearModelConfig removes the persisted model configuration.
func (s *State) ClearModelConfig(ctx context.Context) {
	if err := s.kv.Remove(ctx, keyModelConfig); err != nil {
		log.Error().Err(err).Str("key", keyModelConfig).Msg("failed to remove persisted value")
	}
}

func (s *State) load(ctx context.Context, key string, dest any) bool {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to read persisted value")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// Malformed payloads reset to the default on next load.
		log.Warn().Err(err).Str("key", key).Msg("malformed persisted value, treating as absent")
		return false
	}
	return true
}

func (s *State) save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode persisted value")
		return
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		// State is lost for this write; the in-memory session keeps working.
		log.Error().Err(err).Str("key", key).Msg("failed to write persisted value")
	}
}

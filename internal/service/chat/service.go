// Package chat drives the conversation turn: it is the sole writer of
// session state and sequences responder, splitter output and pacing into an
// ordered stream of session snapshots.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/state"
)

// ErrEmptyMessage rejects a turn whose text trims to nothing.
var ErrEmptyMessage = errors.New("message text is empty")

// Responder produces the assistant fragments for one user turn.
type Responder interface {
	GenerateResponse(ctx context.Context, p persona.Persona, history chat.Session, userText string) []string
}

// Pacer staggers fragment emission.
type Pacer interface {
	BeforeResponse(ctx context.Context) error
	BetweenFragments(ctx context.Context, fragment string) error
}

// Service encapsulates conversation state management.
type Service struct {
	state     *state.State
	personas  persona.Store
	responder Responder
	pacer     Pacer

	mu        sync.Mutex
	turnLocks map[string]*sync.Mutex
	composing map[string]bool
}

// NewService wires the orchestrator to its collaborators.
func NewService(st *state.State, personas persona.Store, responder Responder, pacer Pacer) *Service {
	return &Service{
		state:     st,
		personas:  personas,
		responder: responder,
		pacer:     pacer,
		turnLocks: make(map[string]*sync.Mutex),
		composing: make(map[string]bool),
	}
}

// SelectPersona persists p as currently selected and resolves its session:
// the first persisted session bound to the persona, or a fresh one appended
// to the collection.
func (s *Service) SelectPersona(ctx context.Context, p persona.Persona) chat.Session {
	s.state.SaveSelectedPersona(ctx, p)

	if existing, ok := s.state.FindSessionByPersona(ctx, p.ID); ok {
		return existing
	}

	session := chat.Session{
		ID:             uuid.NewString(),
		PersonaID:      p.ID,
		Messages:       []chat.Message{},
		LastActivityAt: time.Now().UTC(),
	}
	s.state.UpsertSession(ctx, session)
	log.Debug().Str("session", session.ID).Str("persona", p.ID).Msg("created session")
	return session
}

// EnsureOpeningMessage seeds an empty session with the persona's opening
// line. Calling it on a non-empty session is a no-op.
func (s *Service) EnsureOpeningMessage(ctx context.Context, p persona.Persona, session chat.Session) chat.Session {
	if len(session.Messages) > 0 {
		return session
	}

	now := time.Now().UTC()
	session.Messages = append(session.Messages, chat.Message{
		ID:            uuid.NewString(),
		Content:       p.OpeningMessage,
		CreatedAt:     now,
		IsFromUser:    false,
		DeliveryState: chat.DeliveryRead,
	})
	session.LastActivityAt = now
	s.state.UpsertSession(ctx, session)
	return session
}

// DeselectPersona clears the selected-persona marker. Sessions are kept.
func (s *Service) DeselectPersona(ctx context.Context) {
	s.state.ClearSelectedPersona(ctx)
}

// SelectedPersona returns the persisted selection, if any.
func (s *Service) SelectedPersona(ctx context.Context) (persona.Persona, bool) {
	return s.state.LoadSelectedPersona(ctx)
}

// GetSession retrieves a persisted session by identifier.
func (s *Service) GetSession(ctx context.Context, sessionID string) (chat.Session, bool) {
	return s.state.FindSession(ctx, sessionID)
}

// IsComposing reports whether a turn is currently producing fragments for
// the session, i.e. the typing indicator should show.
func (s *Service) IsComposing(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composing[sessionID]
}

// SendUserMessage runs one turn: append the user message, wait out the
// pre-response delay, resolve the assistant fragments and emit them one by
// one with inter-fragment pacing. Every appended message is persisted before
// the corresponding snapshot is emitted. Turns on the same session
// serialize; a second call queues until the first finishes.
func (s *Service) SendUserMessage(ctx context.Context, text string, p persona.Persona, session chat.Session, emit func(chat.Session)) (chat.Session, error) {
	if strings.TrimSpace(text) == "" {
		return session, ErrEmptyMessage
	}

	lock := s.turnLock(session.ID)
	lock.Lock()
	defer lock.Unlock()

	// Another turn may have finished while this one queued; mutate the
	// latest persisted snapshot, not the caller's stale copy.
	if latest, ok := s.state.FindSession(ctx, session.ID); ok {
		session = latest
	}

	s.setComposing(session.ID, true)
	defer s.setComposing(session.ID, false)

	history := session.Clone()

	now := time.Now().UTC()
	session.Messages = append(session.Messages, chat.Message{
		ID:            uuid.NewString(),
		Content:       text,
		CreatedAt:     now,
		IsFromUser:    true,
		DeliveryState: chat.DeliverySent,
	})
	session.LastActivityAt = now
	s.state.UpsertSession(ctx, session)
	emit(session.Clone())

	if err := s.pacer.BeforeResponse(ctx); err != nil {
		return session, err
	}

	// The responder resolves failures internally; it always yields fragments.
	fragments := s.responder.GenerateResponse(ctx, p, history, text)

	for i, fragment := range fragments {
		if i > 0 {
			if err := s.pacer.BetweenFragments(ctx, fragment); err != nil {
				return session, err
			}
		}

		now = time.Now().UTC()
		session.Messages = append(session.Messages, chat.Message{
			ID:            uuid.NewString(),
			Content:       fragment,
			CreatedAt:     now,
			IsFromUser:    false,
			DeliveryState: chat.DeliveryRead,
		})
		session.LastActivityAt = now
		s.state.UpsertSession(ctx, session)
		emit(session.Clone())
	}

	log.Debug().
		Str("session", session.ID).
		Str("persona", p.ID).
		Int("fragments", len(fragments)).
		Msg("turn completed")
	return session, nil
}

func (s *Service) turnLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.turnLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.turnLocks[sessionID] = lock
	}
	return lock
}

func (s *Service) setComposing(sessionID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active {
		s.composing[sessionID] = true
	} else {
		delete(s.composing, sessionID)
	}
}

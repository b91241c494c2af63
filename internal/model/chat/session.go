package chat

import "time"

// Session is the ordered message history between the user and one persona.
// Messages are append-only; slice order is chronological order.
type Session struct {
	ID             string    `json:"id"`
	PersonaID      string    `json:"personaId"`
	Messages       []Message `json:"messages"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// Clone returns a snapshot safe to hand to consumers while the original
// keeps being appended to.
func (s Session) Clone() Session {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	return out
}

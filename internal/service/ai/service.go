// Package ai produces the raw assistant fragments for one user turn, hiding
// whether a live model or the scripted mock answered.
package ai

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/analysis/splitter"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/state"
)

// responseFormatInstructions is appended to every persona system prompt so
// the model answers in 2-3 newline-delimited short fragments.
const responseFormatInstructions = `

## 重要な応答形式の指示
- 一つの入力に対して、短文で2-3個の連続したメッセージで返答してください
- 各メッセージは改行文字「\n」で区切ってください
- 長い文章を一つのメッセージにせず、短い文に分けて自然な会話感を演出してください
- 人間らしい自然な会話の流れを意識してください

## 応答例
入力: "おはよう"
応答: "おはよう！\n今日の調子はどう？"

入力: "いい感じだよ"
応答: "よかった！\nこっちは今日も疲れたよ\nでも君と話せて嬉しい"`

// Service selects between the live model call and the mock responder.
type Service struct {
	state  *state.State
	client Client
	mock   MockResponder
}

// NewService wires the response service to the persisted config and the
// proxy client.
func NewService(st *state.State, client Client) *Service {
	return &Service{state: st, client: client}
}

// GenerateResponse resolves one user turn into an ordered, non-empty list of
// reply fragments. It never returns an error: configuration gaps, transport
// failures and backend failures all fall back to the mock responder so the
// user always gets some in-character reply.
func (s *Service) GenerateResponse(ctx context.Context, p persona.Persona, history chat.Session, userText string) []string {
	cfg, ok := s.state.LoadModelConfig(ctx)
	if !ok || !cfg.IsComplete() {
		log.Debug().Str("persona", p.ID).Msg("model config absent or incomplete, using mock responder")
		return s.mock.Respond(p.ID, userText)
	}

	messages := buildContext(p, history, userText)

	resp, err := s.client.Complete(ctx, cfg, messages)
	if err != nil {
		if isTransportFailure(err) {
			log.Warn().Err(err).Str("persona", p.ID).Msg("model backend unreachable, falling back to mock responder")
		} else {
			log.Error().Err(err).Str("persona", p.ID).Msg("model backend call failed, falling back to mock responder")
		}
		return s.mock.Respond(p.ID, userText)
	}

	if resp.Usage != nil {
		log.Debug().
			Int("prompt_tokens", resp.Usage.PromptTokens).
			Int("completion_tokens", resp.Usage.CompletionTokens).
			Int("total_tokens", resp.Usage.TotalTokens).
			Msg("model usage")
	}

	fragments := splitter.Split(resp.Content)
	if len(fragments) == 0 {
		log.Warn().Str("persona", p.ID).Msg("model returned empty content, falling back to mock responder")
		return s.mock.Respond(p.ID, userText)
	}
	return fragments
}

// buildContext assembles the role-tagged turn context: augmented system
// prompt, session history minus the opening message, then the new user
// message.
func buildContext(p persona.Persona, history chat.Session, userText string) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(history.Messages)+2)
	messages = append(messages, llm.ChatMessage{
		Role:    llm.RoleSystem,
		Content: p.SystemPrompt + responseFormatInstructions,
	})

	for _, msg := range history.Messages {
		if msg.Content == p.OpeningMessage {
			continue
		}
		role := llm.RoleAssistant
		if msg.IsFromUser {
			role = llm.RoleUser
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: msg.Content})
	}

	return append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: userText})
}

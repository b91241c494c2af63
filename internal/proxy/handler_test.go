package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
)

func newTestRouter(d *Dispatcher) http.Handler {
	r := chi.NewRouter()
	NewHandler(d).RegisterRoutes(r)
	return r
}

func postCompletion(t *testing.T, router http.Handler, req llm.CompletionRequest) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat/completions", strings.NewReader(string(raw))))
	return rec
}

func TestCompletionOpenAI(t *testing.T) {
	var gotAuth string
	var gotBody openAIRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "こんにちは！"}}},
			"usage":   map[string]int{"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16},
		})
	}))
	defer upstream.Close()

	d := NewDispatcher(5 * time.Second)
	d.openAIBaseURL = upstream.URL

	rec := postCompletion(t, newTestRouter(d), llm.CompletionRequest{
		Provider: llm.ProviderOpenAI,
		Model:    "gpt-4",
		APIKey:   "sk-test",
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: "あなたは明るい女の子です"},
			{Role: llm.RoleUser, Content: "おはよう"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4", gotBody.Model)
	assert.Len(t, gotBody.Messages, 2)

	var resp llm.CompletionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "こんにちは！", resp.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 16, resp.Usage.TotalTokens)
}

func TestCompletionClaudeExtractsSystemPrompt(t *testing.T) {
	var gotBody claudeRequest
	var gotVersion, gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": "ふふ、おはよう"}},
			"usage":   map[string]int{"input_tokens": 20, "output_tokens": 6},
		})
	}))
	defer upstream.Close()

	d := NewDispatcher(5 * time.Second)
	d.claudeBaseURL = upstream.URL

	rec := postCompletion(t, newTestRouter(d), llm.CompletionRequest{
		Provider: llm.ProviderClaude,
		Model:    "claude-3-sonnet-20240229",
		APIKey:   "sk-ant-test",
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: "あなたは落ち着いた女性です"},
			{Role: llm.RoleUser, Content: "おはよう"},
			{Role: llm.RoleAssistant, Content: "おはようございます"},
			{Role: llm.RoleUser, Content: "調子はどう？"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "sk-ant-test", gotKey)
	assert.Equal(t, "あなたは落ち着いた女性です", gotBody.System)
	require.Len(t, gotBody.Messages, 3)
	for _, msg := range gotBody.Messages {
		assert.NotEqual(t, llm.RoleSystem, msg.Role)
	}

	var resp llm.CompletionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ふふ、おはよう", resp.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 26, resp.Usage.TotalTokens)
}

func TestCompletionDeepSeekUsesRequestBaseURL(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "なるほど"}}},
		})
	}))
	defer upstream.Close()

	d := NewDispatcher(5 * time.Second)

	rec := postCompletion(t, newTestRouter(d), llm.CompletionRequest{
		Provider: llm.ProviderDeepSeek,
		Model:    "deepseek-chat",
		APIKey:   "sk-test",
		BaseURL:  upstream.URL + "/",
		Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "やあ"}},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp llm.CompletionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "なるほど", resp.Content)
	assert.Nil(t, resp.Usage)
}

func TestCompletionValidation(t *testing.T) {
	router := newTestRouter(NewDispatcher(5 * time.Second))

	tests := []struct {
		name string
		req  llm.CompletionRequest
	}{
		{"missing provider", llm.CompletionRequest{Model: "m", APIKey: "k", Messages: []llm.ChatMessage{{Role: "user", Content: "x"}}}},
		{"unknown provider", llm.CompletionRequest{Provider: "gemini", Model: "m", APIKey: "k", Messages: []llm.ChatMessage{{Role: "user", Content: "x"}}}},
		{"missing api key", llm.CompletionRequest{Provider: llm.ProviderOpenAI, Model: "m", Messages: []llm.ChatMessage{{Role: "user", Content: "x"}}}},
		{"missing model", llm.CompletionRequest{Provider: llm.ProviderOpenAI, APIKey: "k", Messages: []llm.ChatMessage{{Role: "user", Content: "x"}}}},
		{"no messages", llm.CompletionRequest{Provider: llm.ProviderOpenAI, Model: "m", APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCompletion(t, router, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCompletionUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer upstream.Close()

	d := NewDispatcher(5 * time.Second)
	d.openAIBaseURL = upstream.URL

	rec := postCompletion(t, newTestRouter(d), llm.CompletionRequest{
		Provider: llm.ProviderOpenAI,
		Model:    "gpt-4",
		APIKey:   "bad-key",
		Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "やあ"}},
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Contains(t, payload["error"], "401")
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(NewDispatcher(time.Second)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

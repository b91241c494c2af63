package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
)

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name string
		cfg  llm.ModelConfig
		want bool
	}{
		{"all fields", llm.ModelConfig{Provider: llm.ProviderOpenAI, APIKey: "sk-x", Model: "gpt-4o"}, true},
		{"missing provider", llm.ModelConfig{APIKey: "sk-x", Model: "gpt-4o"}, false},
		{"blank api key", llm.ModelConfig{Provider: llm.ProviderOpenAI, APIKey: "   ", Model: "gpt-4o"}, false},
		{"blank model", llm.ModelConfig{Provider: llm.ProviderOpenAI, APIKey: "sk-x", Model: "\t"}, false},
		// deepseek without baseURL is still complete at this layer; the
		// baseURL rule only applies at settings-save time.
		{"deepseek no baseURL", llm.ModelConfig{Provider: llm.ProviderDeepSeek, APIKey: "sk-x", Model: "deepseek-chat"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.IsComplete())
		})
	}
}

func TestValidateForSave(t *testing.T) {
	empty := llm.ModelConfig{}
	assert.Len(t, empty.ValidateForSave(), 3)

	deepseek := llm.ModelConfig{Provider: llm.ProviderDeepSeek, APIKey: "sk-x", Model: "deepseek-chat"}
	problems := deepseek.ValidateForSave()
	if assert.Len(t, problems, 1) {
		assert.Contains(t, problems[0], "ベースURL")
	}

	deepseek.BaseURL = "https://api.deepseek.com"
	assert.Empty(t, deepseek.ValidateForSave())

	openai := llm.ModelConfig{Provider: llm.ProviderOpenAI, APIKey: "sk-x", Model: "gpt-4o"}
	assert.Empty(t, openai.ValidateForSave())

	unknown := llm.ModelConfig{Provider: "gemini", APIKey: "k", Model: "m"}
	problems = unknown.ValidateForSave()
	if assert.Len(t, problems, 1) {
		assert.Contains(t, problems[0], "サポートされていない")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := llm.DefaultConfig(llm.ProviderDeepSeek)
	assert.Equal(t, "deepseek-chat", cfg.Model)
	assert.Equal(t, "https://api.deepseek.com", cfg.BaseURL)

	cfg = llm.DefaultConfig(llm.ProviderOpenAI)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
	assert.Empty(t, cfg.BaseURL)
}

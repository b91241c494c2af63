package llm

import "strings"

// Provider identifies a model backend the proxy can dispatch to.
type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderClaude   Provider = "claude"
	ProviderDeepSeek Provider = "deepseek"
)

// ModelConfig is the user-supplied model configuration persisted per device.
type ModelConfig struct {
	Provider Provider `json:"provider"`
	APIKey   string   `json:"apiKey"`
	Model    string   `json:"model"`
	BaseURL  string   `json:"baseURL,omitempty"`
}

// IsComplete reports whether the config is usable for a dispatch attempt.
// BaseURL is deliberately not checked here even though some providers need
// one for an actual call; that stricter rule belongs to ValidateForSave.
func (c ModelConfig) IsComplete() bool {
	return c.Provider != "" &&
		strings.TrimSpace(c.APIKey) != "" &&
		strings.TrimSpace(c.Model) != ""
}

// ProviderInfo describes a selectable provider for the settings UI.
type ProviderInfo struct {
	ID              Provider `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RequiresBaseURL bool     `json:"requiresBaseURL"`
}

// AvailableProviders lists the providers the proxy understands.
func AvailableProviders() []ProviderInfo {
	return []ProviderInfo{
		{ID: ProviderOpenAI, Name: "OpenAI", Description: "ChatGPT API (GPT-3.5, GPT-4)"},
		{ID: ProviderClaude, Name: "Anthropic Claude", Description: "Claude 3 API"},
		{ID: ProviderDeepSeek, Name: "DeepSeek", Description: "DeepSeek Chat API", RequiresBaseURL: true},
	}
}

// DefaultModels maps each provider to its default model id.
var DefaultModels = map[Provider]string{
	ProviderOpenAI:   "gpt-3.5-turbo",
	ProviderClaude:   "claude-3-sonnet-20240229",
	ProviderDeepSeek: "deepseek-chat",
}

// DefaultBaseURLs maps providers that require a custom endpoint to its default.
var DefaultBaseURLs = map[Provider]string{
	ProviderDeepSeek: "https://api.deepseek.com",
}

// DefaultConfig builds the initial settings form values for a provider.
func DefaultConfig(p Provider) ModelConfig {
	return ModelConfig{
		Provider: p,
		Model:    DefaultModels[p],
		BaseURL:  DefaultBaseURLs[p],
	}
}

func providerInfo(p Provider) (ProviderInfo, bool) {
	for _, info := range AvailableProviders() {
		if info.ID == p {
			return info, true
		}
	}
	return ProviderInfo{}, false
}

// ValidateForSave runs the manual settings-save validation and returns
// human-readable messages. Unlike IsComplete it enforces provider-specific
// requirements such as a mandatory baseURL.
func (c ModelConfig) ValidateForSave() []string {
	var problems []string

	info, known := providerInfo(c.Provider)
	if c.Provider == "" {
		problems = append(problems, "プロバイダーを選択してください")
	} else if !known {
		problems = append(problems, "サポートされていないプロバイダーです: "+string(c.Provider))
	}

	if strings.TrimSpace(c.APIKey) == "" {
		problems = append(problems, "APIキーを入力してください")
	}
	if strings.TrimSpace(c.Model) == "" {
		problems = append(problems, "モデル名を入力してください")
	}
	if known && info.RequiresBaseURL && strings.TrimSpace(c.BaseURL) == "" {
		problems = append(problems, info.Name+"にはベースURLの設定が必要です")
	}

	return problems
}

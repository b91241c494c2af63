package llm

// Chat roles as understood by every provider behind the proxy.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged entry of the model context.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the payload of the single opaque RPC to the model
// backend proxy. The core never encodes provider wire formats itself.
type CompletionRequest struct {
	Provider Provider      `json:"provider"`
	Model    string        `json:"model"`
	APIKey   string        `json:"apiKey"`
	BaseURL  string        `json:"baseURL,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// Usage reports token accounting when the provider supplies it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the normalized success payload of the proxy.
type CompletionResponse struct {
	Content string `json:"content"`
	Usage   *Usage `json:"usage,omitempty"`
}

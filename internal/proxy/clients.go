package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
)

const anthropicVersion = "2023-06-01"

// Dispatcher forwards completion requests to the configured model provider
// and normalizes the provider responses to a single shape.
type Dispatcher struct {
	httpClient *http.Client

	// Overridable in tests.
	openAIBaseURL   string
	claudeBaseURL   string
	deepSeekBaseURL string
}

// NewDispatcher creates a dispatcher with the given upstream timeout.
func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		httpClient:      &http.Client{Timeout: timeout},
		openAIBaseURL:   "https://api.openai.com",
		claudeBaseURL:   "https://api.anthropic.com",
		deepSeekBaseURL: "https://api.deepseek.com",
	}
}

// Dispatch routes the request to its provider.
func (d *Dispatcher) Dispatch(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	switch req.Provider {
	case llm.ProviderOpenAI:
		return d.callOpenAI(ctx, req, d.openAIBaseURL)
	case llm.ProviderClaude:
		return d.callClaude(ctx, req)
	case llm.ProviderDeepSeek:
		base := strings.TrimSuffix(req.BaseURL, "/")
		if base == "" {
			base = d.deepSeekBaseURL
		}
		return d.callDeepSeek(ctx, req, base)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", req.Provider)
	}
}

type openAIRequest struct {
	Model    string            `json:"model"`
	Messages []llm.ChatMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *llm.Usage `json:"usage"`
}

// callOpenAI speaks the OpenAI chat-completions dialect.
func (d *Dispatcher) callOpenAI(ctx context.Context, req llm.CompletionRequest, base string) (*llm.CompletionResponse, error) {
	body := openAIRequest{Model: req.Model, Messages: req.Messages}

	httpReq, err := d.newJSONRequest(ctx, base+"/v1/chat/completions", body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	var parsed openAIResponse
	if err := d.do(httpReq, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai response contained no choices")
	}

	return &llm.CompletionResponse{
		Content: parsed.Choices[0].Message.Content,
		Usage:   parsed.Usage,
	}, nil
}

// callDeepSeek uses the OpenAI-compatible DeepSeek endpoint.
func (d *Dispatcher) callDeepSeek(ctx context.Context, req llm.CompletionRequest, base string) (*llm.CompletionResponse, error) {
	body := openAIRequest{Model: req.Model, Messages: req.Messages}

	httpReq, err := d.newJSONRequest(ctx, base+"/chat/completions", body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	var parsed openAIResponse
	if err := d.do(httpReq, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("deepseek response contained no choices")
	}

	return &llm.CompletionResponse{
		Content: parsed.Choices[0].Message.Content,
		Usage:   parsed.Usage,
	}, nil
}

type claudeRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
	Messages  []llm.ChatMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// callClaude speaks the Anthropic messages dialect; system prompts travel in
// a dedicated field rather than the message list.
func (d *Dispatcher) callClaude(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var system string
	messages := make([]llm.ChatMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == llm.RoleSystem {
			if system != "" {
				system += "\n"
			}
			system += msg.Content
			continue
		}
		messages = append(messages, msg)
	}

	body := claudeRequest{
		Model:     req.Model,
		MaxTokens: 1024,
		System:    system,
		Messages:  messages,
	}

	httpReq, err := d.newJSONRequest(ctx, d.claudeBaseURL+"/v1/messages", body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", req.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	var parsed claudeResponse
	if err := d.do(httpReq, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("claude response contained no content")
	}

	resp := &llm.CompletionResponse{Content: parsed.Content[0].Text}
	if parsed.Usage != nil {
		resp.Usage = &llm.Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		}
	}
	return resp, nil
}

func (d *Dispatcher) newJSONRequest(ctx context.Context, url string, body any) (*http.Request, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode upstream request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

func (d *Dispatcher) do(req *http.Request, dest any) error {
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upstream returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}

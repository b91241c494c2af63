package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/llm"
)

// Client issues the single opaque completion RPC against the model backend
// proxy. Provider wire formats live entirely on the other side of this call.
type Client interface {
	Complete(ctx context.Context, cfg llm.ModelConfig, messages []llm.ChatMessage) (*llm.CompletionResponse, error)
}

// ProxyError carries a backend-reported failure: a non-2xx proxy response.
type ProxyError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("backend API error: %s - %s", e.Status, e.Body)
}

// ProxyClient is the HTTP implementation of Client.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProxyClient points a client at the proxy base URL.
func NewProxyClient(baseURL string, timeout time.Duration) *ProxyClient {
	return &ProxyClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete posts the full turn context and returns the normalized response.
func (c *ProxyClient) Complete(ctx context.Context, cfg llm.ModelConfig, messages []llm.ChatMessage) (*llm.CompletionResponse, error) {
	payload := llm.CompletionRequest{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Messages: messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &ProxyError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(errBody),
		}
	}

	var completion llm.CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	return &completion, nil
}

// isTransportFailure separates connectivity problems from failures the
// backend itself reported. Both funnel to the same fallback; the
// classification only drives log severity.
func isTransportFailure(err error) bool {
	var proxyErr *ProxyError
	if errors.As(err, &proxyErr) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

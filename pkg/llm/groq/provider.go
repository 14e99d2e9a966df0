// Package groq talks to Groq's OpenAI-compatible chat completions endpoint.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"english-tutor-be/pkg/llm"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
	providerName   = "groq"
)

var ErrNoAPIKey = errors.New("groq: at least one API key is required")

type GroqProvider struct {
	baseURL string
	model   string
	client  *http.Client

	mu      sync.Mutex
	keys    []string
	current int
}

var _ llm.LLMProvider = &GroqProvider{}

// Option configures the provider.
type Option func(*GroqProvider)

// WithBaseURL sets a custom base URL (for testing or proxying).
func WithBaseURL(url string) Option {
	return func(p *GroqProvider) {
		p.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *GroqProvider) {
		p.client = client
	}
}

// NewGroqProvider builds a provider that rotates across keys when one hits its quota.
func NewGroqProvider(keys []string, model string, opts ...Option) (*GroqProvider, error) {
	usable := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			usable = append(usable, k)
		}
	}
	if len(usable) == 0 {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	p := &GroqProvider{
		baseURL: DefaultBaseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
		keys:    usable,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Request Payload Structure (OpenAI Compatible)
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *GroqProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)
	history = options.WithSystem(history)

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]chatMessage, len(history))
	for i, m := range history {
		role := m.Role
		if role == "model" {
			role = llm.RoleAssistant
		}
		messages[i] = chatMessage{Role: role, Content: m.Content}
	}

	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}
	if options.JSONResponse {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// One attempt per key; only quota failures move on to the next key.
	var lastErr error
	for attempt := 0; attempt < p.keyCount(); attempt++ {
		key := p.currentKey()
		reply, err := p.send(ctx, key, payload)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		var pe *llm.ProviderError
		if !errors.As(err, &pe) || !pe.QuotaExceeded() {
			return "", err
		}
		p.rotate(key)
	}
	return "", lastErr
}

func (p *GroqProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *GroqProvider) send(ctx context.Context, key string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", llm.NewProviderError(providerName, "chat", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.NewProviderError(providerName, "chat", resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	var parsed chatResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if decodeErr == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", llm.NewProviderError(providerName, "chat", resp.StatusCode, errors.New(msg))
	}
	if decodeErr != nil {
		return "", llm.NewProviderError(providerName, "chat", resp.StatusCode, fmt.Errorf("unmarshal response: %w", decodeErr))
	}
	if len(parsed.Choices) == 0 {
		return "", llm.NewProviderError(providerName, "chat", resp.StatusCode, errors.New("no choices returned"))
	}

	return parsed.Choices[0].Message.Content, nil
}

func (p *GroqProvider) keyCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

func (p *GroqProvider) currentKey() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[p.current]
}

// rotate advances past key unless another request already did.
func (p *GroqProvider) rotate(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.keys[p.current] == key {
		p.current = (p.current + 1) % len(p.keys)
	}
}

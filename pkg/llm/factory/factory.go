package factory

import (
	"context"
	"fmt"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/llm/gemini"
	"english-tutor-be/pkg/llm/groq"
	"english-tutor-be/pkg/llm/ollama"
)

// Settings carries what the factory needs from config without importing it.
type Settings struct {
	Provider  string // "ollama", "groq", "gemini"
	Model     string
	BaseURL   string
	GroqKeys  []string
	GeminiKey string
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "groq":
		var opts []groq.Option
		if s.BaseURL != "" {
			opts = append(opts, groq.WithBaseURL(s.BaseURL))
		}
		return groq.NewGroqProvider(s.GroqKeys, s.Model, opts...)
	case "gemini":
		return gemini.NewGeminiProvider(ctx, s.GeminiKey, s.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}

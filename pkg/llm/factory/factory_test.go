package factory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/llm/groq"
	"english-tutor-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewLLMProvider(ctx, Settings{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider(ctx, Settings{Provider: "groq", Model: "m", GroqKeys: []string{"k"}})
	require.NoError(t, err)
	assert.IsType(t, &groq.GroqProvider{}, p)

	_, err = NewLLMProvider(ctx, Settings{Provider: "groq", Model: "m"})
	assert.ErrorIs(t, err, groq.ErrNoAPIKey)

	_, err = NewLLMProvider(ctx, Settings{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewLLMProvider(ctx, Settings{Provider: "openai"})
	assert.EqualError(t, err, "unsupported LLM provider: openai")
}

func TestGroqWithoutModelUsesDefault(t *testing.T) {
	var sent struct {
		Model string `json:"model"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "hi"}}},
		})
	}))
	defer srv.Close()

	p, err := NewLLMProvider(context.Background(), Settings{
		Provider: "groq",
		BaseURL:  srv.URL,
		GroqKeys: []string{"k"},
	})
	require.NoError(t, err)

	_, err = p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, groq.DefaultModel, sent.Model)
	assert.Equal(t, "llama-3.3-70b-versatile", sent.Model)
}

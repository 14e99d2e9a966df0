package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			text: `{"errors": []}`,
			want: `{"errors": []}`,
		},
		{
			name: "fenced with prose",
			text: "Sure! Here you go:\n```json\n{\"errors\": [{\"original\": \"has\"}]}\n```",
			want: `{"errors": [{"original": "has"}]}`,
		},
		{
			name:    "no braces",
			text:    "I could not find any errors.",
			wantErr: true,
		},
		{
			name:    "closing before opening",
			text:    "} nothing {",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoJSONObject)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviderError(t *testing.T) {
	base := fmt.Errorf("dial: %w", context.DeadlineExceeded)
	err := NewProviderError("groq", "chat", 0, base)

	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.True(t, pe.Timeout())
	assert.False(t, pe.QuotaExceeded())
	assert.True(t, IsProviderError(fmt.Errorf("turn: %w", err)))

	// Already wrapped errors are not double wrapped.
	again := NewProviderError("ollama", "chat", 500, err)
	assert.Same(t, err, again)

	quota := &ProviderError{Provider: "groq", StatusCode: 429, Err: errors.New("rate limited")}
	assert.True(t, quota.QuotaExceeded())
	assert.Equal(t, "groq (status 429): rate limited", quota.Error())
}

func TestApplyOptions(t *testing.T) {
	o := ApplyOptions(WithTemperature(0.3), WithMaxTokens(500), WithJSONResponse(), WithSystemInstruction("be brief"))
	assert.Equal(t, 0.3, o.Temperature)
	assert.Equal(t, 500, o.MaxTokens)
	assert.True(t, o.JSONResponse)

	history := o.WithSystem([]Message{{Role: RoleUser, Content: "hi"}})
	assert.Len(t, history, 2)
	assert.Equal(t, RoleSystem, history[0].Role)
	assert.Equal(t, "be brief", history[0].Content)

	assert.Equal(t, 0.7, ApplyOptions().Temperature)
}

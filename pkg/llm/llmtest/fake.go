// Package llmtest provides a scripted LLMProvider for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"english-tutor-be/pkg/llm"
)

var ErrNoScriptedResponse = errors.New("llmtest: no scripted response left")

// Call records one request the fake received.
type Call struct {
	History []llm.Message
	Options llm.Options
}

type reply struct {
	text string
	err  error
}

// Provider returns queued replies in order and records every call.
type Provider struct {
	mu      sync.Mutex
	replies []reply
	calls   []Call
}

var _ llm.LLMProvider = &Provider{}

func New() *Provider {
	return &Provider{}
}

// Reply queues a successful response.
func (p *Provider) Reply(text string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, reply{text: text})
	return p
}

// Fail queues an error response.
func (p *Provider) Fail(err error) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, reply{err: err})
	return p
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	p.mu.Lock()
	defer p.mu.Unlock()

	copied := make([]llm.Message, len(history))
	copy(copied, history)
	p.calls = append(p.calls, Call{History: copied, Options: *options})

	if err := ctx.Err(); err != nil {
		return "", llm.NewProviderError("fake", "chat", 0, err)
	}
	if len(p.replies) == 0 {
		return "", llm.NewProviderError("fake", "chat", 0, ErrNoScriptedResponse)
	}
	next := p.replies[0]
	p.replies = p.replies[1:]
	if next.err != nil {
		return "", llm.NewProviderError("fake", "chat", 0, next.err)
	}
	return next.text, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// Calls returns a snapshot of the recorded calls.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

// LastUserMessage returns the content of the final user message in the call.
func (c Call) LastUserMessage() string {
	for i := len(c.History) - 1; i >= 0; i-- {
		if c.History[i].Role == llm.RoleUser {
			return c.History[i].Content
		}
	}
	return ""
}

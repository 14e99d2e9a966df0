package pipeline

import (
	"context"
	"strings"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor"
	"english-tutor-be/pkg/tutor/prompt"
	"english-tutor-be/pkg/tutor/session"
)

// ChatPipeline converses like a friend with the whole transcript as context.
// It never extracts corrections; assessment happens later in feedback.
type ChatPipeline struct {
	llmProvider llm.LLMProvider
	templates   prompt.Templates
	params      tutor.Params
	logger      tutor.Logger
}

func NewChatPipeline(llmProvider llm.LLMProvider, templates prompt.Templates, params tutor.Params, logger tutor.Logger) *ChatPipeline {
	return &ChatPipeline{
		llmProvider: llmProvider,
		templates:   templates,
		params:      params,
		logger:      logger,
	}
}

func (p *ChatPipeline) Run(ctx context.Context, state *session.State, userText string) (*Output, error) {
	messages := historyMessages(state.Transcript, 0)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userText})

	p.logger.Debug("ChatPipeline", "Executing with history", map[string]interface{}{"messages": len(messages)})

	reply, err := p.llmProvider.Chat(ctx, messages,
		llm.WithSystemInstruction(p.templates.ChatSystem),
		llm.WithTemperature(p.params.ChatReply.Temperature),
		llm.WithMaxTokens(p.params.ChatReply.MaxTokens),
	)
	if err != nil {
		p.logger.Error("ChatPipeline", "Reply generation failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	return &Output{
		Reply:       strings.TrimSpace(reply),
		Corrections: []session.Correction{},
	}, nil
}

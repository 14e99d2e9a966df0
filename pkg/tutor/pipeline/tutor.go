package pipeline

import (
	"context"
	"strings"
	"unicode/utf8"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor"
	"english-tutor-be/pkg/tutor/prompt"
	"english-tutor-be/pkg/tutor/session"
)

// tutorHistoryWindow is how many recent transcript messages the tutor reply sees.
const tutorHistoryWindow = 10

// TutorPipeline checks grammar first, then composes a reply that talks about the corrections.
// The two gateway calls are sequential: the reply depends on the grammar result.
type TutorPipeline struct {
	llmProvider llm.LLMProvider
	templates   prompt.Templates
	params      tutor.Params
	logger      tutor.Logger
}

func NewTutorPipeline(llmProvider llm.LLMProvider, templates prompt.Templates, params tutor.Params, logger tutor.Logger) *TutorPipeline {
	return &TutorPipeline{
		llmProvider: llmProvider,
		templates:   templates,
		params:      params,
		logger:      logger,
	}
}

func (p *TutorPipeline) Run(ctx context.Context, state *session.State, userText string) (*Output, error) {
	corrections, degraded, err := p.checkGrammar(ctx, userText)
	if err != nil {
		return nil, err
	}

	reply, err := p.composeReply(ctx, state, userText, corrections)
	if err != nil {
		return nil, err
	}

	return &Output{
		Reply:       reply,
		Corrections: corrections,
		Degraded:    degraded,
	}, nil
}

// checkGrammar sees the message alone, with no conversation history.
func (p *TutorPipeline) checkGrammar(ctx context.Context, userText string) ([]session.Correction, bool, error) {
	raw, err := p.llmProvider.Chat(ctx,
		[]llm.Message{{Role: llm.RoleUser, Content: p.templates.GrammarPrompt(userText)}},
		llm.WithSystemInstruction(p.templates.GrammarSystem),
		llm.WithTemperature(p.params.Grammar.Temperature),
		llm.WithMaxTokens(p.params.Grammar.MaxTokens),
		llm.WithJSONResponse(),
	)
	if err != nil {
		p.logger.Error("TutorPipeline", "Grammar check failed", map[string]interface{}{"error": err.Error()})
		return nil, false, err
	}

	corrections, err := ParseCorrections(raw)
	if err != nil {
		p.logger.Warn("TutorPipeline", "Unparsable grammar result, treating as no corrections", map[string]interface{}{
			"error": err.Error(),
			"raw":   truncate(raw, 200),
		})
		return []session.Correction{}, true, nil
	}

	p.logger.Debug("TutorPipeline", "Grammar checked", map[string]interface{}{"corrections": len(corrections)})
	return corrections, false, nil
}

func (p *TutorPipeline) composeReply(ctx context.Context, state *session.State, userText string, corrections []session.Correction) (string, error) {
	messages := historyMessages(state.Transcript, tutorHistoryWindow)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: p.templates.TutorReplyPrompt(userText, corrections, state.EstimatedLevel),
	})

	reply, err := p.llmProvider.Chat(ctx, messages,
		llm.WithSystemInstruction(p.templates.TutorSystem),
		llm.WithTemperature(p.params.TutorReply.Temperature),
		llm.WithMaxTokens(p.params.TutorReply.MaxTokens),
	)
	if err != nil {
		p.logger.Error("TutorPipeline", "Reply generation failed", map[string]interface{}{"error": err.Error()})
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// truncate keeps at most maxLen runes.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}

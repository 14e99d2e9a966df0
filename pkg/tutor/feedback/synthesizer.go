// Package feedback turns a transcript into a structured assessment.
package feedback

import (
	"context"
	"time"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor"
	"english-tutor-be/pkg/tutor/prompt"
	"english-tutor-be/pkg/tutor/session"
)

// Synthesizer makes one gateway call per request and never mutates the session.
type Synthesizer struct {
	llmProvider llm.LLMProvider
	templates   prompt.Templates
	params      tutor.TaskParams
	logger      tutor.Logger
	now         func() time.Time
}

func NewSynthesizer(llmProvider llm.LLMProvider, templates prompt.Templates, params tutor.TaskParams, logger tutor.Logger) *Synthesizer {
	return &Synthesizer{
		llmProvider: llmProvider,
		templates:   templates,
		params:      params,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, state *session.State) (*Report, error) {
	if state.MessageCount == 0 {
		return nil, tutor.ErrInsufficientData
	}

	// Stamped before the call so a concurrent mutation cannot leak into the report.
	totalMessages := state.MessageCount
	userPrompt := s.templates.FeedbackPrompt(state.Transcript)

	raw, err := s.llmProvider.Chat(ctx,
		[]llm.Message{{Role: llm.RoleUser, Content: userPrompt}},
		llm.WithSystemInstruction(s.templates.FeedbackSystem),
		llm.WithTemperature(s.params.Temperature),
		llm.WithMaxTokens(s.params.MaxTokens),
		llm.WithJSONResponse(),
	)
	if err != nil {
		s.logger.Error("FeedbackSynthesizer", "Feedback generation failed", map[string]interface{}{
			"session_id": state.ID,
			"error":      err.Error(),
		})
		return nil, err
	}

	report, degraded := ParseReport(raw)
	if degraded {
		s.logger.Warn("FeedbackSynthesizer", "Feedback response partially unparsable, defaults applied", map[string]interface{}{
			"session_id": state.ID,
		})
	}
	report.TotalMessages = totalMessages
	report.GeneratedAt = s.now()

	s.logger.Info("FeedbackSynthesizer", "Feedback generated", map[string]interface{}{
		"session_id":    state.ID,
		"overall_score": report.OverallScore,
		"total":         totalMessages,
	})
	return report, nil
}

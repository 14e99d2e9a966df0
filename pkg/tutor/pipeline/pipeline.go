package pipeline

import (
	"context"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor/session"
)

// Output is what a pipeline hands back to the engine for committing.
// Pipelines never mutate the session themselves.
type Output struct {
	Reply       string
	Corrections []session.Correction

	// Degraded is set when a structured sub-result was unusable and defaulted.
	Degraded bool
}

// Pipeline processes one user turn for a given mode.
type Pipeline interface {
	Run(ctx context.Context, state *session.State, userText string) (*Output, error)
}

// historyMessages converts transcript turns into gateway messages.
// limit <= 0 keeps the whole transcript.
func historyMessages(transcript []session.Turn, limit int) []llm.Message {
	if limit > 0 && len(transcript) > limit {
		transcript = transcript[len(transcript)-limit:]
	}
	out := make([]llm.Message, 0, len(transcript)+1)
	for _, t := range transcript {
		role := llm.RoleUser
		if t.Role == session.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: t.Text})
	}
	return out
}

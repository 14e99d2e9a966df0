// Package engine is the conversation state machine: it validates a learner
// message, dispatches it to the pipeline of the session's mode and commits the
// turn into the session state.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"english-tutor-be/pkg/llm"
	"english-tutor-be/pkg/tutor"
	"english-tutor-be/pkg/tutor/feedback"
	"english-tutor-be/pkg/tutor/pipeline"
	"english-tutor-be/pkg/tutor/prompt"
	"english-tutor-be/pkg/tutor/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout          = 60 * time.Second
	DefaultMaxMessageLength = 2000
)

type Config struct {
	Templates        prompt.Templates
	Params           tutor.Params
	Timeout          time.Duration // per ProcessTurn / Feedback call, covers every gateway call in it
	MaxMessageLength int           // in runes
}

func DefaultConfig() Config {
	return Config{
		Templates:        prompt.Default(),
		Params:           tutor.DefaultParams(),
		Timeout:          DefaultTimeout,
		MaxMessageLength: DefaultMaxMessageLength,
	}
}

// TurnResult is what one successful turn produces.
type TurnResult struct {
	Reply          string
	Corrections    []session.Correction
	Mode           session.Mode
	MessageCount   int
	EstimatedLevel session.Level
}

// Engine holds no session state; callers pass the state they own.
// It must not be used concurrently on the same *session.State.
type Engine struct {
	tutorPipeline pipeline.Pipeline
	chatPipeline  pipeline.Pipeline
	synthesizer   *feedback.Synthesizer

	timeout          time.Duration
	maxMessageLength int
	logger           tutor.Logger
	tracer           trace.Tracer
	now              func() time.Time
}

func New(llmProvider llm.LLMProvider, cfg Config, logger tutor.Logger) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = DefaultMaxMessageLength
	}
	if logger == nil {
		logger = tutor.NopLogger{}
	}

	return &Engine{
		tutorPipeline:    pipeline.NewTutorPipeline(llmProvider, cfg.Templates, cfg.Params, logger),
		chatPipeline:     pipeline.NewChatPipeline(llmProvider, cfg.Templates, cfg.Params, logger),
		synthesizer:      feedback.NewSynthesizer(llmProvider, cfg.Templates, cfg.Params.Feedback, logger),
		timeout:          cfg.Timeout,
		maxMessageLength: cfg.MaxMessageLength,
		logger:           logger,
		tracer:           otel.Tracer("english-tutor-be/engine"),
		now:              time.Now,
	}
}

// ProcessTurn runs one learner message through the pipeline of state.Mode.
// state is changed only when every gateway call succeeded.
func (e *Engine) ProcessTurn(ctx context.Context, state *session.State, userText string) (*TurnResult, error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return nil, &tutor.ValidationError{Field: "message", Message: "must not be empty"}
	}
	if n := utf8.RuneCountInString(text); n > e.maxMessageLength {
		return nil, &tutor.ValidationError{
			Field:   "message",
			Message: fmt.Sprintf("must be at most %d characters, got %d", e.maxMessageLength, n),
		}
	}

	ctx, span := e.tracer.Start(ctx, "tutor.ProcessTurn", trace.WithAttributes(
		attribute.String("session.id", state.ID),
		attribute.String("session.mode", string(state.Mode)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	p, err := e.pipelineFor(state.Mode)
	if err != nil {
		return nil, err
	}

	pctx, pspan := e.tracer.Start(ctx, "tutor.pipeline."+string(state.Mode))
	out, err := p.Run(pctx, state, text)
	if err != nil {
		pspan.RecordError(err)
		pspan.SetStatus(codes.Error, "pipeline failed")
		pspan.End()
		span.SetStatus(codes.Error, err.Error())
		e.logger.Error("Engine", "Turn failed, session unchanged", map[string]interface{}{
			"session_id": state.ID,
			"mode":       string(state.Mode),
			"error":      err.Error(),
		})
		return nil, err
	}
	pspan.SetAttributes(
		attribute.Int("corrections", len(out.Corrections)),
		attribute.Bool("degraded", out.Degraded),
	)
	pspan.End()

	e.commit(state, text, out)

	span.SetAttributes(attribute.Int("session.message_count", state.MessageCount))
	e.logger.Info("Engine", "Turn processed", map[string]interface{}{
		"session_id":    state.ID,
		"mode":          string(state.Mode),
		"message_count": state.MessageCount,
		"corrections":   len(out.Corrections),
		"level":         string(state.EstimatedLevel),
	})

	return &TurnResult{
		Reply:          out.Reply,
		Corrections:    append([]session.Correction{}, out.Corrections...),
		Mode:           state.Mode,
		MessageCount:   state.MessageCount,
		EstimatedLevel: state.EstimatedLevel,
	}, nil
}

func (e *Engine) pipelineFor(mode session.Mode) (pipeline.Pipeline, error) {
	switch mode {
	case session.ModeTutor:
		return e.tutorPipeline, nil
	case session.ModeChat:
		return e.chatPipeline, nil
	default:
		return nil, &tutor.ValidationError{Field: "mode", Message: fmt.Sprintf("unknown session mode %q", mode)}
	}
}

// commit is the only place a turn is written into the session.
func (e *Engine) commit(state *session.State, text string, out *pipeline.Output) {
	now := e.now()
	state.Transcript = append(state.Transcript,
		session.Turn{Role: session.RoleUser, Text: text, At: now},
		session.Turn{Role: session.RoleAssistant, Text: out.Reply, At: now},
	)
	if state.Mode == session.ModeTutor {
		state.CorrectionLog = append(state.CorrectionLog, out.Corrections...)
	}
	state.MessageCount++
	state.EstimatedLevel = session.EstimateLevel(state)
	state.UpdatedAt = now
}

// SwitchMode moves the session to requested, clearing the conversation.
// Requesting the current mode is a no-op and reports changed=false.
func (e *Engine) SwitchMode(state *session.State, requested string) (changed bool, err error) {
	mode, err := session.ParseMode(requested)
	if err != nil {
		return false, err
	}
	if mode == state.Mode {
		return false, nil
	}

	previous := state.Mode
	state.ClearConversation()
	state.Mode = mode
	state.UpdatedAt = e.now()

	e.logger.Info("Engine", "Mode switched", map[string]interface{}{
		"session_id": state.ID,
		"from":       string(previous),
		"to":         string(mode),
	})
	return true, nil
}

// Reset clears the conversation but keeps the mode.
func (e *Engine) Reset(state *session.State) {
	state.ClearConversation()
	state.UpdatedAt = e.now()
	e.logger.Info("Engine", "Conversation cleared", map[string]interface{}{
		"session_id": state.ID,
		"mode":       string(state.Mode),
	})
}

// Feedback synthesizes a report from the current transcript without touching it.
func (e *Engine) Feedback(ctx context.Context, state *session.State) (*feedback.Report, error) {
	ctx, span := e.tracer.Start(ctx, "tutor.Feedback", trace.WithAttributes(
		attribute.String("session.id", state.ID),
		attribute.Int("session.message_count", state.MessageCount),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	report, err := e.synthesizer.Synthesize(ctx, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Float64("feedback.overall_score", report.OverallScore))
	return report, nil
}

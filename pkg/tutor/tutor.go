// Package tutor holds the pieces shared by the conversation engine:
// error taxonomy, logging contract and per-task generation parameters.
package tutor

import (
	"errors"
	"fmt"
)

// ValidationError rejects input before any state change or model call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrInsufficientData means feedback was requested before any message was sent.
var ErrInsufficientData = errors.New("no messages to analyze")

// ErrSessionBusy is returned by callers that serialize access to a session
// when another request for it is still in flight.
var ErrSessionBusy = errors.New("session is busy with another request")

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Logger is the structured logging contract used across the engine.
// internal/pkg/logger.ZapLogger satisfies it.
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, string, map[string]interface{}) {}
func (NopLogger) Info(string, string, map[string]interface{})  {}
func (NopLogger) Warn(string, string, map[string]interface{})  {}
func (NopLogger) Error(string, string, map[string]interface{}) {}

// TaskParams are the sampling settings for one kind of model call.
type TaskParams struct {
	Temperature float64
	MaxTokens   int
}

// Params groups the settings of the four model tasks.
type Params struct {
	Grammar    TaskParams
	TutorReply TaskParams
	ChatReply  TaskParams
	Feedback   TaskParams
}

func DefaultParams() Params {
	return Params{
		Grammar:    TaskParams{Temperature: 0.3, MaxTokens: 500},
		TutorReply: TaskParams{Temperature: 0.7, MaxTokens: 500},
		ChatReply:  TaskParams{Temperature: 0.8, MaxTokens: 500},
		Feedback:   TaskParams{Temperature: 0.5, MaxTokens: 1500},
	}
}

package events

import (
	"time"

	"english-tutor-be/pkg/tutor/feedback"
	"english-tutor-be/pkg/tutor/session"
)

const (
	TypeTurnCompleted       = "TUTOR_TURN_COMPLETED"
	TypeModeSwitched        = "TUTOR_MODE_SWITCHED"
	TypeConversationCleared = "TUTOR_CONVERSATION_CLEARED"
	TypeFeedbackGenerated   = "TUTOR_FEEDBACK_GENERATED"
)

// TurnCompletedPayload mirrors the Data of a TUTOR_TURN_COMPLETED event.
type TurnCompletedPayload struct {
	SessionID    string               `json:"session_id"`
	Mode         string               `json:"mode"`
	UserText     string               `json:"user_text"`
	Reply        string               `json:"reply"`
	Corrections  []session.Correction `json:"corrections"`
	MessageCount int                  `json:"message_count"`
	Level        string               `json:"level"`
}

type ModeSwitchedPayload struct {
	SessionID string `json:"session_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type ConversationClearedPayload struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
}

type FeedbackGeneratedPayload struct {
	SessionID string           `json:"session_id"`
	Mode      string           `json:"mode"`
	Report    *feedback.Report `json:"report"`
}

func NewTurnCompleted(p TurnCompletedPayload, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"session_id":    p.SessionID,
			"mode":          p.Mode,
			"user_text":     p.UserText,
			"reply":         p.Reply,
			"corrections":   p.Corrections,
			"message_count": p.MessageCount,
			"level":         p.Level,
		},
		OccurredAt: at,
	}
}

func NewModeSwitched(p ModeSwitchedPayload, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeModeSwitched,
		Data: map[string]interface{}{
			"session_id": p.SessionID,
			"from":       p.From,
			"to":         p.To,
		},
		OccurredAt: at,
	}
}

func NewConversationCleared(p ConversationClearedPayload, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeConversationCleared,
		Data: map[string]interface{}{
			"session_id": p.SessionID,
			"mode":       p.Mode,
		},
		OccurredAt: at,
	}
}

func NewFeedbackGenerated(p FeedbackGeneratedPayload, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeFeedbackGenerated,
		Data: map[string]interface{}{
			"session_id": p.SessionID,
			"mode":       p.Mode,
			"report":     p.Report,
		},
		OccurredAt: at,
	}
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// PracticeSession is one archived conversation. A mode switch or clear closes
// the current one and the next turn opens a new one.
type PracticeSession struct {
	Id        uuid.UUID
	SessionId string // live session key
	Mode      string
	StartedAt time.Time
	EndedAt   *time.Time
}

type ConversationMessage struct {
	Id                uuid.UUID
	PracticeSessionId uuid.UUID
	Role              string
	Content           string
	CreatedAt         time.Time
}

type GrammarError struct {
	Id                uuid.UUID
	PracticeSessionId uuid.UUID
	MessageId         uuid.UUID
	Original          string
	Corrected         string
	Explanation       string
	CreatedAt         time.Time
}

type FeedbackReport struct {
	Id                uuid.UUID
	PracticeSessionId uuid.UUID
	OverallScore      float64
	TotalMessages     int
	Report            []byte // raw JSON of the report payload
	CreatedAt         time.Time
}

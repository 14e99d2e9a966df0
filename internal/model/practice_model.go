package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PracticeSession struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SessionId string     `gorm:"type:varchar(64);not null;index"`
	Mode      string     `gorm:"type:varchar(16);not null"`
	StartedAt time.Time  `gorm:"not null"`
	EndedAt   *time.Time `gorm:"index"`
}

func (PracticeSession) TableName() string {
	return "practice_sessions"
}

type ConversationMessage struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	PracticeSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role              string    `gorm:"type:varchar(16);not null"`
	Content           string    `gorm:"type:text;not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}

type GrammarError struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	PracticeSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	MessageId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Original          string    `gorm:"type:text;not null"`
	Corrected         string    `gorm:"type:text;not null"`
	Explanation       string    `gorm:"type:text"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (GrammarError) TableName() string {
	return "grammar_errors"
}

type FeedbackReport struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	PracticeSessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	OverallScore      float64        `gorm:"not null"`
	TotalMessages     int            `gorm:"not null"`
	Report            datatypes.JSON `gorm:"not null"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
}

func (FeedbackReport) TableName() string {
	return "feedback_reports"
}

// All lists every archive table for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&PracticeSession{},
		&ConversationMessage{},
		&GrammarError{},
		&FeedbackReport{},
	}
}

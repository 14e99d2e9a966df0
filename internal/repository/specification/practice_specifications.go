package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByPracticeSessionID scopes child rows to one archived conversation.
type ByPracticeSessionID struct {
	PracticeSessionID uuid.UUID
}

func (s ByPracticeSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("practice_session_id = ?", s.PracticeSessionID)
}

// BySessionKey matches the live session id an archive row came from.
type BySessionKey struct {
	SessionID string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// OpenOnly keeps practice sessions that have not been closed yet.
type OpenOnly struct{}

func (OpenOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ended_at IS NULL")
}

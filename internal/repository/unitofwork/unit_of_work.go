package unitofwork

import (
	"context"

	"english-tutor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PracticeSessionRepository() contract.PracticeSessionRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	GrammarErrorRepository() contract.GrammarErrorRepository
	FeedbackReportRepository() contract.FeedbackReportRepository
}

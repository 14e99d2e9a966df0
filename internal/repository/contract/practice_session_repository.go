package contract

import (
	"context"
	"time"

	"english-tutor-be/internal/entity"
	"english-tutor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PracticeSessionRepository interface {
	Create(ctx context.Context, session *entity.PracticeSession) error
	Close(ctx context.Context, id uuid.UUID, endedAt time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PracticeSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PracticeSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

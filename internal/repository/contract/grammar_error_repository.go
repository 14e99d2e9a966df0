package contract

import (
	"context"

	"english-tutor-be/internal/entity"
	"english-tutor-be/internal/repository/specification"
)

type GrammarErrorRepository interface {
	CreateBatch(ctx context.Context, errs []*entity.GrammarError) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GrammarError, error)
}

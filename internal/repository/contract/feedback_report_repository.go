package contract

import (
	"context"

	"english-tutor-be/internal/entity"
	"english-tutor-be/internal/repository/specification"
)

type FeedbackReportRepository interface {
	Create(ctx context.Context, report *entity.FeedbackReport) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeedbackReport, error)
}

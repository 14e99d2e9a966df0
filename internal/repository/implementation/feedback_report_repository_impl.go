package implementation

import (
	"context"

	"english-tutor-be/internal/entity"
	"english-tutor-be/internal/mapper"
	"english-tutor-be/internal/model"
	"english-tutor-be/internal/repository/contract"
	"english-tutor-be/internal/repository/scope"
	"english-tutor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PracticeMapper
}

func NewFeedbackReportRepository(db *gorm.DB) contract.FeedbackReportRepository {
	return &FeedbackReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewPracticeMapper(),
	}
}

func (r *FeedbackReportRepositoryImpl) Create(ctx context.Context, report *entity.FeedbackReport) error {
	if report.Id == uuid.Nil {
		report.Id = uuid.New()
	}
	m := r.mapper.FeedbackToModel(report)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.FeedbackToEntity(m)
	return nil
}

func (r *FeedbackReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeedbackReport, error) {
	var models []*model.FeedbackReport
	query := applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByCreatedDesc), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FeedbackReport, len(models))
	for i, m := range models {
		entities[i] = r.mapper.FeedbackToEntity(m)
	}
	return entities, nil
}

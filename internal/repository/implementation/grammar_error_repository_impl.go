package implementation

import (
	"context"

	"english-tutor-be/internal/entity"
	"english-tutor-be/internal/mapper"
	"english-tutor-be/internal/model"
	"english-tutor-be/internal/repository/contract"
	"english-tutor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GrammarErrorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PracticeMapper
}

func NewGrammarErrorRepository(db *gorm.DB) contract.GrammarErrorRepository {
	return &GrammarErrorRepositoryImpl{
		db:     db,
		mapper: mapper.NewPracticeMapper(),
	}
}

func (r *GrammarErrorRepositoryImpl) CreateBatch(ctx context.Context, errs []*entity.GrammarError) error {
	if len(errs) == 0 {
		return nil
	}
	models := make([]*model.GrammarError, len(errs))
	for i, e := range errs {
		if e.Id == uuid.Nil {
			e.Id = uuid.New()
		}
		models[i] = r.mapper.GrammarErrorToModel(e)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *GrammarErrorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GrammarError, error) {
	var models []*model.GrammarError
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.GrammarError, len(models))
	for i, m := range models {
		entities[i] = r.mapper.GrammarErrorToEntity(m)
	}
	return entities, nil
}

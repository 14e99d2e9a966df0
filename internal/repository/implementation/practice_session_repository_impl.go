package implementation

import (
	"context"
	"errors"
	"time"

	"english-tutor-be/internal/entity"
	"english-tutor-be/internal/mapper"
	"english-tutor-be/internal/model"
	"english-tutor-be/internal/repository/contract"
	"english-tutor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PracticeSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PracticeMapper
}

func NewPracticeSessionRepository(db *gorm.DB) contract.PracticeSessionRepository {
	return &PracticeSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewPracticeMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PracticeSessionRepositoryImpl) Create(ctx context.Context, session *entity.PracticeSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *PracticeSessionRepositoryImpl) Close(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.PracticeSession{}).
		Where("id = ? AND ended_at IS NULL", id).
		Update("ended_at", endedAt).Error
}

func (r *PracticeSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PracticeSession, error) {
	var m model.PracticeSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *PracticeSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PracticeSession, error) {
	var models []*model.PracticeSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PracticeSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionToEntity(m)
	}
	return entities, nil
}

func (r *PracticeSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.PracticeSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package jobrepo

import (
	"context"
	"errors"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.JobRepository = (*GormJobRepository)(nil)

// GormJobRepository implements ports.JobRepository using GORM.
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository binds the repository to db, which may be a transaction.
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// TransitionIfCurrent issues a single UPDATE ... WHERE id AND status AND version.
// Under concurrent writers Postgres re-evaluates the predicate after the row lock
// is released, so only one of them matches.
func (r *GormJobRepository) TransitionIfCurrent(ctx context.Context, aggregate *job.Job, transition job.Transition) error {
	if err := aggregate.ValidateApplied(transition); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	var collectorID any
	if dto.CollectorID != nil {
		collectorID = *dto.CollectorID
	}

	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ? AND status = ? AND version = ?", dto.ID, int(transition.From), transition.FromVersion).
		Updates(map[string]any{
			"status":       dto.Status,
			"collector_id": collectorID,
			"version":      dto.Version,
			"updated_at":   dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, transition.JobID)
	}

	return nil
}

func (r *GormJobRepository) List(ctx context.Context, filter ports.JobFilter) ([]*job.Job, error) {
	query := r.db.WithContext(ctx).Model(&JobDTO{})
	if filter.Status != nil {
		query = query.Where("status = ?", int(*filter.Status))
	}
	if filter.CollectorID != nil {
		query = query.Where("collector_id = ?", filter.CollectorID.Bytes())
	}
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", filter.RequesterID.Bytes())
	}

	var dtos []JobDTO
	if err := query.Order("created_at DESC").Order("id ASC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormJobRepository) CountActiveByCollector(ctx context.Context, collectorID kernel.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("collector_id = ? AND status IN ?", collectorID.Bytes(), []int{int(job.Accepted), int(job.InProgress)}).
		Count(&count).Error
	return count, err
}

func (r *GormJobRepository) CountByStatus(ctx context.Context) (map[job.Status]int64, error) {
	var rows []struct {
		Status int
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[job.Status]int64, len(rows))
	for _, row := range rows {
		counts[job.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *GormJobRepository) missOrConflict(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&JobDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("job", id.String())
	}
	return errs.NewConflictError("job", id.String())
}

package collectorrepo

import (
	"context"
	"errors"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.CollectorRepository = (*GormCollectorRepository)(nil)

// GormCollectorRepository implements ports.CollectorRepository using GORM.
type GormCollectorRepository struct {
	db *gorm.DB
}

func NewGormCollectorRepository(db *gorm.DB) *GormCollectorRepository {
	return &GormCollectorRepository{db: db}
}

func (r *GormCollectorRepository) Add(ctx context.Context, aggregate *collector.Collector) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormCollectorRepository) Get(ctx context.Context, id kernel.UUID) (*collector.Collector, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CollectorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("collector", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateLocation is an unconditional write: the last report wins.
func (r *GormCollectorRepository) UpdateLocation(ctx context.Context, aggregate *collector.Collector) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CollectorDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"location_latitude":  dto.LocationLatitude,
			"location_longitude": dto.LocationLongitude,
			"last_seen_at":       dto.LastSeenAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("collector", aggregate.ID().String())
	}

	return nil
}

func (r *GormCollectorRepository) ListByOrganization(
	ctx context.Context,
	organizationID *kernel.UUID,
) ([]*collector.Collector, error) {
	query := r.db.WithContext(ctx).Model(&CollectorDTO{})
	if organizationID != nil {
		query = query.Where("organization_id = ?", organizationID.Bytes())
	}

	var dtos []CollectorDTO
	if err := query.Order("id ASC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	collectors := make([]*collector.Collector, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		collectors = append(collectors, c)
	}

	return collectors, nil
}

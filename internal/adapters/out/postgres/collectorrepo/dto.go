// Package collectorrepo persists collectors and their last reported position with GORM.
package collectorrepo

import (
	"time"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CollectorDTO is the collectors row. The location columns and last_seen_at are
// NULL until the first report.
type CollectorDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrganizationID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	FullName          string     `gorm:"not null"`
	Phone             string     `gorm:"size:32"`
	LocationLatitude  *float64   `gorm:"type:double precision"`
	LocationLongitude *float64   `gorm:"type:double precision"`
	LastSeenAt        *time.Time `gorm:"index"`
}

func (CollectorDTO) TableName() string {
	return "collectors"
}

func fromDomain(aggregate *collector.Collector) CollectorDTO {
	dto := CollectorDTO{
		ID:             aggregate.ID().Bytes(),
		OrganizationID: aggregate.OrganizationID().Bytes(),
		FullName:       aggregate.FullName(),
		Phone:          aggregate.Phone(),
		LastSeenAt:     aggregate.LastSeenAt(),
	}

	if loc := aggregate.Location(); loc != nil {
		lat, lng := loc.Latitude(), loc.Longitude()
		dto.LocationLatitude = &lat
		dto.LocationLongitude = &lng
	}

	return dto
}

func toDomain(dto CollectorDTO) (*collector.Collector, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	organizationID, err := kernel.UUIDFromBytes(dto.OrganizationID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.LocationLatitude != nil && dto.LocationLongitude != nil {
		loc, locErr := kernel.NewLocation(*dto.LocationLatitude, *dto.LocationLongitude)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	var lastSeenAt *time.Time
	if dto.LastSeenAt != nil {
		seen := dto.LastSeenAt.UTC()
		lastSeenAt = &seen
	}

	return collector.RestoreCollector(id, organizationID, dto.FullName, dto.Phone, location, lastSeenAt)
}

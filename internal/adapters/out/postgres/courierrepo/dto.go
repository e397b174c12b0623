// Package courierrepo persists the courier directory: position, availability
// and the ETA calibration learned from completed routes.
package courierrepo

import (
	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
type CourierDTO struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name             string      `gorm:"type:varchar(255);not null"`
	Location         LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	Available        bool        `gorm:"not null;default:true"`
	BiasFactor       float64     `gorm:"not null;default:1"`
	ReliabilityScore float64     `gorm:"not null;default:80"`
	CompletedCount   int         `gorm:"not null;default:0"`
}

// TableName overrides GORM's default "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO stores the courier's last reported position.
type LocationDTO struct {
	Lat float64 `gorm:"not null"`
	Lng float64 `gorm:"not null"`
}

func fromDomain(c *courier.Courier) CourierDTO {
	cal := c.Calibration()
	return CourierDTO{
		ID:   c.ID().Bytes(),
		Name: c.Name(),
		Location: LocationDTO{
			Lat: c.Location().Lat(),
			Lng: c.Location().Lng(),
		},
		Available:        c.IsAvailable(),
		BiasFactor:       cal.BiasFactor(),
		ReliabilityScore: cal.ReliabilityScore(),
		CompletedCount:   cal.CompletedCount(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	loc, err := kernel.NewLocation(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return nil, err
	}

	cal, err := courier.NewCalibration(dto.BiasFactor, dto.ReliabilityScore, dto.CompletedCount)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, loc, dto.Available, cal)
}

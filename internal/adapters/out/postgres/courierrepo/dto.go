// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The row mirrors the in-process directory state so couriers survive restarts.
type CourierDTO struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name         string      `gorm:"type:varchar(255);not null"`
	Capacity     int         `gorm:"type:int;not null"`
	ActiveOrders int         `gorm:"type:int;not null"`
	OnDuty       bool        `gorm:"not null"`
	Location     LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// LocationDTO represents the embedded location coordinates within the courier table.
// Stores the courier's last reported position on the delivery grid.
type LocationDTO struct {
	X kernel.Coordinate `gorm:"type:smallint"`
	Y kernel.Coordinate `gorm:"type:smallint"`
}

// fromDomain converts a courier aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:           aggregate.ID().Bytes(),
		Name:         aggregate.Name(),
		Capacity:     aggregate.Capacity(),
		ActiveOrders: aggregate.ActiveOrders(),
		OnDuty:       aggregate.OnDuty(),
		Location: LocationDTO{
			X: aggregate.Location().X(),
			Y: aggregate.Location().Y(),
		},
	}
}

// toDomain converts a database DTO to a courier aggregate using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	loc, err := kernel.NewLocation(dto.Location.X, dto.Location.Y)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, dto.Capacity, dto.ActiveOrders, dto.OnDuty, loc)
}

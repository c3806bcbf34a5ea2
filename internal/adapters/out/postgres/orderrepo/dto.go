// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"sort"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Monetary amounts are stored in cents, locations as embedded coordinate pairs.
type OrderDTO struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	RestaurantID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Pickup       LocationDTO  `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery     LocationDTO  `gorm:"embedded;embeddedPrefix:delivery_"`
	CouponCode   string       `gorm:"type:varchar(64)"`
	Subtotal     int64        `gorm:"type:bigint;not null"`
	Discount     int64        `gorm:"type:bigint;not null"`
	Total        int64        `gorm:"type:bigint;not null"`
	Status       string       `gorm:"type:varchar(32);not null;index"`
	CourierID    *uuid.UUID   `gorm:"type:uuid;index"`
	Version      int64        `gorm:"type:bigint;not null"`
	Items        []ItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History      []HistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders" instead of "order_dtos".
func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO represents an embedded coordinate pair within the order table.
// Used twice per order, once for pickup and once for delivery.
type LocationDTO struct {
	X kernel.Coordinate `gorm:"type:smallint"`
	Y kernel.Coordinate `gorm:"type:smallint"`
}

// ItemDTO represents one order line with its price snapshot.
// Lines are immutable once the order is created.
type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	DishID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int       `gorm:"type:int;not null"`
	UnitPrice int64     `gorm:"type:bigint;not null"`
}

// TableName specifies the database table name for order line entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO represents one row of an order's append-only transition history.
// Rows are ordered by Seq within an order and never rewritten.
type HistoryDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"type:int;primaryKey"`
	Status     string    `gorm:"type:varchar(32);not null"`
	OccurredAt time.Time `gorm:"not null"`
	Note       string    `gorm:"type:text"`
}

// TableName specifies the database table name for order history entities.
func (HistoryDTO) TableName() string {
	return "order_history"
}

// fromDomain converts an order aggregate to its database representation,
// including order lines and the full transition history.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:   orderID,
			DishID:    item.DishID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Cents(),
		})
	}

	history := make([]HistoryDTO, 0, len(aggregate.History()))
	for seq, record := range aggregate.History() {
		history = append(history, HistoryDTO{
			OrderID:    orderID,
			Seq:        seq,
			Status:     record.Status.String(),
			OccurredAt: record.At,
			Note:       record.Note,
		})
	}

	var courierID *uuid.UUID
	if aggregate.Courier() != nil {
		raw := aggregate.Courier().Bytes()
		courierID = &raw
	}

	return OrderDTO{
		ID:           orderID,
		CustomerID:   aggregate.CustomerID().Bytes(),
		RestaurantID: aggregate.RestaurantID().Bytes(),
		Pickup: LocationDTO{
			X: aggregate.PickupLocation().X(),
			Y: aggregate.PickupLocation().Y(),
		},
		Delivery: LocationDTO{
			X: aggregate.DeliveryLocation().X(),
			Y: aggregate.DeliveryLocation().Y(),
		},
		CouponCode: aggregate.CouponCode(),
		Subtotal:   aggregate.Subtotal().Cents(),
		Discount:   aggregate.Discount().Cents(),
		Total:      aggregate.Total().Cents(),
		Status:     aggregate.Status().String(),
		CourierID:  courierID,
		Version:    aggregate.Version(),
		Items:      items,
		History:    history,
	}
}

// toDomain converts a database DTO to an order aggregate.
// Reconstructs the complete aggregate including lines and history using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewLocation(dto.Pickup.X, dto.Pickup.Y)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewLocation(dto.Delivery.X, dto.Delivery.Y)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := itemToDomain(itemDto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history, err := historyToDomain(dto.History)
	if err != nil {
		return nil, err
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return nil, err
	}
	discount, err := kernel.NewMoney(dto.Discount)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cid, cidErr := kernel.UUIDFromBytes(dto.CourierID[:])
		if cidErr != nil {
			return nil, cidErr
		}
		courierID = &cid
	}

	return order.RestoreOrder(
		id, customerID, restaurantID,
		pickup, delivery,
		items, dto.CouponCode,
		subtotal, discount, total,
		status, courierID, dto.Version, history,
	)
}

// itemToDomain converts an order line DTO to its domain value object.
func itemToDomain(dto ItemDTO) (order.Item, error) {
	dishID, err := kernel.UUIDFromBytes(dto.DishID[:])
	if err != nil {
		return order.Item{}, err
	}

	unitPrice, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(dishID, dto.Quantity, unitPrice)
}

// historyToDomain converts history rows to transition records in Seq order.
func historyToDomain(dtos []HistoryDTO) ([]order.TransitionRecord, error) {
	sorted := append([]HistoryDTO(nil), dtos...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	records := make([]order.TransitionRecord, 0, len(sorted))
	for _, dto := range sorted {
		status, err := order.StatusFromString(dto.Status)
		if err != nil {
			return nil, err
		}
		records = append(records, order.TransitionRecord{
			Status: status,
			At:     dto.OccurredAt,
			Note:   dto.Note,
		})
	}

	return records, nil
}

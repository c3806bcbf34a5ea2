package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// DishInfo is the catalog's view of a dish at order-creation time.
// The price is snapshotted into the order; later catalog changes never
// affect existing orders.
type DishInfo struct {
	ID     kernel.UUID
	Name   string
	Price  kernel.Money
	Active bool
}

// RestaurantInfo is the catalog's view of a restaurant.
type RestaurantInfo struct {
	ID       kernel.UUID
	Name     string
	Location kernel.Location
	Open     bool
}

// CatalogClient resolves restaurants and dishes from the catalog service.
// Implementations translate missing objects into errs.ErrObjectNotFound.
type CatalogClient interface {
	// GetRestaurant fetches restaurant details, including the pickup location.
	GetRestaurant(ctx context.Context, id kernel.UUID) (RestaurantInfo, error)

	// GetDishes fetches the listed dishes of a restaurant. Every requested
	// ID must resolve or the call fails with errs.ErrObjectNotFound.
	GetDishes(ctx context.Context, restaurantID kernel.UUID, dishIDs []kernel.UUID) ([]DishInfo, error)
}

// Package catalog is an HTTP client for the restaurant catalog service.
// The engine treats the catalog as the source of truth for dish prices and
// restaurant state; responses are snapshotted into orders at creation time.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// Client implements ports.CatalogClient over the catalog's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type restaurantDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Open bool   `json:"open"`
	Location struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"location"`
}

type dishDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Active bool   `json:"active"`
}

// GetRestaurant fetches restaurant details, including the pickup location.
func (c *Client) GetRestaurant(ctx context.Context, id kernel.UUID) (ports.RestaurantInfo, error) {
	if err := id.Validate(); err != nil {
		return ports.RestaurantInfo{}, err
	}

	var dto restaurantDTO
	endpoint := fmt.Sprintf("%s/api/v1/restaurants/%s", c.baseURL, id.String())
	if err := c.getJSON(ctx, endpoint, "restaurant", id.String(), &dto); err != nil {
		return ports.RestaurantInfo{}, err
	}

	restaurantID, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return ports.RestaurantInfo{}, fmt.Errorf("catalog returned invalid restaurant id: %w", err)
	}

	location, err := kernel.NewLocation(kernel.Coordinate(dto.Location.X), kernel.Coordinate(dto.Location.Y))
	if err != nil {
		return ports.RestaurantInfo{}, fmt.Errorf("catalog returned invalid restaurant location: %w", err)
	}

	return ports.RestaurantInfo{
		ID:       restaurantID,
		Name:     dto.Name,
		Location: location,
		Open:     dto.Open,
	}, nil
}

// GetDishes fetches the listed dishes of a restaurant. Every requested ID
// must resolve or the call fails with errs.ErrObjectNotFound.
func (c *Client) GetDishes(
	ctx context.Context, restaurantID kernel.UUID, dishIDs []kernel.UUID,
) ([]ports.DishInfo, error) {
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}
	if len(dishIDs) == 0 {
		return nil, errs.NewValueIsRequiredError("dishIDs")
	}

	ids := make([]string, len(dishIDs))
	for i, dishID := range dishIDs {
		ids[i] = dishID.String()
	}

	endpoint := fmt.Sprintf("%s/api/v1/restaurants/%s/dishes?ids=%s",
		c.baseURL, restaurantID.String(), url.QueryEscape(strings.Join(ids, ",")))

	var dtos []dishDTO
	if err := c.getJSON(ctx, endpoint, "restaurant", restaurantID.String(), &dtos); err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]ports.DishInfo, len(dtos))
	for _, dto := range dtos {
		dishID, err := kernel.UUIDFromString(dto.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog returned invalid dish id: %w", err)
		}
		price, err := kernel.NewMoney(dto.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog returned invalid dish price: %w", err)
		}
		byID[dishID] = ports.DishInfo{ID: dishID, Name: dto.Name, Price: price, Active: dto.Active}
	}

	dishes := make([]ports.DishInfo, 0, len(dishIDs))
	for _, dishID := range dishIDs {
		dish, ok := byID[dishID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("dish", dishID.String())
		}
		dishes = append(dishes, dish)
	}

	return dishes, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, kind, id string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return errs.NewObjectNotFoundError(kind, id)
	default:
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}

	return nil
}

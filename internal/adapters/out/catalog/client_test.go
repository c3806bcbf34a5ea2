package catalog_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/adapters/out/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRestaurant_ReturnsRestaurantInfo(t *testing.T) {
	restaurantID := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/restaurants/"+restaurantID.String(), r.URL.Path)
		fmt.Fprintf(w, `{"id":%q,"name":"Pizza Corner","open":true,"location":{"x":3,"y":4}}`,
			restaurantID.String())
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)

	restaurant, err := client.GetRestaurant(context.Background(), restaurantID)

	require.NoError(t, err)
	assert.Equal(t, restaurantID, restaurant.ID)
	assert.Equal(t, "Pizza Corner", restaurant.Name)
	assert.True(t, restaurant.Open)
	assert.Equal(t, kernel.Coordinate(3), restaurant.Location.X())
	assert.Equal(t, kernel.Coordinate(4), restaurant.Location.Y())
}

func TestGetRestaurant_NotFound_ReturnsNotFoundError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)

	_, err := client.GetRestaurant(context.Background(), kernel.NewUUID())

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetDishes_ReturnsDishesInRequestOrder(t *testing.T) {
	restaurantID := kernel.NewUUID()
	dish1 := kernel.NewUUID()
	dish2 := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("ids"), dish1.String())
		// Respond in reverse order; the client must reorder to match the request
		fmt.Fprintf(w, `[
			{"id":%q,"name":"Garlic Bread","price":500,"active":true},
			{"id":%q,"name":"Margherita","price":1200,"active":true}
		]`, dish2.String(), dish1.String())
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)

	dishes, err := client.GetDishes(context.Background(), restaurantID, []kernel.UUID{dish1, dish2})

	require.NoError(t, err)
	require.Len(t, dishes, 2)
	assert.Equal(t, dish1, dishes[0].ID)
	assert.Equal(t, "Margherita", dishes[0].Name)
	assert.Equal(t, kernel.MustMoney(1200), dishes[0].Price)
	assert.Equal(t, dish2, dishes[1].ID)
}

func TestGetDishes_MissingDish_ReturnsNotFoundError(t *testing.T) {
	restaurantID := kernel.NewUUID()
	known := kernel.NewUUID()
	missing := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `[{"id":%q,"name":"Margherita","price":1200,"active":true}]`, known.String())
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)

	_, err := client.GetDishes(context.Background(), restaurantID, []kernel.UUID{known, missing})

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetDishes_NoIDs_ReturnsValidationError(t *testing.T) {
	client := catalog.NewClient("http://catalog.local")

	_, err := client.GetDishes(context.Background(), kernel.NewUUID(), nil)

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetRestaurant_ServerError_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL)

	_, err := client.GetRestaurant(context.Background(), kernel.NewUUID())

	assert.Error(t, err)
}

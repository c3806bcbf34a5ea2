package http

// Request and response bodies for the public API. Monetary amounts are
// integer cents on the wire; identifiers are UUID strings.

// Error is the uniform error body for all failure responses.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Location is a coordinate pair on the delivery grid.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// OrderLineRequest is one requested dish in an order placement request.
type OrderLineRequest struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest places a new order. The customer is whoever the bearer
// token authenticates; it is never taken from the body.
type CreateOrderRequest struct {
	RestaurantID     string             `json:"restaurant_id"`
	DeliveryLocation Location           `json:"delivery_location"`
	Lines            []OrderLineRequest `json:"lines"`
	CouponCode       string             `json:"coupon_code,omitempty"`
}

// CreateOrderResponse confirms placement with the priced amounts.
type CreateOrderResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Subtotal int64  `json:"subtotal"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
}

// TransitionOrderRequest moves an order to a new status.
type TransitionOrderRequest struct {
	Target string `json:"target"`
	Note   string `json:"note,omitempty"`
}

// CancelOrderRequest cancels an order with an optional reason.
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OrderLineResponse is one line of an order snapshot.
type OrderLineResponse struct {
	DishID    string `json:"dish_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderHistoryResponse is one transition of an order's history.
type OrderHistoryResponse struct {
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
	Note       string `json:"note,omitempty"`
}

// OrderResponse is the full order snapshot with lines and history.
type OrderResponse struct {
	ID           string                 `json:"id"`
	CustomerID   string                 `json:"customer_id"`
	RestaurantID string                 `json:"restaurant_id"`
	Status       string                 `json:"status"`
	CourierID    *string                `json:"courier_id,omitempty"`
	CouponCode   string                 `json:"coupon_code,omitempty"`
	Subtotal     int64                  `json:"subtotal"`
	Discount     int64                  `json:"discount"`
	Total        int64                  `json:"total"`
	Lines        []OrderLineResponse    `json:"lines"`
	History      []OrderHistoryResponse `json:"history"`
}

// CompletedOrderResponse is one delivered order in the completed-orders export.
type CompletedOrderResponse struct {
	ID        string  `json:"id"`
	CourierID *string `json:"courier_id,omitempty"`
	Total     int64   `json:"total"`
}

// RegisterCourierRequest enrolls a new courier.
type RegisterCourierRequest struct {
	Name     string   `json:"name"`
	Capacity int      `json:"capacity"`
	Location Location `json:"location"`
}

// RegisterCourierResponse confirms enrollment with the assigned id.
type RegisterCourierResponse struct {
	ID string `json:"id"`
}

// SetCourierAvailabilityRequest flips a courier's duty status.
type SetCourierAvailabilityRequest struct {
	OnDuty bool `json:"on_duty"`
}

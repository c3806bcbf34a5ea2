// Package http exposes the order lifecycle engine over a REST API.
// Handlers translate between wire contracts and application commands;
// every domain decision stays behind the command and query handlers.
package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/coupon"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers for the order lifecycle API.
// It coordinates between HTTP requests and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	registerCourierHandler commands.RegisterCourierCommandHandler
	availabilityHandler    commands.SetCourierAvailabilityCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	completedOrdersHandler queries.GetCompletedOrdersQueryHandler

	identity ports.IdentityClient
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	registerCourierHandler commands.RegisterCourierCommandHandler,
	availabilityHandler commands.SetCourierAvailabilityCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	completedOrdersHandler queries.GetCompletedOrdersQueryHandler,
	identity ports.IdentityClient,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionOrderHandler: transitionOrderHandler,
		cancelOrderHandler:     cancelOrderHandler,
		registerCourierHandler: registerCourierHandler,
		availabilityHandler:    availabilityHandler,
		getOrderHandler:        getOrderHandler,
		completedOrdersHandler: completedOrdersHandler,
		identity:               identity,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/completed", s.GetCompletedOrders)
	api.GET("/orders/:orderID", s.GetOrder)
	api.POST("/orders/:orderID/transitions", s.TransitionOrder)
	api.POST("/orders/:orderID/cancel", s.CancelOrder)

	api.POST("/couriers", s.RegisterCourier)
	api.PUT("/couriers/:courierID/availability", s.SetCourierAvailability)

	e.GET("/health", s.Health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - places a new order for the
// authenticated customer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := s.authenticate(ctx)
	if err != nil {
		return err
	}
	if actor.Role != order.RoleCustomer {
		return errorResponse(ctx, http.StatusForbidden, "only customers can place orders")
	}

	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	restaurantID, err := kernel.UUIDFromString(request.RestaurantID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "restaurant_id is not a valid id")
	}

	deliveryLocation, err := locationFromRequest(request.DeliveryLocation)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "delivery_location is off the grid")
	}

	lines := make([]commands.OrderLine, 0, len(request.Lines))
	for _, line := range request.Lines {
		dishID, dishErr := kernel.UUIDFromString(line.DishID)
		if dishErr != nil {
			return errorResponse(ctx, http.StatusBadRequest, "dish_id is not a valid id")
		}
		lines = append(lines, commands.OrderLine{DishID: dishID, Quantity: line.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), actor.UserID, restaurantID,
		deliveryLocation, lines, request.CouponCode,
	)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	placed, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{
		ID:       placed.ID().String(),
		Status:   placed.Status().String(),
		Subtotal: placed.Subtotal().Cents(),
		Discount: placed.Discount().Cents(),
		Total:    placed.Total().Cents(),
	})
}

// GetOrder handles GET /api/v1/orders/:orderID - returns the order snapshot
// with lines and history.
func (s *Server) GetOrder(ctx echo.Context) error {
	if _, err := s.authenticate(ctx); err != nil {
		return err
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "order id is not a valid id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	snapshot, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFrom(snapshot))
}

// TransitionOrder handles POST /api/v1/orders/:orderID/transitions - moves
// the order to the requested status on behalf of the authenticated actor.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	actor, err := s.authenticate(ctx)
	if err != nil {
		return err
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "order id is not a valid id")
	}

	var request TransitionOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	target, err := order.StatusFromString(request.Target)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "target is not a valid status")
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actor, request.Note)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderID/cancel - cancels the
// order on behalf of the authenticated actor.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, err := s.authenticate(ctx)
	if err != nil {
		return err
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "order id is not a valid id")
	}

	var request CancelOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor, request.Reason)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetCompletedOrders handles GET /api/v1/orders/completed - exports
// delivered orders for downstream consumers.
func (s *Server) GetCompletedOrders(ctx echo.Context) error {
	actor, err := s.authenticate(ctx)
	if err != nil {
		return err
	}
	if actor.Role != order.RoleAdmin && actor.Role != order.RoleDispatch {
		return errorResponse(ctx, http.StatusForbidden, "completed order export requires an operations role")
	}

	completed, err := s.completedOrdersHandler.Handle(
		ctx.Request().Context(), queries.NewGetCompletedOrdersQuery())
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]CompletedOrderResponse, len(completed))
	for i, row := range completed {
		response[i] = CompletedOrderResponse{
			ID:        row.ID.String(),
			CourierID: uuidString(row.CourierID),
			Total:     row.Total.Cents(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterCourier handles POST /api/v1/couriers - enrolls a new courier.
func (s *Server) RegisterCourier(ctx echo.Context) error {
	actor, err := s.authenticate(ctx)
	if err != nil {
		return err
	}
	if actor.Role != order.RoleAdmin {
		return errorResponse(ctx, http.StatusForbidden, "courier registration requires the admin role")
	}

	var request RegisterCourierRequest
	if err = ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	location, err := locationFromRequest(request.Location)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "location is off the grid")
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewRegisterCourierCommand(courierID, request.Name, request.Capacity, location)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.registerCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, RegisterCourierResponse{ID: courierID.String()})
}

// SetCourierAvailability handles PUT /api/v1/couriers/:courierID/availability.
// Couriers may change their own duty status; admins may change anyone's.
func (s *Server) SetCourierAvailability(ctx echo.Context) error {
	actor, err := s.authenticate(ctx)
	if err != nil {
		return err
	}

	courierID, err := kernel.UUIDFromString(ctx.Param("courierID"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "courier id is not a valid id")
	}

	switch actor.Role {
	case order.RoleAdmin:
	case order.RoleCourier:
		if !actor.UserID.IsEqual(courierID) {
			return errorResponse(ctx, http.StatusForbidden, "couriers can only change their own availability")
		}
	default:
		return errorResponse(ctx, http.StatusForbidden, "availability changes require a courier or admin role")
	}

	var request SetCourierAvailabilityRequest
	if err = ctx.Bind(&request); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierID, request.OnDuty)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.availabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// authenticate resolves the bearer token into an actor. The response is
// already written on failure.
func (s *Server) authenticate(ctx echo.Context) (ports.Actor, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return ports.Actor{}, errorResponse(ctx, http.StatusUnauthorized, "missing bearer token")
	}

	actor, err := s.identity.Resolve(ctx.Request().Context(), token)
	if err != nil {
		return ports.Actor{}, errorResponse(ctx, http.StatusUnauthorized, "invalid bearer token")
	}

	return actor, nil
}

// domainError maps application and domain errors onto HTTP statuses.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, commands.ErrActorForbidden),
		errors.Is(err, order.ErrRoleNotPermitted):
		return errorResponse(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrOrderClosed),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return errorResponse(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, coupon.ErrExpired),
		errors.Is(err, coupon.ErrExhausted),
		errors.Is(err, coupon.ErrBelowMinimum),
		errors.Is(err, commands.ErrRestaurantClosed),
		errors.Is(err, commands.ErrDishUnavailable):
		return errorResponse(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrNoCourierAvailable):
		return errorResponse(ctx, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorResponse(ctx, http.StatusInternalServerError, "internal error")
	}
}

func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// locationFromRequest validates grid bounds before the int8 conversion so
// out-of-range values cannot wrap into valid coordinates.
func locationFromRequest(loc Location) (kernel.Location, error) {
	if loc.X < int(kernel.LocationMinX) || loc.X > int(kernel.LocationMaxX) ||
		loc.Y < int(kernel.LocationMinY) || loc.Y > int(kernel.LocationMaxY) {
		return kernel.Location{}, errs.NewValueIsOutOfRangeError("location", loc,
			int(kernel.LocationMinX), int(kernel.LocationMaxX))
	}
	return kernel.NewLocation(kernel.Coordinate(loc.X), kernel.Coordinate(loc.Y))
}

func orderResponseFrom(snapshot queries.GetOrderQueryResponse) OrderResponse {
	lines := make([]OrderLineResponse, len(snapshot.Lines))
	for i, line := range snapshot.Lines {
		lines[i] = OrderLineResponse{
			DishID:    line.DishID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.Cents(),
		}
	}

	history := make([]OrderHistoryResponse, len(snapshot.History))
	for i, record := range snapshot.History {
		history[i] = OrderHistoryResponse{
			Status:     record.Status,
			OccurredAt: record.At.UTC().Format(time.RFC3339),
			Note:       record.Note,
		}
	}

	return OrderResponse{
		ID:           snapshot.ID.String(),
		CustomerID:   snapshot.CustomerID.String(),
		RestaurantID: snapshot.RestaurantID.String(),
		Status:       snapshot.Status,
		CourierID:    uuidString(snapshot.CourierID),
		CouponCode:   snapshot.CouponCode,
		Subtotal:     snapshot.Subtotal.Cents(),
		Discount:     snapshot.Discount.Cents(),
		Total:        snapshot.Total.Cents(),
		Lines:        lines,
		History:      history,
	}
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

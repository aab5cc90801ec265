// Package http provides the inbound HTTP adapter: an echo server mapping
// the REST surface onto command and query handlers, plus the JWT identity
// middleware.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	advanceOrderHandler    commands.AdvanceOrderCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	acceptOrderHandler     commands.AcceptOrderCommandHandler
	rejectOrderHandler     commands.RejectOrderCommandHandler
	completeHandler        commands.CompleteDeliveryCommandHandler
	updateLocationHandler  commands.UpdateLocationCommandHandler
	registerCourierHandler commands.RegisterCourierCommandHandler
	verifyCourierHandler   commands.VerifyCourierCommandHandler
	setAvailabilityHandler commands.SetCourierAvailabilityCommandHandler

	// Query handlers
	nearbyOrdersHandler queries.NearbyOrdersQueryHandler
	trackOrderHandler   queries.TrackOrderQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	rejectOrderHandler commands.RejectOrderCommandHandler,
	completeHandler commands.CompleteDeliveryCommandHandler,
	updateLocationHandler commands.UpdateLocationCommandHandler,
	registerCourierHandler commands.RegisterCourierCommandHandler,
	verifyCourierHandler commands.VerifyCourierCommandHandler,
	setAvailabilityHandler commands.SetCourierAvailabilityCommandHandler,
	nearbyOrdersHandler queries.NearbyOrdersQueryHandler,
	trackOrderHandler queries.TrackOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		advanceOrderHandler:    advanceOrderHandler,
		cancelOrderHandler:     cancelOrderHandler,
		acceptOrderHandler:     acceptOrderHandler,
		rejectOrderHandler:     rejectOrderHandler,
		completeHandler:        completeHandler,
		updateLocationHandler:  updateLocationHandler,
		registerCourierHandler: registerCourierHandler,
		verifyCourierHandler:   verifyCourierHandler,
		setAvailabilityHandler: setAvailabilityHandler,
		nearbyOrdersHandler:    nearbyOrdersHandler,
		trackOrderHandler:      trackOrderHandler,
	}
}

// RegisterRoutes mounts the REST surface. Everything under /api/v1
// requires a valid bearer token; /health does not.
func (s *Server) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1", BearerAuth(jwtSecret))

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/advance", s.AdvanceOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/:id/tracking", s.TrackOrder)

	api.POST("/couriers", s.RegisterCourier)
	api.POST("/couriers/:id/verify", s.VerifyCourier)
	api.POST("/couriers/:id/availability", s.SetCourierAvailability)
	api.GET("/couriers/:id/nearby-orders", s.NearbyOrders)
	api.POST("/couriers/:id/accept", s.AcceptOrder)
	api.POST("/couriers/:id/reject", s.RejectOrder)
	api.POST("/couriers/:id/complete", s.CompleteDelivery)
	api.POST("/couriers/:id/location", s.UpdateLocation)
}

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GeoPointBody carries a coordinate pair in request and response bodies.
type GeoPointBody struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - places a new order owned by the caller.
func (s *Server) CreateOrder(ctx echo.Context) error {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return unauthenticated(ctx)
	}

	var body struct {
		Pickup   GeoPointBody `json:"pickup"`
		Delivery GeoPointBody `json:"delivery"`
		Items    []struct {
			ProductID      string `json:"product_id"`
			Quantity       int    `json:"quantity"`
			UnitPriceCents int64  `json:"unit_price_cents"`
		} `json:"items"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	pickup, err := kernel.NewGeoPoint(body.Pickup.Longitude, body.Pickup.Latitude)
	if err != nil {
		return writeError(ctx, err)
	}
	delivery, err := kernel.NewGeoPoint(body.Delivery.Longitude, body.Delivery.Latitude)
	if err != nil {
		return writeError(ctx, err)
	}

	items := make([]commands.ItemInput, 0, len(body.Items))
	for _, line := range body.Items {
		productID, idErr := kernel.UUIDFromString(line.ProductID)
		if idErr != nil {
			return writeError(ctx, idErr)
		}
		items = append(items, commands.ItemInput{
			ProductID:      productID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, identity.UserID, items, pickup, delivery)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"order_id": orderID.String()})
}

// AdvanceOrder handles POST /api/v1/orders/:id/advance - operator moves an
// order to confirmed or preparing.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return unauthenticated(ctx)
	}
	if !identity.IsOperator() {
		return forbidden(ctx, "operator role required")
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}

	var body struct {
		Target string `json:"target"`
		Note   string `json:"note"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	target, err := order.StatusFromString(body.Target)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, target, body.Note)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - owner or operator
// cancels a non-terminal order.
func (s *Server) CancelOrder(ctx echo.Context) error {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return unauthenticated(ctx)
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}

	var body struct {
		Note string `json:"note"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, identity.UserID, identity.IsOperator(), body.Note)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// TrackOrder handles GET /api/v1/orders/:id/tracking.
func (s *Server) TrackOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewTrackOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.trackOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	type historyEntry struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Note      string `json:"note,omitempty"`
	}

	history := make([]historyEntry, 0, len(view.History))
	for _, entry := range view.History {
		history = append(history, historyEntry{
			Status:    entry.Status,
			Timestamp: entry.Timestamp.Format(timeFormat),
			Note:      entry.Note,
		})
	}

	response := map[string]any{
		"order_id": view.ID.String(),
		"status":   view.Status,
		"history":  history,
	}
	if view.EstimatedDeliveryTime != nil {
		response["estimated_delivery_time"] = view.EstimatedDeliveryTime.Format(timeFormat)
	}
	if view.ActualDeliveryTime != nil {
		response["actual_delivery_time"] = view.ActualDeliveryTime.Format(timeFormat)
	}
	if view.Courier != nil {
		response["courier"] = map[string]any{
			"id":             view.Courier.ID.String(),
			"rating_average": view.Courier.RatingAverage,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterCourier handles POST /api/v1/couriers - registers the caller as
// a courier. The courier starts unverified and unavailable.
func (s *Server) RegisterCourier(ctx echo.Context) error {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return unauthenticated(ctx)
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewRegisterCourierCommand(courierID, identity.UserID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.registerCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"courier_id": courierID.String()})
}

// VerifyCourier handles POST /api/v1/couriers/:id/verify - operator marks
// a courier as verified.
func (s *Server) VerifyCourier(ctx echo.Context) error {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return unauthenticated(ctx)
	}
	if !identity.IsOperator() {
		return forbidden(ctx, "operator role required")
	}

	courierID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewVerifyCourierCommand(courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.verifyCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetCourierAvailability handles POST /api/v1/couriers/:id/availability.
func (s *Server) SetCourierAvailability(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}

	var body struct {
		Available bool `json:"available"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierID, body.Available)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.setAvailabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// NearbyOrders handles GET /api/v1/couriers/:id/nearby-orders - claimable
// orders nearest-first, then the courier's own in-flight deliveries.
func (s *Server) NearbyOrders(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewNearbyOrdersQuery(courierID)
	if err != nil {
		return writeError(ctx, err)
	}

	nearby, err := s.nearbyOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	type nearbyOrder struct {
		OrderID               string       `json:"order_id"`
		Status                string       `json:"status"`
		Pickup                GeoPointBody `json:"pickup"`
		Delivery              GeoPointBody `json:"delivery"`
		DistanceMeters        float64      `json:"distance_meters"`
		Mine                  bool         `json:"mine"`
		EstimatedDeliveryTime *string      `json:"estimated_delivery_time,omitempty"`
	}
	type nearbyOrdersResponse struct {
		Orders []nearbyOrder `json:"orders"`
		Count  int           `json:"count"`
	}

	orders := make([]nearbyOrder, 0, len(nearby))
	for _, item := range nearby {
		entry := nearbyOrder{
			OrderID: item.ID.String(),
			Status:  item.Status,
			Pickup: GeoPointBody{
				Longitude: item.PickupPoint.Longitude(),
				Latitude:  item.PickupPoint.Latitude(),
			},
			Delivery: GeoPointBody{
				Longitude: item.DeliveryPoint.Longitude(),
				Latitude:  item.DeliveryPoint.Latitude(),
			},
			DistanceMeters: item.DistanceMeters,
			Mine:           item.Mine,
		}
		if item.EstimatedDeliveryTime != nil {
			formatted := item.EstimatedDeliveryTime.Format(timeFormat)
			entry.EstimatedDeliveryTime = &formatted
		}
		orders = append(orders, entry)
	}

	return ctx.JSON(http.StatusOK, nearbyOrdersResponse{Orders: orders, Count: len(orders)})
}

// AcceptOrder handles POST /api/v1/couriers/:id/accept - claims an order
// for the courier. A lost claim race returns 409.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	courierID, orderID, err := courierOrderParams(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAcceptOrderCommand(courierID, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectOrder handles POST /api/v1/couriers/:id/reject - hides an order
// from the courier's future nearby queries. Idempotent.
func (s *Server) RejectOrder(ctx echo.Context) error {
	courierID, orderID, err := courierOrderParams(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRejectOrderCommand(courierID, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.rejectOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteDelivery handles POST /api/v1/couriers/:id/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	courierID, orderID, err := courierOrderParams(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCompleteDeliveryCommand(courierID, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.completeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateLocation handles POST /api/v1/couriers/:id/location - reports the
// courier's position and fans it out to watchers of their active orders.
func (s *Server) UpdateLocation(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}

	var body GeoPointBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	location, err := kernel.NewGeoPoint(body.Longitude, body.Latitude)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateLocationCommand(courierID, location)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.updateLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// courierOrderParams binds the common courier-acts-on-order request shape:
// the courier in the path, the order in the body.
func courierOrderParams(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	courierID, err := pathUUID(ctx, "id")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	var body struct {
		OrderID string `json:"order_id"`
	}
	if err := ctx.Bind(&body); err != nil {
		return kernel.UUID{}, kernel.UUID{}, errs.NewValueIsInvalidError("body")
	}

	orderID, err := kernel.UUIDFromString(body.OrderID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	return courierID, orderID, nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: message})
}

func forbidden(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusForbidden, ErrorResponse{Code: http.StatusForbidden, Message: message})
}

func unauthenticated(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: "invalid or missing credentials",
	})
}

// writeError maps domain errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrNotOrderOwner),
		errors.Is(err, order.ErrOrderNotAssignedToCourier),
		errors.Is(err, courier.ErrCourierNotVerified):
		status = http.StatusForbidden
	case errors.Is(err, order.ErrAlreadyAssigned),
		errors.Is(err, order.ErrInvalidStatusTransition),
		errors.Is(err, courier.ErrCourierNotAvailable),
		errors.Is(err, courier.ErrOrderNotActive):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
}

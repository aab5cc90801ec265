package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// NearbyOrdersQueryHandler computes the orders to offer a courier.
//
// The repository narrows candidates with a bounding-box prefilter; the
// domain matcher then applies the exact rules (precise radius, exclusion
// set, assignment state) so storage approximations never leak into
// results. Reads are repository-level and need no transaction.
type NearbyOrdersQueryHandler struct {
	courierRepo ports.CourierRepository
	orderRepo   ports.OrderRepository
	matcher     services.OrderMatcher
}

// NewNearbyOrdersQueryHandler creates a handler for nearby-order lookups.
func NewNearbyOrdersQueryHandler(
	courierRepo ports.CourierRepository,
	orderRepo ports.OrderRepository,
) NearbyOrdersQueryHandler {
	return NearbyOrdersQueryHandler{
		courierRepo: courierRepo,
		orderRepo:   orderRepo,
		matcher:     services.NewOrderMatcher(),
	}
}

// Handle returns claimable orders nearest-first, followed by the
// courier's own in-flight deliveries. Couriers that are unverified,
// unavailable, or without a reported location get a typed error.
func (h NearbyOrdersQueryHandler) Handle(ctx context.Context, query NearbyOrdersQuery) ([]NearbyOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	requester, err := h.courierRepo.Get(ctx, query.CourierID())
	if err != nil {
		return nil, err
	}
	if err = requester.EnsureCanMatch(); err != nil {
		return nil, err
	}

	location := *requester.Location()

	candidates, err := h.orderRepo.GetConfirmedUnassignedNear(ctx, location, services.DispatchRadiusMeters)
	if err != nil {
		return nil, err
	}

	inFlight, err := h.orderRepo.GetOutForDeliveryByCourier(ctx, requester.ID())
	if err != nil {
		return nil, err
	}

	matched, err := h.matcher.Match(requester, candidates, inFlight)
	if err != nil {
		return nil, err
	}

	responses := make([]NearbyOrderResponse, 0, len(matched))
	for _, o := range matched {
		distance, err := location.DistanceMeters(o.PickupPoint())
		if err != nil {
			return nil, err
		}

		responses = append(responses, NearbyOrderResponse{
			ID:                    o.ID(),
			Status:                o.Status().String(),
			PickupPoint:           o.PickupPoint(),
			DeliveryPoint:         o.DeliveryPoint(),
			DistanceMeters:        distance,
			Mine:                  o.Status() == order.OutForDelivery,
			EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
		})
	}

	return responses, nil
}

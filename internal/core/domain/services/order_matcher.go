package services

import (
	"sort"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// DispatchRadiusMeters is the matching radius: a confirmed order is only
// offered to a courier when its pickup point lies within this distance of
// the courier's reported location.
const DispatchRadiusMeters = 2000.0

// OrderMatcher is a domain service responsible for computing the set of
// orders a courier can currently work on.
//
// Key responsibilities:
//   - Filtering candidate orders by the courier's dispatch radius
//   - Applying the courier's personal exclusion set
//   - Skipping orders already claimed by another courier
//   - Ordering results nearest-first for the claim flow
//
// Business rules:
//   - Only confirmed, unassigned orders are offered for claiming
//   - A rejected order never reappears for the rejecting courier,
//     but remains visible to every other courier
//   - The courier's own in-flight deliveries are always included,
//     regardless of distance
type OrderMatcher struct{}

// NewOrderMatcher creates a new OrderMatcher instance.
func NewOrderMatcher() OrderMatcher {
	return OrderMatcher{}
}

// Match computes the orders to offer the given courier from a candidate
// set of confirmed orders plus the courier's in-flight deliveries.
//
// Parameters:
//   - c: the courier requesting work; must be verified, available, and
//     have a reported location
//   - candidates: confirmed orders, typically prefiltered by a storage
//     bounding box; Match re-checks every rule exactly
//   - inFlight: the courier's own out-for-delivery orders
//
// The result lists claimable orders nearest-first by pickup point, then
// the courier's in-flight deliveries.
func (m OrderMatcher) Match(
	c *courier.Courier,
	candidates []*order.Order,
	inFlight []*order.Order,
) ([]*order.Order, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.EnsureCanMatch(); err != nil {
		return nil, err
	}

	location := *c.Location()

	type scored struct {
		order    *order.Order
		distance float64
	}

	matched := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
		if candidate.Status() != order.Confirmed || candidate.Courier() != nil {
			continue
		}
		if c.HasRejected(candidate.ID()) {
			continue
		}

		distance, err := location.DistanceMeters(candidate.PickupPoint())
		if err != nil {
			return nil, err
		}
		if distance > DispatchRadiusMeters {
			continue
		}

		matched = append(matched, scored{order: candidate, distance: distance})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].distance < matched[j].distance
	})

	result := make([]*order.Order, 0, len(matched)+len(inFlight))
	for _, s := range matched {
		result = append(result, s.order)
	}

	courierID := c.ID()
	for _, o := range inFlight {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if o.Status() != order.OutForDelivery {
			continue
		}
		if o.Courier() == nil || !o.Courier().IsEqual(courierID) {
			continue
		}
		result = append(result, o)
	}

	return result, nil
}

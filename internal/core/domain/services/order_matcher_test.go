package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

func point(t *testing.T, lon, lat float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lon, lat)
	require.NoError(t, err)
	return p
}

// offsetLat shifts a point north by roughly the given number of meters.
// One degree of latitude is ~111.32 km everywhere on the globe.
func offsetLat(t *testing.T, base kernel.GeoPoint, meters float64) kernel.GeoPoint {
	t.Helper()
	return point(t, base.Longitude(), base.Latitude()+meters/111320.0)
}

func readyCourier(t *testing.T, location kernel.GeoPoint) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	c.Verify()
	c.SetAvailability(true)
	require.NoError(t, c.MoveTo(location))
	return c
}

func confirmedOrderAt(t *testing.T, pickup kernel.GeoPoint) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), 1, 500)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Item{item},
		pickup,
		point(t, pickup.Longitude()+0.01, pickup.Latitude()),
	)
	require.NoError(t, err)
	require.NoError(t, o.Confirm(""))
	return o
}

func Test_MatchFiltersByRadius(t *testing.T) {
	base := point(t, 30.31, 59.94)
	c := readyCourier(t, base)

	near := confirmedOrderAt(t, offsetLat(t, base, 500))
	edge := confirmedOrderAt(t, offsetLat(t, base, 1900))
	far := confirmedOrderAt(t, offsetLat(t, base, 3000))

	matched, err := NewOrderMatcher().Match(c, []*order.Order{far, edge, near}, nil)

	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.True(t, matched[0].IsEqual(near), "nearest order first")
	assert.True(t, matched[1].IsEqual(edge))
}

func Test_MatchExcludesRejectedForThisCourierOnly(t *testing.T) {
	base := point(t, 30.31, 59.94)
	rejecting := readyCourier(t, base)
	other := readyCourier(t, base)

	o := confirmedOrderAt(t, offsetLat(t, base, 100))
	require.NoError(t, rejecting.RejectOrder(o.ID()))

	matcher := NewOrderMatcher()

	matched, err := matcher.Match(rejecting, []*order.Order{o}, nil)
	require.NoError(t, err)
	assert.Empty(t, matched)

	matched, err = matcher.Match(other, []*order.Order{o}, nil)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.True(t, matched[0].IsEqual(o))
}

func Test_MatchSkipsAssignedOrders(t *testing.T) {
	base := point(t, 30.31, 59.94)
	c := readyCourier(t, base)

	claimed := confirmedOrderAt(t, offsetLat(t, base, 100))
	require.NoError(t, claimed.Assign(kernel.NewUUID(), nil))
	open := confirmedOrderAt(t, offsetLat(t, base, 200))

	matched, err := NewOrderMatcher().Match(c, []*order.Order{claimed, open}, nil)

	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.True(t, matched[0].IsEqual(open))
}

func Test_MatchIncludesOwnInFlightDeliveries(t *testing.T) {
	base := point(t, 30.31, 59.94)
	c := readyCourier(t, base)

	// Claimed far outside the radius: still listed because it is this
	// courier's own delivery.
	inFlight := confirmedOrderAt(t, offsetLat(t, base, 50000))
	require.NoError(t, inFlight.Assign(c.ID(), nil))

	someoneElses := confirmedOrderAt(t, offsetLat(t, base, 100))
	require.NoError(t, someoneElses.Assign(kernel.NewUUID(), nil))

	matched, err := NewOrderMatcher().Match(c, nil, []*order.Order{inFlight, someoneElses})

	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.True(t, matched[0].IsEqual(inFlight))
}

func Test_MatchRequiresReadyCourier(t *testing.T) {
	matcher := NewOrderMatcher()

	unverified, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	_, err = matcher.Match(unverified, nil, nil)
	assert.ErrorIs(t, err, courier.ErrCourierNotVerified)

	unavailable, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	unavailable.Verify()
	_, err = matcher.Match(unavailable, nil, nil)
	assert.ErrorIs(t, err, courier.ErrCourierNotAvailable)

	noLocation, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	noLocation.Verify()
	noLocation.SetAvailability(true)
	_, err = matcher.Match(noLocation, nil, nil)
	assert.ErrorIs(t, err, courier.ErrLocationRequired)
}

func Test_MatchSkipsUnconfirmedCandidates(t *testing.T) {
	base := point(t, 30.31, 59.94)
	c := readyCourier(t, base)

	item, err := order.NewItem(kernel.NewUUID(), 1, 500)
	require.NoError(t, err)
	processing, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), []order.Item{item},
		offsetLat(t, base, 100), offsetLat(t, base, 200),
	)
	require.NoError(t, err)

	matched, err := NewOrderMatcher().Match(c, []*order.Order{processing}, nil)

	require.NoError(t, err)
	assert.Empty(t, matched)
}

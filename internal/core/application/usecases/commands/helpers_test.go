package commands_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

func testPoint(t *testing.T, lon, lat float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lon, lat)
	require.NoError(t, err)
	return point
}

func testConfirmedOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), 1, 990)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Item{item},
		testPoint(t, 30.31, 59.94),
		testPoint(t, 30.35, 59.93),
	)
	require.NoError(t, err)
	require.NoError(t, o.Confirm(""))
	return o
}

func testReadyCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	c.Verify()
	c.SetAvailability(true)
	require.NoError(t, c.MoveTo(testPoint(t, 30.32, 59.95)))
	return c
}

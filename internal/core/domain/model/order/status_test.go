package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/pkg/errs"
)

func Test_StatusString(t *testing.T) {
	tests := map[Status]string{
		Unknown:        "unknown",
		Processing:     "processing",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
		Status(42):     "unknown",
	}

	for status, expected := range tests {
		assert.Equal(t, expected, status.String())
	}
}

func Test_StatusFromString(t *testing.T) {
	for _, status := range []Status{Processing, Confirmed, Preparing, OutForDelivery, Delivered, Cancelled} {
		parsed, err := StatusFromString(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := StatusFromString("unknown")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = StatusFromString("shipped")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func Test_StatusValidate(t *testing.T) {
	assert.ErrorIs(t, Unknown.Validate(), errs.ErrValueIsInvalid)
	assert.ErrorIs(t, Status(42).Validate(), errs.ErrValueIsInvalid)
	assert.NoError(t, Processing.Validate())
	assert.NoError(t, Cancelled.Validate())
}

func Test_StatusIsTerminal(t *testing.T) {
	assert.True(t, Delivered.IsTerminal())
	assert.True(t, Cancelled.IsTerminal())
	assert.False(t, Processing.IsTerminal())
	assert.False(t, OutForDelivery.IsTerminal())
}

func Test_StatusIsActive(t *testing.T) {
	assert.True(t, Confirmed.IsActive())
	assert.True(t, Preparing.IsActive())
	assert.True(t, OutForDelivery.IsActive())
	assert.False(t, Processing.IsActive())
	assert.False(t, Delivered.IsActive())
	assert.False(t, Cancelled.IsActive())
}

func Test_StatusTransitions(t *testing.T) {
	all := []Status{Processing, Confirmed, Preparing, OutForDelivery, Delivered, Cancelled}

	tests := []struct {
		name       string
		transition func(Status) (Status, error)
		allowed    map[Status]Status
	}{
		{
			name:       "confirm",
			transition: Status.Confirm,
			allowed:    map[Status]Status{Processing: Confirmed},
		},
		{
			name:       "prepare",
			transition: Status.Prepare,
			allowed:    map[Status]Status{Confirmed: Preparing},
		},
		{
			name:       "start delivery",
			transition: Status.StartDelivery,
			allowed:    map[Status]Status{Confirmed: OutForDelivery, Preparing: OutForDelivery},
		},
		{
			name:       "deliver",
			transition: Status.Deliver,
			allowed:    map[Status]Status{OutForDelivery: Delivered},
		},
		{
			name:       "cancel",
			transition: Status.Cancel,
			allowed: map[Status]Status{
				Processing:     Cancelled,
				Confirmed:      Cancelled,
				Preparing:      Cancelled,
				OutForDelivery: Cancelled,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, from := range all {
				got, err := test.transition(from)

				if want, ok := test.allowed[from]; ok {
					require.NoError(t, err, "from %s", from)
					assert.Equal(t, want, got)
				} else {
					assert.ErrorIs(t, err, ErrInvalidStatusTransition, "from %s", from)
				}
			}
		})
	}
}

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
)

func TestNewAcceptOrderCommand(t *testing.T) {
	courierID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewAcceptOrderCommand(courierID, orderID)

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.Equal(t, courierID, cmd.CourierID())
	assert.Equal(t, orderID, cmd.OrderID())
}

func TestNewAcceptOrderCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewAcceptOrderCommand(kernel.UUID{}, kernel.NewUUID())
	require.Error(t, err)

	_, err = commands.NewAcceptOrderCommand(kernel.NewUUID(), kernel.UUID{})
	require.Error(t, err)
}

func TestAcceptOrderCommand_ZeroValueIsInvalid(t *testing.T) {
	var cmd commands.AcceptOrderCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrAcceptOrderCommandIsNotConstructed)
}

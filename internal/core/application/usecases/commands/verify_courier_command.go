package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrVerifyCourierCommandIsNotConstructed = errors.New(
	"VerifyCourierCommand must be created via NewVerifyCourierCommand constructor",
)

// VerifyCourierCommand marks a courier as cleared for dispatch activity.
// Issued by the external verification collaborator's callback.
type VerifyCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewVerifyCourierCommand creates a verification command.
func NewVerifyCourierCommand(courierID kernel.UUID) (VerifyCourierCommand, error) {
	cmd := VerifyCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setCourierID(courierID); err != nil {
		return VerifyCourierCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyCourierCommand) Validate() error {
	return c.guard.Validate(ErrVerifyCourierCommandIsNotConstructed)
}

// CourierID returns the courier being verified.
func (c VerifyCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *VerifyCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

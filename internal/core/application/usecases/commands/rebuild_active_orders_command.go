package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRebuildActiveOrdersCommandIsNotConstructed = errors.New(
	"RebuildActiveOrdersCommand must be created via NewRebuildActiveOrdersCommand constructor",
)

// RebuildActiveOrdersCommand triggers reconciliation of every courier's
// active-order projection against the order store. The order store is the
// source of truth; this command repairs any drift the projection picked
// up. Run periodically by the reconciliation job.
type RebuildActiveOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewRebuildActiveOrdersCommand creates a parameterless reconciliation command.
func NewRebuildActiveOrdersCommand() RebuildActiveOrdersCommand {
	return RebuildActiveOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *RebuildActiveOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRebuildActiveOrdersCommandIsNotConstructed)
}

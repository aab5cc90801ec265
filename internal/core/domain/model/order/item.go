package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when using an improperly initialized Item.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"item must be created via NewItem constructor")

// Item is a value object representing one order line: a product
// reference, a quantity, and the unit price captured at order time.
type Item struct {
	productID      kernel.UUID
	quantity       int
	unitPriceCents int64
	guard          guard.ConstructorGuard
}

// NewItem creates an order line with validation.
// Quantity must be positive; unit price must not be negative.
func NewItem(productID kernel.UUID, quantity int, unitPriceCents int64) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPriceCents(unitPriceCents),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate checks if the Item was properly constructed via NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductID returns the referenced product identifier.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPriceCents returns the unit price in minor currency units.
func (i Item) UnitPriceCents() int64 {
	return i.unitPriceCents
}

// TotalCents returns quantity times unit price.
func (i Item) TotalCents() int64 {
	return int64(i.quantity) * i.unitPriceCents
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPriceCents(unitPriceCents int64) error {
	if unitPriceCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"unit price is invalid", fmt.Errorf("%d is negative", unitPriceCents))
	}
	i.unitPriceCents = unitPriceCents
	return nil
}

package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created via NewLineItem or RestoreLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one product bought from a vendor. It is immutable once the order is placed.
type LineItem struct {
	id        kernel.UUID
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money
	guard     guard.ConstructorGuard
}

// NewLineItem creates a line item with a fresh identifier.
//
// Parameters:
//   - productID: catalog product (must be valid)
//   - quantity: number of units, greater than 0
//   - unitPrice: price per unit in minor currency units, not negative
func NewLineItem(productID kernel.UUID, quantity int, unitPrice kernel.Money) (*LineItem, error) {
	return RestoreLineItem(kernel.NewUUID(), productID, quantity, unitPrice)
}

// RestoreLineItem rebuilds a persisted line item, re-checking every invariant.
func RestoreLineItem(id, productID kernel.UUID, quantity int, unitPrice kernel.Money) (*LineItem, error) {
	li := &LineItem{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		li.setID(id),
		li.setProductID(productID),
		li.setQuantity(quantity),
		li.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	return li, nil
}

// Validate fails for line items that bypassed the constructors.
func (li *LineItem) Validate() error {
	if li == nil {
		return ErrLineItemIsNotConstructed
	}
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

func (li *LineItem) ID() kernel.UUID {
	return li.id
}

func (li *LineItem) ProductID() kernel.UUID {
	return li.productID
}

func (li *LineItem) Quantity() int {
	return li.quantity
}

func (li *LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// Total is quantity × unit price.
func (li *LineItem) Total() kernel.Money {
	return li.unitPrice.Times(li.quantity)
}

func (li *LineItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

func (li *LineItem) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product_id", err)
	}
	li.productID = id
	return nil
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	li.quantity = quantity
	return nil
}

func (li *LineItem) setUnitPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("unit_price", err)
	}
	li.unitPrice = price
	return nil
}

package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrSubOrderIsNotConstructed is returned when a SubOrder bypassed its constructors.
var ErrSubOrderIsNotConstructed = errors.New("SubOrder must be created via Order.AddSubOrder or RestoreSubOrder")

// SubOrder is one vendor's slice of an order. Its status is the unit a vendor controls.
//
// Invariants:
//   - at least one line item
//   - subtotal = Σ line item totals, total = subtotal + delivery fee
//   - every amount is non-negative
//   - line items never change after creation
type SubOrder struct {
	id          kernel.UUID
	orderID     kernel.UUID
	vendorID    kernel.UUID
	items       []*LineItem
	deliveryFee kernel.Money
	status      Status
	shipmentID  *kernel.UUID
	guard       guard.ConstructorGuard
}

func newSubOrder(id, orderID, vendorID kernel.UUID, deliveryFee kernel.Money, items []*LineItem, status Status) (*SubOrder, error) {
	so := &SubOrder{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		so.setID(id),
		so.setOrderID(orderID),
		so.setVendorID(vendorID),
		so.setDeliveryFee(deliveryFee),
		so.setItems(items),
		so.setStatus(status),
	); err != nil {
		return nil, err
	}

	return so, nil
}

// RestoreSubOrder rebuilds a persisted sub-order. The optional shipmentID links the active shipment.
func RestoreSubOrder(
	id, orderID, vendorID kernel.UUID,
	deliveryFee kernel.Money,
	items []*LineItem,
	status Status,
	shipmentID *kernel.UUID,
) (*SubOrder, error) {
	so, err := newSubOrder(id, orderID, vendorID, deliveryFee, items, status)
	if err != nil {
		return nil, err
	}
	if shipmentID != nil {
		if err := so.LinkShipment(*shipmentID); err != nil {
			return nil, err
		}
	}
	return so, nil
}

// Validate fails for sub-orders that bypassed the constructors.
func (so *SubOrder) Validate() error {
	if so == nil {
		return ErrSubOrderIsNotConstructed
	}
	return so.guard.Validate(ErrSubOrderIsNotConstructed)
}

func (so *SubOrder) ID() kernel.UUID {
	return so.id
}

func (so *SubOrder) OrderID() kernel.UUID {
	return so.orderID
}

func (so *SubOrder) VendorID() kernel.UUID {
	return so.vendorID
}

func (so *SubOrder) Status() Status {
	return so.status
}

func (so *SubOrder) DeliveryFee() kernel.Money {
	return so.deliveryFee
}

// ShipmentID returns the linked shipment, or nil when none was created yet.
func (so *SubOrder) ShipmentID() *kernel.UUID {
	return so.shipmentID
}

// Items returns a copy of the line item slice.
func (so *SubOrder) Items() []*LineItem {
	items := make([]*LineItem, len(so.items))
	copy(items, so.items)
	return items
}

// Subtotal is the sum of line item totals.
func (so *SubOrder) Subtotal() kernel.Money {
	var subtotal kernel.Money
	for _, li := range so.items {
		subtotal += li.Total()
	}
	return subtotal
}

// Total is subtotal plus delivery fee.
func (so *SubOrder) Total() kernel.Money {
	return so.Subtotal() + so.deliveryFee
}

// LinkShipment records the shipment fulfilling this sub-order.
func (so *SubOrder) LinkShipment(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipment_id", err)
	}
	so.shipmentID = &shipmentID
	return nil
}

func (so *SubOrder) transitionTo(target Status) (Transition, error) {
	next, err := so.status.TransitionTo(target)
	if err != nil {
		return Transition{}, fmt.Errorf("sub-order %s: %w", so.id, err)
	}

	t := Transition{Scope: ScopeSubOrder, OrderID: so.orderID, EntityID: so.id, From: so.status, To: next}
	so.status = next
	return t, nil
}

func (so *SubOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	so.id = id
	return nil
}

func (so *SubOrder) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	so.orderID = id
	return nil
}

func (so *SubOrder) setVendorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vendor_id", err)
	}
	so.vendorID = id
	return nil
}

func (so *SubOrder) setDeliveryFee(fee kernel.Money) error {
	if err := fee.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("delivery_fee", err)
	}
	so.deliveryFee = fee
	return nil
}

func (so *SubOrder) setItems(items []*LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line_items")
	}
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	so.items = make([]*LineItem, len(items))
	copy(so.items, items)
	return nil
}

func (so *SubOrder) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == PartiallyFulfilled {
		return errs.NewValueIsInvalidErrorWithCause("status", errors.New("sub-orders cannot be partially fulfilled"))
	}
	so.status = status
	return nil
}

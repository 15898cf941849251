package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order was not created via NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the customer-facing aggregate root spanning one sub-order per vendor.
//
// Order follows these invariants:
//   - customer and destination address are always set, origin is optional
//   - at most one sub-order per vendor
//   - the status is derived from the sub-orders except at creation and on customer cancellation
//   - never physically deleted
type Order struct {
	id            kernel.UUID
	customerID    kernel.UUID
	originID      *kernel.UUID
	destinationID kernel.UUID
	status        Status
	subOrders     []*SubOrder
	createdAt     time.Time
	updatedAt     time.Time
	guard         guard.ConstructorGuard
}

// NewOrder starts a pending order at checkout. Sub-orders are added with AddSubOrder.
//
// Parameters:
//   - id: order identifier
//   - customerID: buyer placing the order
//   - originID: optional pickup address reference
//   - destinationID: delivery address reference
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), principal.ID(), nil, addressID)
//	if err != nil {
//	    return err
//	}
//	_, err = o.AddSubOrder(vendorID, fee, items)
func NewOrder(id, customerID kernel.UUID, originID *kernel.UUID, destinationID kernel.UUID) (*Order, error) {
	now := time.Now().UTC()
	return RestoreOrder(id, customerID, originID, destinationID, Pending, nil, now, now)
}

// RestoreOrder rebuilds an order loaded from storage, re-checking every invariant.
func RestoreOrder(
	id, customerID kernel.UUID,
	originID *kernel.UUID,
	destinationID kernel.UUID,
	status Status,
	subOrders []*SubOrder,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setOriginID(originID),
		o.setDestinationID(destinationID),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	for _, so := range subOrders {
		if err := o.attach(so); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Validate fails for orders that bypassed the constructors.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) OriginID() *kernel.UUID {
	return o.originID
}

func (o *Order) DestinationID() kernel.UUID {
	return o.destinationID
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// SubOrders returns a copy of the sub-order slice in creation order.
func (o *Order) SubOrders() []*SubOrder {
	subOrders := make([]*SubOrder, len(o.subOrders))
	copy(subOrders, o.subOrders)
	return subOrders
}

// SubOrder looks up a sub-order owned by this order.
//
// Returns:
//   - the sub-order when it belongs to this order
//   - ObjectNotFoundError otherwise
func (o *Order) SubOrder(id kernel.UUID) (*SubOrder, error) {
	for _, so := range o.subOrders {
		if so.id.IsEqual(id) {
			return so, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("sub_order", id)
}

// Total is the amount the customer pays: Σ sub-order totals.
func (o *Order) Total() kernel.Money {
	var total kernel.Money
	for _, so := range o.subOrders {
		total += so.Total()
	}
	return total
}

// OpenSubOrders counts sub-orders still Pending or InProgress.
func (o *Order) OpenSubOrders() int {
	open := 0
	for _, so := range o.subOrders {
		if so.status.IsOpen() {
			open++
		}
	}
	return open
}

// AddSubOrder appends a pending sub-order for vendorID. Only allowed while the order is
// pending and before it has been persisted with that vendor.
//
// Returns:
//   - the new sub-order
//   - ValueIsRequiredError when items is empty
//   - AlreadyExistsError when the vendor already has a sub-order in this order
//   - ValueIsInvalidError when the order is no longer pending
func (o *Order) AddSubOrder(vendorID kernel.UUID, deliveryFee kernel.Money, items []*LineItem) (*SubOrder, error) {
	if o.status != Pending {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("cannot add a sub-order to a %s order", o.status),
		)
	}

	so, err := newSubOrder(kernel.NewUUID(), o.id, vendorID, deliveryFee, items, Pending)
	if err != nil {
		return nil, err
	}

	if err := o.attach(so); err != nil {
		return nil, err
	}
	return so, nil
}

// Placed returns the creation transitions of the order and all its sub-orders.
// It fails when the order has no sub-orders.
func (o *Order) Placed() ([]Transition, error) {
	if len(o.subOrders) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	transitions := []Transition{{Scope: ScopeOrder, OrderID: o.id, EntityID: o.id, To: o.status}}
	for _, so := range o.subOrders {
		transitions = append(transitions, Transition{
			Scope: ScopeSubOrder, OrderID: o.id, EntityID: so.id, To: so.status,
		})
	}
	return transitions, nil
}

// Cancel applies a customer cancellation.
//
// Business rules:
//   - a cancelled order returns AlreadyExistsError
//   - a delivered or partially fulfilled order returns ValueIsInvalidError
//   - every open sub-order becomes Cancelled, terminal sub-orders are left alone
//
// Returns the sub-order transitions followed by the order transition. Callers release the
// reservations of every sub-order transition whose To is Cancelled.
func (o *Order) Cancel() ([]Transition, error) {
	if o.status == Cancelled {
		return nil, errs.NewAlreadyExistsError("order", o.id.String(), "already cancelled")
	}
	if o.status.IsTerminal() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("a %s order cannot be cancelled", o.status),
		)
	}

	var transitions []Transition
	for _, so := range o.subOrders {
		if !so.status.IsOpen() {
			continue
		}
		t, err := so.transitionTo(Cancelled)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}

	transitions = append(transitions, o.moveTo(Cancelled))
	return transitions, nil
}

// ConfirmPayment moves every pending sub-order to InProgress, and the order too while it is
// still Pending. A terminal order returns ValueIsInvalidError.
func (o *Order) ConfirmPayment() ([]Transition, error) {
	if o.status.IsTerminal() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("payment cannot be confirmed for a %s order", o.status),
		)
	}

	var transitions []Transition
	for _, so := range o.subOrders {
		if so.status != Pending {
			continue
		}
		t, err := so.transitionTo(InProgress)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}

	if o.status == Pending {
		transitions = append(transitions, o.moveTo(InProgress))
	}
	return transitions, nil
}

// ChangeSubOrderStatus moves one sub-order along the status diagram. It never touches the
// order status itself; the status cascade decides that afterwards with Settle.
func (o *Order) ChangeSubOrderStatus(subOrderID kernel.UUID, target Status) (Transition, error) {
	so, err := o.SubOrder(subOrderID)
	if err != nil {
		return Transition{}, err
	}

	t, err := so.transitionTo(target)
	if err != nil {
		return Transition{}, err
	}

	o.updatedAt = time.Now().UTC()
	return t, nil
}

// Settle sets the derived order status.
//
// Returns:
//   - (transition, true, nil) when the status changed
//   - (zero, false, nil) when the order already has that status
//   - ValueIsInvalidError when the order is terminal or target is Pending
func (o *Order) Settle(target Status) (Transition, bool, error) {
	if err := target.Validate(); err != nil {
		return Transition{}, false, err
	}
	if o.status == target {
		return Transition{}, false, nil
	}
	if o.status.IsTerminal() || target == Pending {
		return Transition{}, false, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("order cannot move from %s to %s", o.status, target),
		)
	}

	return o.moveTo(target), true, nil
}

func (o *Order) moveTo(target Status) Transition {
	t := Transition{Scope: ScopeOrder, OrderID: o.id, EntityID: o.id, From: o.status, To: target}
	o.status = target
	o.updatedAt = time.Now().UTC()
	return t
}

func (o *Order) attach(so *SubOrder) error {
	if err := so.Validate(); err != nil {
		return err
	}
	if !so.orderID.IsEqual(o.id) {
		return errs.NewValueIsInvalidErrorWithCause(
			"sub_order",
			fmt.Errorf("sub-order %s belongs to order %s", so.id, so.orderID),
		)
	}
	for _, existing := range o.subOrders {
		if existing.vendorID.IsEqual(so.vendorID) {
			return errs.NewAlreadyExistsError("sub_order", so.vendorID.String(), "vendor already has a sub-order in this order")
		}
	}
	o.subOrders = append(o.subOrders, so)
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer_id", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setOriginID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("origin_address_id", err)
	}
	origin := *id
	o.originID = &origin
	return nil
}

func (o *Order) setDestinationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("destination_address_id", err)
	}
	o.destinationID = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

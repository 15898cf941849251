package shipment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxNotesLength = 2000

// ErrShipmentIsNotConstructed is returned when a Shipment bypassed NewShipment and RestoreShipment.
var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")

// ErrShipmentIsTerminal is the cause attached to any attempt to change a delivered or failed shipment.
var ErrShipmentIsTerminal = errors.New("shipment is in a terminal status")

// Shipment is the deliverable unit of one sub-order.
//
// Shipment follows these invariants:
//   - it belongs to exactly one sub-order, whose order and vendor are denormalised onto it
//   - a shipment without a driver is Pending, or Failed when its sub-order closed first
//   - assigning a driver to a Pending shipment moves it to InProgress
//   - Delivered and Failed shipments are immutable
type Shipment struct {
	id              kernel.UUID
	subOrderID      kernel.UUID
	orderID         kernel.UUID
	vendorID        kernel.UUID
	originAddressID kernel.UUID
	driverID        *kernel.UUID
	status          Status
	priority        Priority
	notes           string
	createdAt       time.Time
	updatedAt       time.Time
	guard           guard.ConstructorGuard
}

// NewShipment creates a shipment for a sub-order. With a driver the shipment starts InProgress,
// without one it starts Pending.
//
// Example:
//
//	s, err := shipment.NewShipment(subOrder.ID(), o.ID(), vendor.ID, vendor.AddressID, &driverID, shipment.High, "fragile")
//	// s.Status() == shipment.InProgress
func NewShipment(
	subOrderID, orderID, vendorID, originAddressID kernel.UUID,
	driverID *kernel.UUID,
	priority Priority,
	notes string,
) (*Shipment, error) {
	status := Pending
	if driverID != nil {
		status = InProgress
	}

	now := time.Now().UTC()
	return RestoreShipment(kernel.NewUUID(), subOrderID, orderID, vendorID, originAddressID,
		driverID, status, priority, notes, now, now)
}

// RestoreShipment rebuilds a persisted shipment, re-checking every invariant.
func RestoreShipment(
	id, subOrderID, orderID, vendorID, originAddressID kernel.UUID,
	driverID *kernel.UUID,
	status Status,
	priority Priority,
	notes string,
	createdAt, updatedAt time.Time,
) (*Shipment, error) {
	s := &Shipment{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setRef("sub_order_id", subOrderID, &s.subOrderID),
		s.setRef("order_id", orderID, &s.orderID),
		s.setRef("vendor_id", vendorID, &s.vendorID),
		s.setRef("origin_address_id", originAddressID, &s.originAddressID),
		s.setDriver(driverID),
		s.setPriority(priority),
		s.setNotes(notes),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if (status == InProgress || status == Delivered) && s.driverID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"shipment status",
			fmt.Errorf("%s shipment requires a driver", status),
		)
	}
	s.status = status

	return s, nil
}

// Validate fails for shipments that bypassed the constructors.
func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

func (s *Shipment) ID() kernel.UUID              { return s.id }
func (s *Shipment) SubOrderID() kernel.UUID      { return s.subOrderID }
func (s *Shipment) OrderID() kernel.UUID         { return s.orderID }
func (s *Shipment) VendorID() kernel.UUID        { return s.vendorID }
func (s *Shipment) OriginAddressID() kernel.UUID { return s.originAddressID }
func (s *Shipment) DriverID() *kernel.UUID       { return s.driverID }
func (s *Shipment) Status() Status               { return s.status }
func (s *Shipment) Priority() Priority           { return s.priority }
func (s *Shipment) Notes() string                { return s.notes }
func (s *Shipment) CreatedAt() time.Time         { return s.createdAt }
func (s *Shipment) UpdatedAt() time.Time         { return s.updatedAt }

// IsActive reports whether the shipment still blocks a new shipment for its sub-order.
func (s *Shipment) IsActive() bool {
	return s.status != Failed
}

// AssignDriver sets or replaces the driver. A Pending shipment moves to InProgress.
//
// Returns the previous status so callers can tell whether a status change happened.
func (s *Shipment) AssignDriver(driverID kernel.UUID) (Status, error) {
	if err := s.ensureMutable(); err != nil {
		return Unknown, err
	}
	if err := s.setDriver(&driverID); err != nil {
		return Unknown, err
	}

	from := s.status
	if s.status == Pending {
		s.status = InProgress
	}
	s.touch()
	return from, nil
}

// ChangeStatus moves the shipment along its diagram. Setting the current status is a no-op.
//
// Business rules:
//   - Delivered and Failed shipments cannot change
//   - leaving Pending requires a driver
//   - a shipment cannot go back to Pending
//   - Delivered and Failed are only reachable from InProgress
func (s *Shipment) ChangeStatus(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if err := s.ensureMutable(); err != nil {
		return Unknown, err
	}

	from := s.status
	if from == target {
		return from, nil
	}

	switch {
	case target == Pending:
		return Unknown, s.transitionError(target)
	case from == Pending && s.driverID == nil:
		return Unknown, errs.NewValueIsRequiredErrorWithCause(
			"driver_id",
			fmt.Errorf("shipment %s needs a driver before it can become %s", s.id, target),
		)
	case from == Pending && target != InProgress:
		return Unknown, s.transitionError(target)
	}

	s.status = target
	s.touch()
	return from, nil
}

// Close settles a shipment whose sub-order was closed by its vendor or by a cancellation.
// A delivered sub-order delivers an InProgress shipment. Any other case fails the shipment,
// with or without a driver. Terminal shipments are left unchanged.
//
// Returns the previous status and whether anything changed.
func (s *Shipment) Close(subOrderDelivered bool) (Status, bool) {
	if s.status.IsTerminal() {
		return s.status, false
	}

	from := s.status
	if subOrderDelivered && from == InProgress {
		s.status = Delivered
	} else {
		s.status = Failed
	}
	s.touch()
	return from, true
}

// SetPriority changes the dispatch priority of a non-terminal shipment.
func (s *Shipment) SetPriority(p Priority) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := s.setPriority(p); err != nil {
		return err
	}
	s.touch()
	return nil
}

// SetNotes replaces the free-text delivery notes of a non-terminal shipment.
func (s *Shipment) SetNotes(notes string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := s.setNotes(notes); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Shipment) ensureMutable() error {
	if s.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"shipment",
			fmt.Errorf("%w: %s is %s", ErrShipmentIsTerminal, s.id, s.status),
		)
	}
	return nil
}

func (s *Shipment) transitionError(target Status) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"shipment status",
		fmt.Errorf("transition from %s to %s is not allowed", s.status, target),
	)
}

func (s *Shipment) touch() {
	s.updatedAt = time.Now().UTC()
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setRef(name string, id kernel.UUID, dst *kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}

func (s *Shipment) setDriver(driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driver_id", err)
	}
	d := *driverID
	s.driverID = &d
	return nil
}

func (s *Shipment) setPriority(p Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.priority = p
	return nil
}

func (s *Shipment) setNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len(notes) > maxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes length", len(notes), 0, maxNotesLength)
	}
	s.notes = notes
	return nil
}

package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand starts fulfillment of a sub-order. Driver and origin are optional;
// the origin defaults to the vendor store address.
type CreateShipmentCommand struct {
	principal  identity.Principal
	subOrderID kernel.UUID
	driverID   *kernel.UUID
	originID   *kernel.UUID
	priority   shipment.Priority
	notes      string
	guard      guard.ConstructorGuard
}

func NewCreateShipmentCommand(
	principal identity.Principal,
	subOrderID kernel.UUID,
	driverID *kernel.UUID,
	originID *kernel.UUID,
	priority shipment.Priority,
	notes string,
) (CreateShipmentCommand, error) {
	if priority == shipment.UnknownPriority {
		priority = shipment.Normal
	}

	if err := errors.Join(
		principal.Validate(),
		subOrderID.Validate(),
		validateOptionalID("driver_id", driverID),
		validateOptionalID("origin_address_id", originID),
		priority.Validate(),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return CreateShipmentCommand{
		principal:  principal,
		subOrderID: subOrderID,
		driverID:   driverID,
		originID:   originID,
		priority:   priority,
		notes:      strings.TrimSpace(notes),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

func (c CreateShipmentCommand) Principal() identity.Principal { return c.principal }
func (c CreateShipmentCommand) SubOrderID() kernel.UUID       { return c.subOrderID }
func (c CreateShipmentCommand) DriverID() *kernel.UUID        { return c.driverID }
func (c CreateShipmentCommand) OriginID() *kernel.UUID        { return c.originID }
func (c CreateShipmentCommand) Priority() shipment.Priority   { return c.priority }
func (c CreateShipmentCommand) Notes() string                 { return c.notes }

func validateOptionalID(name string, id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

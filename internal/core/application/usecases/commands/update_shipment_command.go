package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateShipmentCommandIsNotConstructed = errors.New(
	"UpdateShipmentCommand must be created via NewUpdateShipmentCommand constructor",
)

// ShipmentChanges lists the optional fields of a shipment update. Nil fields stay unchanged.
type ShipmentChanges struct {
	Status   *shipment.Status
	DriverID *kernel.UUID
	Notes    *string
	Priority *shipment.Priority
}

func (c ShipmentChanges) isEmpty() bool {
	return c.Status == nil && c.DriverID == nil && c.Notes == nil && c.Priority == nil
}

// UpdateShipmentCommand changes status, driver, notes or priority of a shipment.
type UpdateShipmentCommand struct {
	principal  identity.Principal
	shipmentID kernel.UUID
	changes    ShipmentChanges
	guard      guard.ConstructorGuard
}

func NewUpdateShipmentCommand(
	principal identity.Principal,
	shipmentID kernel.UUID,
	changes ShipmentChanges,
) (UpdateShipmentCommand, error) {
	errList := []error{principal.Validate(), shipmentID.Validate(), validateOptionalID("driver_id", changes.DriverID)}
	if changes.isEmpty() {
		errList = append(errList, errs.NewValueIsRequiredError("status, driver_id, notes or priority"))
	}
	if changes.Status != nil {
		errList = append(errList, changes.Status.Validate())
	}
	if changes.Priority != nil {
		errList = append(errList, changes.Priority.Validate())
	}

	if err := errors.Join(errList...); err != nil {
		return UpdateShipmentCommand{}, err
	}

	return UpdateShipmentCommand{
		principal:  principal,
		shipmentID: shipmentID,
		changes:    changes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShipmentCommandIsNotConstructed)
}

func (c UpdateShipmentCommand) Principal() identity.Principal { return c.principal }
func (c UpdateShipmentCommand) ShipmentID() kernel.UUID       { return c.shipmentID }
func (c UpdateShipmentCommand) Changes() ShipmentChanges      { return c.changes }

package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand attaches a driver to a shipment.
type AssignDriverCommand struct {
	principal  identity.Principal
	shipmentID kernel.UUID
	driverID   kernel.UUID
	guard      guard.ConstructorGuard
}

func NewAssignDriverCommand(principal identity.Principal, shipmentID, driverID kernel.UUID) (AssignDriverCommand, error) {
	if err := errors.Join(principal.Validate(), shipmentID.Validate(), driverID.Validate()); err != nil {
		return AssignDriverCommand{}, err
	}
	return AssignDriverCommand{
		principal:  principal,
		shipmentID: shipmentID,
		driverID:   driverID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) Principal() identity.Principal { return c.principal }
func (c AssignDriverCommand) ShipmentID() kernel.UUID       { return c.shipmentID }
func (c AssignDriverCommand) DriverID() kernel.UUID         { return c.driverID }

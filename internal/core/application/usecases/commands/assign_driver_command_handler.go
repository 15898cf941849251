package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/shipment"
)

// AssignDriverCommandHandler assigns a driver pre-associated with the shipment's vendor.
// A pending shipment moves to in progress; terminal shipments are rejected.
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
}

func NewAssignDriverCommandHandler(uowFactory UoWFactory) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{uowFactory: uowFactory}
}

func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (*shipment.Shipment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	principal := cmd.Principal()
	roles := NewRoleGuard(uow.DirectoryRepository())

	o, s, err := lockShipment(ctx, uow, roles, principal, cmd.ShipmentID())
	if err != nil {
		return nil, err
	}

	if err = roles.RequireDriverAssociation(ctx, s.VendorID(), cmd.DriverID()); err != nil {
		return nil, err
	}

	from, err := s.AssignDriver(cmd.DriverID())
	if err != nil {
		return nil, err
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}

	effects := newSideEffects(uow.ActivityRepository(), principal)
	if err = effects.audit(ctx, "shipment.assign_driver", entityShipment, s.ID(), map[string]any{
		"driver_id": cmd.DriverID().String(),
	}); err != nil {
		return nil, err
	}
	if s.Status() != from {
		if err = effects.record(ctx, "shipment.update_status", shipmentChange(s, from, o.CustomerID())); err != nil {
			return nil, err
		}
	}
	if err = notifyDriver(ctx, effects, s); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

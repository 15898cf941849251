package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
)

// shipmentOperators may change shipments: the owning vendor, or the platform.
var shipmentOperators = []identity.Role{identity.VendorOwner, identity.PlatformAdmin, identity.FleetManager}

// UpdateShipmentCommandHandler applies a shipment update and cascades terminal outcomes:
// delivered moves the sub-order to delivered, failed cancels it and releases its reservations.
type UpdateShipmentCommandHandler struct {
	uowFactory UoWFactory
	cascade    services.StatusCascade
}

func NewUpdateShipmentCommandHandler(uowFactory UoWFactory, cascade services.StatusCascade) UpdateShipmentCommandHandler {
	return UpdateShipmentCommandHandler{uowFactory: uowFactory, cascade: cascade}
}

func (h UpdateShipmentCommandHandler) Handle(ctx context.Context, cmd UpdateShipmentCommand) (*shipment.Shipment, error) {
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

	changes := cmd.Changes()
	from := s.Status()

	if changes.DriverID != nil {
		if err = roles.RequireDriverAssociation(ctx, s.VendorID(), *changes.DriverID); err != nil {
			return nil, err
		}
		if _, err = s.AssignDriver(*changes.DriverID); err != nil {
			return nil, err
		}
	}
	if changes.Notes != nil {
		if err = s.SetNotes(*changes.Notes); err != nil {
			return nil, err
		}
	}
	if changes.Priority != nil {
		if err = s.SetPriority(*changes.Priority); err != nil {
			return nil, err
		}
	}
	if changes.Status != nil {
		if _, err = s.ChangeStatus(*changes.Status); err != nil {
			return nil, err
		}
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return nil, err
	}

	transitions, err := h.cascadeOutcome(ctx, uow, o, s, from)
	if err != nil {
		return nil, err
	}

	effects := newSideEffects(uow.ActivityRepository(), principal)
	if err = effects.audit(ctx, "shipment.update", entityShipment, s.ID(), updateDetails(changes)); err != nil {
		return nil, err
	}

	var recorded []statusChange
	if s.Status() != from {
		recorded = append(recorded, shipmentChange(s, from, o.CustomerID()))
	}
	recorded = append(recorded, orderChanges(o, transitions)...)
	if err = effects.record(ctx, "shipment.update_status", recorded...); err != nil {
		return nil, err
	}

	if changes.DriverID != nil {
		if err = notifyDriver(ctx, effects, s); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// cascadeOutcome runs the status cascade when the shipment just became terminal. A sub-order
// that is already closed stays as it is and the shipment closes alone.
func (h UpdateShipmentCommandHandler) cascadeOutcome(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	s *shipment.Shipment,
	from shipment.Status,
) ([]order.Transition, error) {
	if s.Status() == from {
		return nil, nil
	}
	outcome, ok := services.SubOrderOutcome(s.Status())
	if !ok {
		return nil, nil
	}
	so, err := o.SubOrder(s.SubOrderID())
	if err != nil {
		return nil, err
	}
	if so.Status().IsTerminal() {
		return nil, nil
	}

	transitions, err := h.cascade.Apply(o, s.SubOrderID(), outcome)
	if err != nil {
		return nil, err
	}
	if err = releaseCancelled(ctx, uow.InventoryLedger(), o, transitions); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	return transitions, nil
}

// lockShipment authorizes access to a shipment and locks the owning order, then the
// shipment. Every writer locks in that order.
func lockShipment(
	ctx context.Context,
	uow UoW,
	roles RoleGuard,
	principal identity.Principal,
	shipmentID kernel.UUID,
) (*order.Order, *shipment.Shipment, error) {
	if _, err := roles.RequireRole(ctx, principal, shipmentOperators...); err != nil {
		return nil, nil, err
	}

	shipments := uow.ShipmentRepository()
	s, err := shipments.Get(ctx, shipmentID)
	if err != nil {
		return nil, nil, err
	}
	if err = roles.RequireShipmentAccess(ctx, principal, s.VendorID()); err != nil {
		return nil, nil, err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, s.OrderID())
	if err != nil {
		return nil, nil, err
	}
	s, err = shipments.GetForUpdate(ctx, shipmentID)
	if err != nil {
		return nil, nil, err
	}
	return o, s, nil
}

func notifyDriver(ctx context.Context, effects sideEffects, s *shipment.Shipment) error {
	msg := fmt.Sprintf("you were assigned shipment %s", s.ID())
	return effects.notify(ctx, *s.DriverID(), s.OrderID(), "shipment.assigned", msg)
}

func updateDetails(c ShipmentChanges) map[string]any {
	details := map[string]any{}
	if c.Status != nil {
		details["status"] = c.Status.String()
	}
	if c.DriverID != nil {
		details["driver_id"] = c.DriverID.String()
	}
	if c.Notes != nil {
		details["notes"] = *c.Notes
	}
	if c.Priority != nil {
		details["priority"] = c.Priority.String()
	}
	return details
}

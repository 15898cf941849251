package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// CreateShipmentCommandHandler creates the shipment of a sub-order.
//
// Business rules:
//   - only the owner of the sub-order's store may ship it
//   - a terminal sub-order cannot be shipped
//   - at most one active shipment per sub-order (errs.AlreadyExistsError)
//   - a given driver must be pre-associated with the vendor; the shipment then starts in progress
//   - a pending sub-order moves to in progress, and the cascade may start the order
type CreateShipmentCommandHandler struct {
	uowFactory UoWFactory
	cascade    services.StatusCascade
}

func NewCreateShipmentCommandHandler(uowFactory UoWFactory, cascade services.StatusCascade) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{uowFactory: uowFactory, cascade: cascade}
}

func (h CreateShipmentCommandHandler) Handle(ctx context.Context, cmd CreateShipmentCommand) (*shipment.Shipment, error) {
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
	if _, err := roles.RequireRole(ctx, principal, identity.VendorOwner); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().GetBySubOrderForUpdate(ctx, cmd.SubOrderID())
	if err != nil {
		return nil, err
	}
	so, err := o.SubOrder(cmd.SubOrderID())
	if err != nil {
		return nil, err
	}
	vendor, err := roles.RequireVendorOwnership(ctx, principal, so.VendorID())
	if err != nil {
		return nil, err
	}

	if so.Status().IsTerminal() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"sub_order",
			fmt.Errorf("sub-order %s is %s", so.ID(), so.Status()),
		)
	}

	shipments := uow.ShipmentRepository()
	active, err := shipments.HasActiveForSubOrder(ctx, so.ID())
	if err != nil {
		return nil, err
	}
	if active {
		return nil, errs.NewAlreadyExistsError("shipment", so.ID().String(), "sub-order already has an active shipment")
	}

	if cmd.DriverID() != nil {
		if err = roles.RequireDriverAssociation(ctx, vendor.ID, *cmd.DriverID()); err != nil {
			return nil, err
		}
	}

	origin := vendor.AddressID
	if cmd.OriginID() != nil {
		addr, err := uow.DirectoryRepository().GetAddress(ctx, *cmd.OriginID())
		if err != nil {
			return nil, err
		}
		if !addr.OwnerID.IsEqual(vendor.OwnerID) {
			return nil, errs.NewAccessDeniedError(principal.ID().String(), "origin address belongs to another user")
		}
		origin = addr.ID
	}

	s, err := shipment.NewShipment(so.ID(), o.ID(), vendor.ID, origin, cmd.DriverID(), cmd.Priority(), cmd.Notes())
	if err != nil {
		return nil, err
	}
	if err = so.LinkShipment(s.ID()); err != nil {
		return nil, err
	}

	var transitions []order.Transition
	if so.Status() == order.Pending {
		if transitions, err = h.cascade.Apply(o, so.ID(), order.InProgress); err != nil {
			return nil, err
		}
	}

	if err = shipments.Add(ctx, s); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	effects := newSideEffects(uow.ActivityRepository(), principal)
	changes := append(
		[]statusChange{shipmentChange(s, shipment.Unknown, o.CustomerID())},
		orderChanges(o, transitions)...,
	)
	if err = effects.record(ctx, "shipment.create", changes...); err != nil {
		return nil, err
	}
	if s.DriverID() != nil {
		msg := fmt.Sprintf("you were assigned shipment %s", s.ID())
		if err = effects.notify(ctx, *s.DriverID(), o.ID(), "shipment.assigned", msg); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

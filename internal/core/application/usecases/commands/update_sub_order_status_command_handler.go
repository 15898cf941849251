package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// UpdateSubOrderStatusCommandHandler lets a vendor move a sub-order of its own store and
// cascades the change to the order. A sub-order moved to cancelled releases its reservations.
// Closing a sub-order also closes its open shipment: delivered delivers it, cancelled fails it.
type UpdateSubOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	cascade    services.StatusCascade
}

func NewUpdateSubOrderStatusCommandHandler(
	uowFactory UoWFactory,
	cascade services.StatusCascade,
) UpdateSubOrderStatusCommandHandler {
	return UpdateSubOrderStatusCommandHandler{uowFactory: uowFactory, cascade: cascade}
}

func (h UpdateSubOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateSubOrderStatusCommand) (*order.Order, error) {
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
	if _, err = roles.RequireVendorOwnership(ctx, principal, so.VendorID()); err != nil {
		return nil, err
	}

	transitions, err := h.cascade.Apply(o, so.ID(), cmd.Status())
	if err != nil {
		return nil, err
	}

	if err = releaseCancelled(ctx, uow.InventoryLedger(), o, transitions); err != nil {
		return nil, err
	}

	closed, err := closeShipments(ctx, uow.ShipmentRepository(), o, transitions)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	effects := newSideEffects(uow.ActivityRepository(), principal)
	changes := append(orderChanges(o, transitions), closed...)
	if err = effects.record(ctx, "sub_order.update_status", changes...); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

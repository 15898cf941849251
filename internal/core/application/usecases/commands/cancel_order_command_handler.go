package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels an order on behalf of its customer.
//
// Effects, all in one unit of work:
//   - every open sub-order and the order become cancelled
//   - the reservations of those sub-orders are released; delivered sub-orders keep theirs
//   - their open shipments fail
//   - a paid payment becomes refunded, a pending one failed
//
// A second cancellation returns errs.AlreadyExistsError and changes nothing.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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
	if _, err := roles.RequireRole(ctx, principal, identity.Customer); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = roles.RequireOrderOwnership(principal, o); err != nil {
		return nil, err
	}

	transitions, err := o.Cancel()
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

	changes := append(orderChanges(o, transitions), closed...)

	pay, err := uow.PaymentRepository().GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	if from, changed := pay.Void(); changed {
		if err = uow.PaymentRepository().Update(ctx, pay); err != nil {
			return nil, err
		}
		changes = append(changes, statusChange{
			orderID:   o.ID(),
			entity:    entityPayment,
			entityID:  pay.ID(),
			from:      string(from),
			to:        string(pay.Status()),
			recipient: o.CustomerID(),
		})
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = newSideEffects(uow.ActivityRepository(), principal).record(ctx, "order.cancel", changes...); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/order"
)

// ConfirmPaymentCommandHandler marks the payment paid and starts the order: every pending
// sub-order and a pending order move to in progress.
type ConfirmPaymentCommandHandler struct {
	uowFactory UoWFactory
}

func NewConfirmPaymentCommandHandler(uowFactory UoWFactory) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{uowFactory: uowFactory}
}

func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*order.Order, error) {
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
	if _, err := NewRoleGuard(uow.DirectoryRepository()).RequireRole(ctx, principal, identity.PlatformAdmin); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	pay, err := uow.PaymentRepository().GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	from := pay.Status()
	if err = pay.MarkPaid(); err != nil {
		return nil, err
	}

	transitions, err := o.ConfirmPayment()
	if err != nil {
		return nil, err
	}

	if err = uow.PaymentRepository().Update(ctx, pay); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	changes := append([]statusChange{{
		orderID:   o.ID(),
		entity:    entityPayment,
		entityID:  pay.ID(),
		from:      string(from),
		to:        string(pay.Status()),
		recipient: o.CustomerID(),
	}}, orderChanges(o, transitions)...)

	if err = newSideEffects(uow.ActivityRepository(), principal).record(ctx, "payment.confirm", changes...); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

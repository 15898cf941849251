package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand records that the payment of an order was captured.
type ConfirmPaymentCommand struct {
	principal identity.Principal
	orderID   kernel.UUID
	guard     guard.ConstructorGuard
}

func NewConfirmPaymentCommand(principal identity.Principal, orderID kernel.UUID) (ConfirmPaymentCommand, error) {
	if err := errors.Join(principal.Validate(), orderID.Validate()); err != nil {
		return ConfirmPaymentCommand{}, err
	}
	return ConfirmPaymentCommand{principal: principal, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) Principal() identity.Principal { return c.principal }
func (c ConfirmPaymentCommand) OrderID() kernel.UUID          { return c.orderID }

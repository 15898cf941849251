package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand is a customer's cancellation of their own order.
type CancelOrderCommand struct {
	principal identity.Principal
	orderID   kernel.UUID
	guard     guard.ConstructorGuard
}

func NewCancelOrderCommand(principal identity.Principal, orderID kernel.UUID) (CancelOrderCommand, error) {
	if err := errors.Join(principal.Validate(), orderID.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{principal: principal, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Principal() identity.Principal { return c.principal }
func (c CancelOrderCommand) OrderID() kernel.UUID          { return c.orderID }

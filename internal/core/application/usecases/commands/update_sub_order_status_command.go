package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateSubOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateSubOrderStatusCommand must be created via NewUpdateSubOrderStatusCommand constructor",
)

// UpdateSubOrderStatusCommand is a vendor moving one of its sub-orders.
type UpdateSubOrderStatusCommand struct {
	principal  identity.Principal
	subOrderID kernel.UUID
	status     order.Status
	guard      guard.ConstructorGuard
}

func NewUpdateSubOrderStatusCommand(
	principal identity.Principal,
	subOrderID kernel.UUID,
	status order.Status,
) (UpdateSubOrderStatusCommand, error) {
	if err := errors.Join(principal.Validate(), subOrderID.Validate(), status.Validate()); err != nil {
		return UpdateSubOrderStatusCommand{}, err
	}
	return UpdateSubOrderStatusCommand{
		principal:  principal,
		subOrderID: subOrderID,
		status:     status,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateSubOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateSubOrderStatusCommandIsNotConstructed)
}

func (c UpdateSubOrderStatusCommand) Principal() identity.Principal { return c.principal }
func (c UpdateSubOrderStatusCommand) SubOrderID() kernel.UUID       { return c.subOrderID }
func (c UpdateSubOrderStatusCommand) Status() order.Status          { return c.status }

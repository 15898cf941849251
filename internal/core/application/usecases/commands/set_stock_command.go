package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSetStockCommandIsNotConstructed = errors.New(
	"SetStockCommand must be created via NewSetStockCommand constructor",
)

// SetStockCommand sets the owned stock level of a product.
type SetStockCommand struct {
	principal identity.Principal
	productID kernel.UUID
	level     int
	guard     guard.ConstructorGuard
}

func NewSetStockCommand(principal identity.Principal, productID kernel.UUID, level int) (SetStockCommand, error) {
	var levelErr error
	if level < 0 {
		levelErr = errs.NewValueIsInvalidErrorWithCause("level", fmt.Errorf("%d is negative", level))
	}
	if err := errors.Join(principal.Validate(), productID.Validate(), levelErr); err != nil {
		return SetStockCommand{}, err
	}
	return SetStockCommand{principal: principal, productID: productID, level: level, guard: guard.NewConstructorGuard()}, nil
}

func (c SetStockCommand) Validate() error {
	return c.guard.Validate(ErrSetStockCommandIsNotConstructed)
}

func (c SetStockCommand) Principal() identity.Principal { return c.principal }
func (c SetStockCommand) ProductID() kernel.UUID        { return c.productID }
func (c SetStockCommand) Level() int                    { return c.level }

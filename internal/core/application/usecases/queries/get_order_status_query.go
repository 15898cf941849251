package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderStatusQueryIsNotConstructed = errors.New(
	"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
)

// GetOrderStatusQuery reads the current status of an order and its sub-orders.
//
// Example:
//
//	query, err := NewGetOrderStatusQuery(principal, orderID)
//	if err != nil {
//	    return err
//	}
//	snapshot, err := handler.Handle(ctx, query)
type GetOrderStatusQuery struct {
	principal identity.Principal
	orderID   kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetOrderStatusQuery(principal identity.Principal, orderID kernel.UUID) (GetOrderStatusQuery, error) {
	if err := errors.Join(principal.Validate(), orderID.Validate()); err != nil {
		return GetOrderStatusQuery{}, err
	}
	return GetOrderStatusQuery{principal: principal, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

func (q GetOrderStatusQuery) Principal() identity.Principal { return q.principal }
func (q GetOrderStatusQuery) OrderID() kernel.UUID          { return q.orderID }

package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery lists every status change of an order, its sub-orders and shipments.
type GetOrderHistoryQuery struct {
	principal identity.Principal
	orderID   kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetOrderHistoryQuery(principal identity.Principal, orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	if err := errors.Join(principal.Validate(), orderID.Validate()); err != nil {
		return GetOrderHistoryQuery{}, err
	}
	return GetOrderHistoryQuery{principal: principal, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

func (q GetOrderHistoryQuery) Principal() identity.Principal { return q.principal }
func (q GetOrderHistoryQuery) OrderID() kernel.UUID          { return q.orderID }

// GetOrderHistoryQueryResponse is one status change. FromStatus is empty for creation.
type GetOrderHistoryQueryResponse struct {
	Entity     string
	EntityID   kernel.UUID
	FromStatus string
	ToStatus   string
	ActorID    kernel.UUID
	CreatedAt  time.Time
}

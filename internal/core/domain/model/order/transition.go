package order

import "fulfillment/internal/core/domain/model/kernel"

// Scope tells which entity a Transition belongs to.
type Scope string

const (
	ScopeOrder    Scope = "order"
	ScopeSubOrder Scope = "sub_order"
)

// Transition records one status change of an order or a sub-order.
// OrderID is always the owning order, EntityID equals OrderID for ScopeOrder.
type Transition struct {
	Scope    Scope
	OrderID  kernel.UUID
	EntityID kernel.UUID
	From     Status
	To       Status
}

// IsInitial reports a creation record (no previous status).
func (t Transition) IsInitial() bool {
	return t.From == Unknown
}

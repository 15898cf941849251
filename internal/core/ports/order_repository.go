// Package ports defines the contracts between the fulfillment core and its adapters:
// repositories, the inventory ledger, the unit of work, the status cache and the
// notification publisher.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates together with their sub-orders and line items.
type OrderRepository interface {
	// Add inserts a new order, its sub-orders and line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status changes of the order and its sub-orders.
	// Line items are immutable and never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order and locks its row until the transaction ends.
	// Every operation that changes order or sub-order status goes through it, so concurrent
	// cascades on one order serialize.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetBySubOrderForUpdate locks and loads the order owning subOrderID.
	GetBySubOrderForUpdate(ctx context.Context, subOrderID kernel.UUID) (*order.Order, error)
}

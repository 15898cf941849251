package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// OrderStatusSnapshot is the cached read model of an order's status. It carries the ids
// needed to authorize a reader without going back to the database.
type OrderStatusSnapshot struct {
	OrderID        string             `json:"order_id"`
	CustomerID     string             `json:"customer_id"`
	Status         string             `json:"status"`
	PaymentStatus  string             `json:"payment_status"`
	VendorOwnerIDs []string           `json:"vendor_owner_ids"`
	DriverIDs      []string           `json:"driver_ids,omitempty"`
	SubOrders      []SubOrderSnapshot `json:"sub_orders"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type SubOrderSnapshot struct {
	ID         string `json:"id"`
	VendorID   string `json:"vendor_id"`
	Status     string `json:"status"`
	ShipmentID string `json:"shipment_id,omitempty"`
}

// StatusCache caches OrderStatusSnapshot values.
//
// Every invalidation bumps the generation of the order. Get returns the generation current at
// the read, and a miss returns a nil snapshot. Set stores only while that generation is still
// current, so a snapshot loaded before a commit never outlives the invalidation of the commit.
type StatusCache interface {
	Get(ctx context.Context, orderID kernel.UUID) (*OrderStatusSnapshot, int64, error)
	Set(ctx context.Context, snapshot OrderStatusSnapshot, generation int64) (bool, error)
	Invalidate(ctx context.Context, orderIDs ...kernel.UUID) error
}

// CommitListener is notified after a unit of work commits, with the orders it changed.
type CommitListener interface {
	AfterCommit(ctx context.Context, orderIDs []kernel.UUID)
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// InventoryLedger holds per-product stock. Reserve and Release are single conditional
// updates evaluated by the store against the current row, never read-modify-write.
type InventoryLedger interface {
	// Reserve moves qty from available to reserved.
	//
	// Returns:
	//   - errs.InsufficientStockError when available < qty
	//   - errs.ObjectNotFoundError when the product has no record
	//   - errs.ValueIsInvalidError when qty <= 0
	Reserve(ctx context.Context, productID kernel.UUID, qty int) error

	// Release is the exact inverse of Reserve. Callers release once per reservation.
	Release(ctx context.Context, productID kernel.UUID, qty int) error

	Get(ctx context.Context, productID kernel.UUID) (inventory.Record, error)

	// Stock sets the owned stock level, creating the record when missing.
	// A level below the reserved quantity is rejected.
	Stock(ctx context.Context, productID kernel.UUID, level int) error
}

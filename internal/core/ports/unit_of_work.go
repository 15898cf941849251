package ports

import (
	"context"
)

// UnitOfWorkFactory creates one UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one fulfillment operation. Every repository it
// hands out is bound to the transaction started by Begin, so the ledger, the aggregates and
// the activity records commit or roll back together.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit commits the transaction and then notifies commit listeners.
	Commit(ctx context.Context) error

	// Rollback aborts the transaction. Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ShipmentRepository() ShipmentRepository
	PaymentRepository() PaymentRepository
	InventoryLedger() InventoryLedger
	DirectoryRepository() DirectoryRepository
	CatalogRepository() CatalogRepository
	ActivityRepository() ActivityRepository
	NotificationOutbox() NotificationOutbox
}

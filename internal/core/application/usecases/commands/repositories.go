// Package commands contains the fulfillment operations that change system state.
//
// Every operation is a command value built by its New...Command constructor plus a handler.
// A handler opens one unit of work, runs the RoleGuard, mutates the aggregates, runs the
// status cascade, writes the side effects and commits. Any error rolls the whole unit back.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces. Handlers depend on the narrowest set of repositories they use.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	LedgerFactory interface {
		InventoryLedger() ports.InventoryLedger
	}

	DirectoryRepoFactory interface {
		DirectoryRepository() ports.DirectoryRepository
	}

	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	ActivityRepoFactory interface {
		ActivityRepository() ports.ActivityRepository
	}

	OutboxFactory interface {
		NotificationOutbox() ports.NotificationOutbox
	}

	// UoW spans every aggregate of an orchestrator operation.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   // ... mutate, cascade, record side effects
	//
	//   return uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		ShipmentRepoFactory
		PaymentRepoFactory
		LedgerFactory
		DirectoryRepoFactory
		CatalogRepoFactory
		ActivityRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}

	// InventoryUoW covers stock administration.
	InventoryUoW interface {
		TxManager
		LedgerFactory
		DirectoryRepoFactory
		CatalogRepoFactory
		ActivityRepoFactory
	}

	InventoryUoWFactory interface {
		Create() InventoryUoW
	}

	// RelayUoW covers the notification relay.
	RelayUoW interface {
		TxManager
		OutboxFactory
	}

	RelayUoWFactory interface {
		Create() RelayUoW
	}
)

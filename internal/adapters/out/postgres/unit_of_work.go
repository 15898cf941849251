// Package postgres provides the GORM-based Unit of Work that every fulfillment operation
// runs in. One unit of work is one database transaction: the inventory ledger, the order,
// shipment and payment aggregates and the activity records all commit or roll back together.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, statusCache)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
//	if err != nil {
//	    return err
//	}
//	// ... mutate, release stock, append history
//
//	return uow.Commit(ctx)
//
// Concurrency:
//   - Transactions run at READ COMMITTED; correctness relies on row locks, not on isolation
//   - Operations that change status lock the order row first and the shipment row second
//   - Stock moves are conditional updates that serialize on the product row
//   - Each goroutine must use its own UnitOfWork instance
package postgres

import (
	"context"
	"database/sql"

	"fulfillment/internal/adapters/out/postgres/activityrepo"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/directoryrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/paymentrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate changed during the unit of work, keyed by the order it
// belongs to.
type trackedAggregate struct {
	OrderID   kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool and one set
// of commit listeners.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	listeners []ports.CommitListener
}

// NewGormUnitOfWorkFactory creates a factory. Listeners are notified after every successful
// commit that changed at least one order.
func NewGormUnitOfWorkFactory(db *gorm.DB, listeners ...ports.CommitListener) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, listeners: listeners}
}

// Create produces a fresh unit of work with its own transaction state and tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		listeners:         f.listeners,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and tracks the orders it changes. Repositories
// handed out after Begin are bound to the transaction; before Begin they use the pool.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	committed         bool
	listeners         []ports.CommitListener
	trackedAggregates []trackedAggregate
}

// Begin starts a READ COMMITTED transaction. Calling it again while a transaction is open
// is a no-op.
//
// Concurrent operations on one order must behave as if run one after another. At this
// isolation level that holds only because every status change takes SELECT ... FOR UPDATE
// on the order row before the shipment row; the sibling sub-order statuses a cascade reads
// are then current. Removing that lock lets two cascades each miss the other's outcome.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	uow.committed = false
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit makes the changes permanent and then hands the changed order ids to the listeners.
// Listener failures cannot undo the commit; listeners handle their own errors.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}
	uow.committed = true

	if ids := uow.changedOrders(); len(ids) > 0 {
		for _, l := range uow.listeners {
			l.AfterCommit(ctx, ids)
		}
	}
	return nil
}

// Rollback discards the transaction. After Commit it does nothing, so handlers can defer it
// unconditionally.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.committed {
		return nil
	}
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) InventoryLedger() ports.InventoryLedger {
	return inventoryrepo.NewGormLedger(uow.conn())
}

func (uow *GormUnitOfWork) DirectoryRepository() ports.DirectoryRepository {
	return directoryrepo.NewGormDirectoryRepository(uow.conn())
}

func (uow *GormUnitOfWork) CatalogRepository() ports.CatalogRepository {
	return catalogrepo.NewGormCatalogRepository(uow.conn())
}

func (uow *GormUnitOfWork) ActivityRepository() ports.ActivityRepository {
	return activityrepo.NewGormActivityRepository(uow.conn())
}

func (uow *GormUnitOfWork) NotificationOutbox() ports.NotificationOutbox {
	return activityrepo.NewGormActivityRepository(uow.conn())
}

// TrackAggregate registers an aggregate changed within this unit of work. Repositories call
// it with the id of the order the aggregate belongs to.
func (uow *GormUnitOfWork) TrackAggregate(orderID kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		OrderID:   orderID,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// changedOrders returns the distinct tracked order ids in tracking order.
func (uow *GormUnitOfWork) changedOrders() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(uow.trackedAggregates))
	ids := make([]kernel.UUID, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		if _, ok := seen[t.OrderID]; ok {
			continue
		}
		seen[t.OrderID] = struct{}{}
		ids = append(ids, t.OrderID)
	}
	return ids
}

package orderrepo

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/adapters/out/postgres/dberr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entity = "order"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker records which orders the current unit of work changed.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order together with its sub-orders and line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap("add order", entity, aggregate.ID().String(), err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order status and the status and shipment link of each sub-order.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"status":     dto.Status,
		"updated_at": dto.UpdatedAt,
	})
	if result.Error != nil {
		return dberr.Wrap("update order", entity, aggregate.ID().String(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(entity, aggregate.ID().String())
	}

	for _, so := range dto.SubOrders {
		result = db.Model(&SubOrderDTO{}).
			Where("id = ? AND order_id = ?", so.ID, dto.ID).
			Updates(map[string]any{
				"status":      so.Status,
				"shipment_id": so.ShipmentID,
			})
		if result.Error != nil {
			return dberr.Wrap("update sub-order", "sub_order", so.ID.String(), result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("sub_order", so.ID.String())
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.load(ctx, id.Bytes())
}

// GetForUpdate locks the order row before loading the aggregate. Sub-order and line item
// rows are only ever changed under this lock, so they are read without one.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var locked uuid.UUID
	err := r.db.WithContext(ctx).
		Raw("SELECT id FROM orders WHERE id = ? FOR UPDATE", id.Bytes()).
		Row().Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError(entity, id.String())
		}
		return nil, dberr.Wrap("lock order", entity, id.String(), err)
	}

	return r.load(ctx, locked)
}

func (r *GormOrderRepository) GetBySubOrderForUpdate(ctx context.Context, subOrderID kernel.UUID) (*order.Order, error) {
	if err := subOrderID.Validate(); err != nil {
		return nil, err
	}

	var locked uuid.UUID
	err := r.db.WithContext(ctx).
		Raw(`SELECT o.id FROM orders o
			JOIN sub_orders so ON so.order_id = o.id
			WHERE so.id = ?
			FOR UPDATE OF o`, subOrderID.Bytes()).
		Row().Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("sub_order", subOrderID.String())
		}
		return nil, dberr.Wrap("lock order by sub-order", "sub_order", subOrderID.String(), err)
	}

	return r.load(ctx, locked)
}

func (r *GormOrderRepository) load(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("SubOrders", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("SubOrders.LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(entity, id.String())
		}
		return nil, dberr.Wrap("get order", entity, id.String(), err)
	}

	return toDomain(dto)
}

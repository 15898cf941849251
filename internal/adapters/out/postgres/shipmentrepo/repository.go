// Package shipmentrepo persists shipments and their tracking points.
package shipmentrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/dberr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entity = "shipment"

// GormShipmentRepository implements ports.ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker records which orders the current unit of work changed. Shipments are
// tracked under their order so that its cached status is refreshed.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := fromDomain(s)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewAlreadyExistsError("shipment", s.SubOrderID().String(),
				"sub-order already has an active shipment")
		}
		return dberr.Wrap("add shipment", entity, s.ID().String(), err)
	}

	r.tracker.TrackAggregate(s.OrderID(), s)
	return nil
}

func (r *GormShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := fromDomain(s)
	result := r.db.WithContext(ctx).Model(&ShipmentDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"driver_id":  dto.DriverID,
		"status":     dto.Status,
		"priority":   dto.Priority,
		"notes":      dto.Notes,
		"updated_at": dto.UpdatedAt,
	})
	if result.Error != nil {
		return dberr.Wrap("update shipment", entity, s.ID().String(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(entity, s.ID().String())
	}

	r.tracker.TrackAggregate(s.OrderID(), s)
	return nil
}

func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	return r.get(ctx, r.db, id)
}

func (r *GormShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

func (r *GormShipmentRepository) HasActiveForSubOrder(ctx context.Context, subOrderID kernel.UUID) (bool, error) {
	if err := subOrderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&ShipmentDTO{}).
		Where("sub_order_id = ? AND status <> ?", subOrderID.Bytes(), shipment.Failed.String()).
		Count(&count).Error
	if err != nil {
		return false, dberr.Wrap("count active shipments", entity, subOrderID.String(), err)
	}
	return count > 0, nil
}

func (r *GormShipmentRepository) AddTrackingPoint(ctx context.Context, point shipment.TrackingPoint) error {
	dto := trackingPointFromDomain(point)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap("add tracking point", "tracking_point", point.ID.String(), err)
	}
	return nil
}

func (r *GormShipmentRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberr.NotFound("get shipment", entity, id.String(), err)
	}

	return toDomain(dto)
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
)

// ShipmentRepository persists shipments and their tracking points.
type ShipmentRepository interface {
	// Add inserts a shipment. A second active shipment for the same sub-order
	// fails with errs.AlreadyExistsError.
	Add(ctx context.Context, s *shipment.Shipment) error

	Update(ctx context.Context, s *shipment.Shipment) error

	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetForUpdate loads and row-locks a shipment. Callers lock the owning order first.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// HasActiveForSubOrder reports whether a non-failed shipment exists for the sub-order.
	HasActiveForSubOrder(ctx context.Context, subOrderID kernel.UUID) (bool, error)

	// AddTrackingPoint appends a geolocation sample.
	AddTrackingPoint(ctx context.Context, point shipment.TrackingPoint) error
}

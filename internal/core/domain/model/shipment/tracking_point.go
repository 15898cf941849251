package shipment

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// TrackingPoint is an append-only geolocation sample of a shipment.
type TrackingPoint struct {
	ID         kernel.UUID
	ShipmentID kernel.UUID
	Point      kernel.GeoPoint
	RecordedBy kernel.UUID
	RecordedAt time.Time
}

// NewTrackingPoint validates the coordinates and stamps the point with the current time.
func NewTrackingPoint(shipmentID, recordedBy kernel.UUID, lat, lng float64) (TrackingPoint, error) {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return TrackingPoint{}, err
	}
	if err := errors.Join(shipmentID.Validate(), recordedBy.Validate()); err != nil {
		return TrackingPoint{}, errs.NewValueIsRequiredErrorWithCause("tracking point", err)
	}

	return TrackingPoint{
		ID:         kernel.NewUUID(),
		ShipmentID: shipmentID,
		Point:      point,
		RecordedBy: recordedBy,
		RecordedAt: time.Now().UTC(),
	}, nil
}

package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAddTrackingPointCommandIsNotConstructed = errors.New(
	"AddTrackingPointCommand must be created via NewAddTrackingPointCommand constructor",
)

// AddTrackingPointCommand appends a geolocation sample to a shipment.
type AddTrackingPointCommand struct {
	principal  identity.Principal
	shipmentID kernel.UUID
	point      kernel.GeoPoint
	guard      guard.ConstructorGuard
}

func NewAddTrackingPointCommand(principal identity.Principal, shipmentID kernel.UUID, lat, lng float64) (AddTrackingPointCommand, error) {
	point, pointErr := kernel.NewGeoPoint(lat, lng)
	if err := errors.Join(principal.Validate(), shipmentID.Validate(), pointErr); err != nil {
		return AddTrackingPointCommand{}, err
	}
	return AddTrackingPointCommand{
		principal:  principal,
		shipmentID: shipmentID,
		point:      point,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AddTrackingPointCommand) Validate() error {
	return c.guard.Validate(ErrAddTrackingPointCommandIsNotConstructed)
}

func (c AddTrackingPointCommand) Principal() identity.Principal { return c.principal }
func (c AddTrackingPointCommand) ShipmentID() kernel.UUID       { return c.shipmentID }
func (c AddTrackingPointCommand) Point() kernel.GeoPoint        { return c.point }

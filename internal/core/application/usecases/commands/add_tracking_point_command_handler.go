package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/shipment"
)

// AddTrackingPointCommandHandler records a tracking point. Platform admins only; the
// shipment status is not touched and only an audit entry is written.
type AddTrackingPointCommandHandler struct {
	uowFactory UoWFactory
}

func NewAddTrackingPointCommandHandler(uowFactory UoWFactory) AddTrackingPointCommandHandler {
	return AddTrackingPointCommandHandler{uowFactory: uowFactory}
}

func (h AddTrackingPointCommandHandler) Handle(ctx context.Context, cmd AddTrackingPointCommand) (shipment.TrackingPoint, error) {
	if err := cmd.Validate(); err != nil {
		return shipment.TrackingPoint{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return shipment.TrackingPoint{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	principal := cmd.Principal()
	if _, err := NewRoleGuard(uow.DirectoryRepository()).RequireRole(ctx, principal, identity.PlatformAdmin); err != nil {
		return shipment.TrackingPoint{}, err
	}

	s, err := uow.ShipmentRepository().Get(ctx, cmd.ShipmentID())
	if err != nil {
		return shipment.TrackingPoint{}, err
	}

	point, err := shipment.NewTrackingPoint(s.ID(), principal.ID(), cmd.Point().Lat(), cmd.Point().Lng())
	if err != nil {
		return shipment.TrackingPoint{}, err
	}

	if err = uow.ShipmentRepository().AddTrackingPoint(ctx, point); err != nil {
		return shipment.TrackingPoint{}, err
	}

	if err = newSideEffects(uow.ActivityRepository(), principal).audit(ctx, "shipment.track", entityShipment, s.ID(),
		map[string]any{"lat": point.Point.Lat(), "lng": point.Point.Lng()},
	); err != nil {
		return shipment.TrackingPoint{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return shipment.TrackingPoint{}, err
	}

	return point, nil
}

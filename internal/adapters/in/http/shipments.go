package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/labstack/echo/v4"
)

// CreateShipment handles POST /api/v1/sub-orders/:id/shipments.
func (s *Server) CreateShipment(c echo.Context) error {
	var req CreateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	subOrderID, err := parseID("sub_order_id", c.Param("id"))
	if err != nil {
		return err
	}
	driverID, driverErr := parseOptionalID("driver_id", req.DriverID)
	originID, originErr := parseOptionalID("origin_address_id", req.OriginAddressID)
	priority, priorityErr := shipment.ParsePriority(req.Priority)
	if err := errors.Join(driverErr, originErr, priorityErr); err != nil {
		return err
	}

	cmd, err := commands.NewCreateShipmentCommand(principalFrom(c), subOrderID, driverID, originID, priority, req.Notes)
	if err != nil {
		return err
	}

	created, err := s.handlers.CreateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toShipmentResponse(created))
}

// UpdateShipment handles PATCH /api/v1/shipments/:id.
func (s *Server) UpdateShipment(c echo.Context) error {
	var req UpdateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	shipmentID, err := parseID("shipment_id", c.Param("id"))
	if err != nil {
		return err
	}

	var changes commands.ShipmentChanges
	var errList []error
	if req.Status != nil {
		status, err := shipment.ParseStatus(*req.Status)
		errList = append(errList, err)
		changes.Status = &status
	}
	if req.Priority != nil {
		priority, err := shipment.ParsePriority(*req.Priority)
		errList = append(errList, err)
		changes.Priority = &priority
	}
	driverID, err := parseOptionalID("driver_id", req.DriverID)
	errList = append(errList, err)
	changes.DriverID = driverID
	changes.Notes = req.Notes
	if err := errors.Join(errList...); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateShipmentCommand(principalFrom(c), shipmentID, changes)
	if err != nil {
		return err
	}

	updated, err := s.handlers.UpdateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(updated))
}

// AssignDriver handles PUT /api/v1/shipments/:id/driver.
func (s *Server) AssignDriver(c echo.Context) error {
	var req AssignDriverRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	shipmentID, err := parseID("shipment_id", c.Param("id"))
	if err != nil {
		return err
	}
	driverID, err := parseID("driver_id", req.DriverID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAssignDriverCommand(principalFrom(c), shipmentID, driverID)
	if err != nil {
		return err
	}

	updated, err := s.handlers.AssignDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(updated))
}

// AddTrackingPoint handles POST /api/v1/shipments/:id/tracking-points.
func (s *Server) AddTrackingPoint(c echo.Context) error {
	var req TrackingPointRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	shipmentID, err := parseID("shipment_id", c.Param("id"))
	if err != nil {
		return err
	}
	cmd, err := commands.NewAddTrackingPointCommand(principalFrom(c), shipmentID, req.Lat, req.Lng)
	if err != nil {
		return err
	}

	point, err := s.handlers.AddTrackingPoint.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTrackingPointResponse(point))
}

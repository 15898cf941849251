// Package http exposes the fulfillment operations over REST with echo. The caller is
// identified by the X-User-ID and X-User-Role headers set by the authentication provider.
package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Handler is any command or query handler.
type Handler[C, R any] interface {
	Handle(ctx context.Context, request C) (R, error)
}

// Handlers are the use cases served by Server.
type Handlers struct {
	CreateOrder          Handler[commands.CreateOrderCommand, *order.Order]
	CancelOrder          Handler[commands.CancelOrderCommand, *order.Order]
	ConfirmPayment       Handler[commands.ConfirmPaymentCommand, *order.Order]
	UpdateSubOrderStatus Handler[commands.UpdateSubOrderStatusCommand, *order.Order]
	CreateShipment       Handler[commands.CreateShipmentCommand, *shipment.Shipment]
	UpdateShipment       Handler[commands.UpdateShipmentCommand, *shipment.Shipment]
	AssignDriver         Handler[commands.AssignDriverCommand, *shipment.Shipment]
	AddTrackingPoint     Handler[commands.AddTrackingPointCommand, shipment.TrackingPoint]
	SetStock             Handler[commands.SetStockCommand, inventory.Record]

	GetOrderStatus  Handler[queries.GetOrderStatusQuery, ports.OrderStatusSnapshot]
	GetOrderHistory Handler[queries.GetOrderHistoryQuery, []queries.GetOrderHistoryQueryResponse]
}

// Server maps HTTP requests onto commands and queries.
type Server struct {
	handlers Handlers
	logger   *zap.Logger
}

func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{handlers: handlers, logger: logger}
}

// NewEcho returns an echo instance with the error handler, middleware and routes installed.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewErrorHandler(s.logger)
	e.Use(Trace())
	e.Use(Observe(s.logger))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{DisableErrorHandler: true}))
	s.Register(e)
	return e
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", Authenticate())

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrderStatus)
	api.GET("/orders/:id/history", s.GetOrderHistory)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/payment/confirm", s.ConfirmPayment)

	api.PUT("/sub-orders/:id/status", s.UpdateSubOrderStatus)
	api.POST("/sub-orders/:id/shipments", s.CreateShipment)

	api.PATCH("/shipments/:id", s.UpdateShipment)
	api.PUT("/shipments/:id/driver", s.AssignDriver)
	api.POST("/shipments/:id/tracking-points", s.AddTrackingPoint)

	api.PUT("/products/:id/stock", s.SetStock)
}

package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func parseID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func parseOptionalID(name string, raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(name, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := newCreateOrderCommand(c, req)
	if err != nil {
		return err
	}

	o, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(o))
}

func newCreateOrderCommand(c echo.Context, req CreateOrderRequest) (commands.CreateOrderCommand, error) {
	var errList []error

	items := make([]commands.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := parseID("product_id", item.ProductID)
		errList = append(errList, err)
		items = append(items, commands.OrderItem{ProductID: productID, Quantity: item.Quantity})
	}

	fees := make(map[kernel.UUID]kernel.Money, len(req.DeliveryFees))
	for rawVendorID, amount := range req.DeliveryFees {
		vendorID, err := parseID("delivery_fees", rawVendorID)
		errList = append(errList, err)
		fees[vendorID] = kernel.Money(amount)
	}

	originID, err := parseOptionalID("origin_address_id", req.OriginAddressID)
	errList = append(errList, err)
	destinationID, err := parseID("destination_address_id", req.DestinationAddressID)
	errList = append(errList, err)
	method, err := payment.ParseMethod(req.PaymentMethod)
	errList = append(errList, err)

	if err := errors.Join(errList...); err != nil {
		return commands.CreateOrderCommand{}, err
	}
	return commands.NewCreateOrderCommand(principalFrom(c), items, originID, destinationID, fees, method)
}

// GetOrderStatus handles GET /api/v1/orders/:id.
func (s *Server) GetOrderStatus(c echo.Context) error {
	orderID, err := parseID("order_id", c.Param("id"))
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderStatusQuery(principalFrom(c), orderID)
	if err != nil {
		return err
	}

	snapshot, err := s.handlers.GetOrderStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetOrderHistory handles GET /api/v1/orders/:id/history.
func (s *Server) GetOrderHistory(c echo.Context) error {
	orderID, err := parseID("order_id", c.Param("id"))
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderHistoryQuery(principalFrom(c), orderID)
	if err != nil {
		return err
	}

	entries, err := s.handlers.GetOrderHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponse(entries))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := parseID("order_id", c.Param("id"))
	if err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(principalFrom(c), orderID)
	if err != nil {
		return err
	}

	o, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// ConfirmPayment handles POST /api/v1/orders/:id/payment/confirm.
func (s *Server) ConfirmPayment(c echo.Context) error {
	orderID, err := parseID("order_id", c.Param("id"))
	if err != nil {
		return err
	}
	cmd, err := commands.NewConfirmPaymentCommand(principalFrom(c), orderID)
	if err != nil {
		return err
	}

	o, err := s.handlers.ConfirmPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// UpdateSubOrderStatus handles PUT /api/v1/sub-orders/:id/status.
func (s *Server) UpdateSubOrderStatus(c echo.Context) error {
	var req UpdateSubOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	subOrderID, err := parseID("sub_order_id", c.Param("id"))
	if err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdateSubOrderStatusCommand(principalFrom(c), subOrderID, status)
	if err != nil {
		return err
	}

	o, err := s.handlers.UpdateSubOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

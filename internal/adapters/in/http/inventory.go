package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

// SetStock handles PUT /api/v1/products/:id/stock.
func (s *Server) SetStock(c echo.Context) error {
	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	productID, err := parseID("product_id", c.Param("id"))
	if err != nil {
		return err
	}
	cmd, err := commands.NewSetStockCommand(principalFrom(c), productID, req.Level)
	if err != nil {
		return err
	}

	record, err := s.handlers.SetStock.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStockResponse(record))
}

package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetInventoryAnomaliesQueryIsNotConstructed = errors.New(
	"GetInventoryAnomaliesQuery must be created via NewGetInventoryAnomaliesQuery constructor",
)

// GetInventoryAnomaliesQuery finds inventory records that break the ledger invariants or
// whose reserved quantity disagrees with the open line items.
//
// Example:
//
//	query := NewGetInventoryAnomaliesQuery()
//	anomalies, err := handler.Handle(ctx, query)
//	for _, a := range anomalies {
//	    logger.Error("inventory anomaly", zap.Stringer("product_id", a.ProductID), zap.Strings("reasons", a.Reasons))
//	}
type GetInventoryAnomaliesQuery struct {
	guard guard.ConstructorGuard
}

func NewGetInventoryAnomaliesQuery() GetInventoryAnomaliesQuery {
	return GetInventoryAnomaliesQuery{guard: guard.NewConstructorGuard()}
}

func (q GetInventoryAnomaliesQuery) Validate() error {
	return q.guard.Validate(ErrGetInventoryAnomaliesQueryIsNotConstructed)
}

// Anomaly reasons.
const (
	ReasonNegativeReserved  = "negative_reserved"
	ReasonNegativeAvailable = "negative_available"
	ReasonUnbalanced        = "available_not_level_minus_reserved"
	ReasonReservationDrift  = "reserved_differs_from_line_items"
)

// GetInventoryAnomaliesQueryResponse describes one inconsistent record. ExpectedReserved is
// the quantity held by line items of sub-orders that are not cancelled.
type GetInventoryAnomaliesQueryResponse struct {
	ProductID        kernel.UUID
	Level            int
	Reserved         int
	Available        int
	ExpectedReserved int
	Reasons          []string
}

package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetInventoryAnomaliesQueryHandler audits the inventory ledger. Delivered sub-orders keep
// their reservation, so only cancelled ones are excluded from the expected quantity.
type GetInventoryAnomaliesQueryHandler struct {
	db *gorm.DB
}

func NewGetInventoryAnomaliesQueryHandler(db *gorm.DB) GetInventoryAnomaliesQueryHandler {
	return GetInventoryAnomaliesQueryHandler{db: db}
}

func (h GetInventoryAnomaliesQueryHandler) Handle(
	ctx context.Context,
	query GetInventoryAnomaliesQuery,
) ([]GetInventoryAnomaliesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.product_id,
			r.level,
			r.reserved,
			r.available,
			COALESCE(e.expected, 0)
		FROM inventory_records r
		LEFT JOIN (
			SELECT li.product_id, SUM(li.quantity) AS expected
			FROM line_items li
			JOIN sub_orders so ON so.id = li.sub_order_id
			WHERE so.status <> ?
			GROUP BY li.product_id
		) e ON e.product_id = r.product_id
		WHERE r.reserved < 0
			OR r.available < 0
			OR r.available <> r.level - r.reserved
			OR r.reserved <> COALESCE(e.expected, 0)
		ORDER BY r.product_id
	`, order.Cancelled.String()).Rows()
	if err != nil {
		return nil, errs.NewDatabaseError("get inventory anomalies", err)
	}
	defer rows.Close()

	anomalies := make([]GetInventoryAnomaliesQueryResponse, 0)
	for rows.Next() {
		var (
			a         GetInventoryAnomaliesQueryResponse
			productID uuid.UUID
		)
		if err = rows.Scan(&productID, &a.Level, &a.Reserved, &a.Available, &a.ExpectedReserved); err != nil {
			return nil, errs.NewDatabaseError("scan inventory anomaly", err)
		}
		if a.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		a.Reasons = reasons(a)
		anomalies = append(anomalies, a)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read inventory anomalies", err)
	}

	return anomalies, nil
}

func reasons(a GetInventoryAnomaliesQueryResponse) []string {
	var out []string
	if a.Reserved < 0 {
		out = append(out, ReasonNegativeReserved)
	}
	if a.Available < 0 {
		out = append(out, ReasonNegativeAvailable)
	}
	if a.Available != a.Level-a.Reserved {
		out = append(out, ReasonUnbalanced)
	}
	if a.Reserved != a.ExpectedReserved {
		out = append(out, ReasonReservationDrift)
	}
	return out
}

package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads the status history in the order it was written.
// Visibility follows GetOrderStatusQueryHandler; the history itself is never cached.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := requireActor(ctx, h.db, query.Principal()); err != nil {
		return nil, err
	}

	snapshot, err := loadSnapshot(ctx, h.db, query.OrderID())
	if err != nil {
		return nil, err
	}
	if err = authorizeRead(query.Principal(), snapshot); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			entity,
			entity_id,
			from_status,
			to_status,
			actor_id,
			created_at
		FROM status_history
		WHERE order_id = ?
		ORDER BY seq
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, errs.NewDatabaseError("get order history", err)
	}
	defer rows.Close()

	history := make([]GetOrderHistoryQueryResponse, 0)
	for rows.Next() {
		var (
			entry             GetOrderHistoryQueryResponse
			entityID, actorID uuid.UUID
			createdAt         time.Time
		)
		if err = rows.Scan(&entry.Entity, &entityID, &entry.FromStatus, &entry.ToStatus, &actorID, &createdAt); err != nil {
			return nil, errs.NewDatabaseError("scan order history", err)
		}

		if entry.EntityID, err = kernel.UUIDFromBytes(entityID[:]); err != nil {
			return nil, err
		}
		if entry.ActorID, err = kernel.UUIDFromBytes(actorID[:]); err != nil {
			return nil, err
		}
		entry.CreatedAt = createdAt
		history = append(history, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read order history", err)
	}

	return history, nil
}

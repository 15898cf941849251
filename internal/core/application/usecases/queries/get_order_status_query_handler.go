package queries

import (
	"context"

	"fulfillment/internal/core/ports"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetOrderStatusQueryHandler serves order status from the status cache and falls back to
// the database on a miss. A miss fills the cache unless the order changed since the miss.
// A failing cache only costs latency: errors are logged and the database answers.
type GetOrderStatusQueryHandler struct {
	db     *gorm.DB
	cache  ports.StatusCache
	logger *zap.Logger
}

// NewGetOrderStatusQueryHandler creates the handler. cache may be nil.
func NewGetOrderStatusQueryHandler(db *gorm.DB, cache ports.StatusCache, logger *zap.Logger) GetOrderStatusQueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return GetOrderStatusQueryHandler{db: db, cache: cache, logger: logger}
}

// Handle returns the snapshot when the principal may read the order.
//
// Returns:
//   - errs.AccessDeniedError: unknown actor, role mismatch, or an order the actor is not part of
//   - errs.ObjectNotFoundError: no such order
func (h GetOrderStatusQueryHandler) Handle(ctx context.Context, query GetOrderStatusQuery) (ports.OrderStatusSnapshot, error) {
	if err := query.Validate(); err != nil {
		return ports.OrderStatusSnapshot{}, err
	}
	if err := requireActor(ctx, h.db, query.Principal()); err != nil {
		return ports.OrderStatusSnapshot{}, err
	}

	snapshot, err := h.snapshot(ctx, query)
	if err != nil {
		return ports.OrderStatusSnapshot{}, err
	}
	if err = authorizeRead(query.Principal(), snapshot); err != nil {
		return ports.OrderStatusSnapshot{}, err
	}
	return snapshot, nil
}

func (h GetOrderStatusQueryHandler) snapshot(ctx context.Context, query GetOrderStatusQuery) (ports.OrderStatusSnapshot, error) {
	fill := false
	var generation int64
	if h.cache != nil {
		cached, gen, err := h.cache.Get(ctx, query.OrderID())
		switch {
		case err != nil:
			h.logger.Warn("status cache read failed", zap.Stringer("order_id", query.OrderID()), zap.Error(err))
		case cached != nil:
			return *cached, nil
		default:
			fill, generation = true, gen
		}
	}

	snapshot, err := loadSnapshot(ctx, h.db, query.OrderID())
	if err != nil {
		return ports.OrderStatusSnapshot{}, err
	}

	if fill {
		stored, err := h.cache.Set(ctx, snapshot, generation)
		switch {
		case err != nil:
			h.logger.Warn("status cache write failed", zap.Stringer("order_id", query.OrderID()), zap.Error(err))
		case !stored:
			h.logger.Debug("status cache write skipped, order changed meanwhile", zap.Stringer("order_id", query.OrderID()))
		}
	}
	return snapshot, nil
}

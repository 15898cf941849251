package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
)

// PaymentRepository persists the payment of each order.
type PaymentRepository interface {
	Add(ctx context.Context, p *payment.Payment) error
	Update(ctx context.Context, p *payment.Payment) error
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)
}

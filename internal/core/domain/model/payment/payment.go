// Package payment models the single payment attached to an order.
package payment

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Status is the lifecycle state of a payment.
type Status string

const (
	Pending  Status = "pending"
	Paid     Status = "paid"
	Failed   Status = "failed"
	Refunded Status = "refunded"
)

// Method is how the customer intends to pay.
type Method string

const (
	Card           Method = "card"
	Wallet         Method = "wallet"
	BankTransfer   Method = "bank_transfer"
	CashOnDelivery Method = "cash_on_delivery"
)

var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")

// ParseMethod validates a payment method received from a caller.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m Method) Validate() error {
	switch m {
	case Card, Wallet, BankTransfer, CashOnDelivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment_method", fmt.Errorf("%q is not supported", string(m)))
	}
}

func (s Status) Validate() error {
	switch s {
	case Pending, Paid, Failed, Refunded:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

// Payment belongs to exactly one order. Amount is fixed at checkout.
type Payment struct {
	id        kernel.UUID
	orderID   kernel.UUID
	amount    kernel.Money
	method    Method
	status    Status
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewPayment creates a pending payment for an order.
func NewPayment(orderID kernel.UUID, amount kernel.Money, method Method) (*Payment, error) {
	return RestorePayment(kernel.NewUUID(), orderID, amount, method, Pending, time.Now().UTC())
}

// RestorePayment rebuilds a persisted payment.
func RestorePayment(id, orderID kernel.UUID, amount kernel.Money, method Method, status Status, updatedAt time.Time) (*Payment, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		amount.Validate(),
		method.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Payment{
		id:        id,
		orderID:   orderID,
		amount:    amount,
		method:    method,
		status:    status,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p *Payment) ID() kernel.UUID      { return p.id }
func (p *Payment) OrderID() kernel.UUID { return p.orderID }
func (p *Payment) Amount() kernel.Money { return p.amount }
func (p *Payment) Method() Method       { return p.method }
func (p *Payment) Status() Status       { return p.status }
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }

// MarkPaid confirms a pending payment.
func (p *Payment) MarkPaid() error {
	if p.status != Pending {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("cannot mark a %s payment as paid", p.status))
	}
	p.set(Paid)
	return nil
}

// Void settles the payment of a cancelled order: paid becomes refunded and pending becomes
// failed. Payments already failed or refunded are left unchanged.
//
// Returns the previous status and whether anything changed.
func (p *Payment) Void() (Status, bool) {
	from := p.status
	switch p.status {
	case Paid:
		p.set(Refunded)
	case Pending:
		p.set(Failed)
	default:
		return from, false
	}
	return from, true
}

func (p *Payment) set(s Status) {
	p.status = s
	p.updatedAt = time.Now().UTC()
}

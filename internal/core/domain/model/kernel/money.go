package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is an amount in integer minor currency units (cents). Negative amounts are never valid.
type Money int64

// NewMoney validates that amount is not negative.
func NewMoney(paramName string, amount int64) (Money, error) {
	m := Money(amount)
	if err := m.validate(paramName); err != nil {
		return 0, err
	}
	return m, nil
}

// Validate rejects negative amounts.
func (m Money) Validate() error {
	return m.validate("amount")
}

func (m Money) validate(paramName string) error {
	if m < 0 {
		return errs.NewValueIsInvalidErrorWithCause(paramName, fmt.Errorf("%d is negative", int64(m)))
	}
	return nil
}

// Times multiplies a unit amount by a quantity.
func (m Money) Times(quantity int) Money {
	return m * Money(quantity)
}

// Int64 returns the raw minor-unit value.
func (m Money) Int64() int64 {
	return int64(m)
}

// Package inventory describes the stock ledger entry of a product.
package inventory

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Record is a snapshot of one product's stock.
//
// Invariants held by every writer: Available == Level - Reserved, Reserved >= 0, Available >= 0.
type Record struct {
	ProductID kernel.UUID
	Level     int
	Reserved  int
	Available int
}

// Validate checks the ledger invariants of the snapshot.
func (r Record) Validate() error {
	switch {
	case r.Reserved < 0:
		return errs.NewValueIsInvalidErrorWithCause("reserved", fmt.Errorf("%d is negative", r.Reserved))
	case r.Available < 0:
		return errs.NewValueIsInvalidErrorWithCause("available", fmt.Errorf("%d is negative", r.Available))
	case r.Available != r.Level-r.Reserved:
		return errs.NewValueIsInvalidErrorWithCause(
			"available",
			fmt.Errorf("%d != level %d - reserved %d", r.Available, r.Level, r.Reserved),
		)
	}
	return nil
}

// ValidateQuantity rejects reservation quantities that are not positive.
func ValidateQuantity(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", qty))
	}
	return nil
}

// Package catalog is the fulfillment view of the external product catalog: the owning vendor,
// the unit price and the shipping weight of a product.
package catalog

import "fulfillment/internal/core/domain/model/kernel"

type Product struct {
	ID          kernel.UUID
	VendorID    kernel.UUID
	Name        string
	UnitPrice   kernel.Money
	WeightGrams int
}

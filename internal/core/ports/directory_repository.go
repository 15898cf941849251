package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
)

// DirectoryRepository reads actors, vendor stores, addresses and driver associations
// maintained by the surrounding platform. Missing entries yield errs.ObjectNotFoundError.
type DirectoryRepository interface {
	GetActor(ctx context.Context, id kernel.UUID) (identity.Actor, error)
	GetVendor(ctx context.Context, id kernel.UUID) (identity.Vendor, error)
	GetAddress(ctx context.Context, id kernel.UUID) (identity.Address, error)

	// IsDriverAssociated reports whether the driver was pre-associated with the vendor.
	IsDriverAssociated(ctx context.Context, vendorID, driverID kernel.UUID) (bool, error)
}

// CatalogRepository resolves the owning vendor, price and weight of a product.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id kernel.UUID) (catalog.Product, error)
}

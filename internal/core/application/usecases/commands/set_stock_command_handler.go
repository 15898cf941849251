package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/inventory"
)

// SetStockCommandHandler lets a vendor restock its own products, or a platform admin any
// product. The new level cannot drop below what is currently reserved.
type SetStockCommandHandler struct {
	uowFactory InventoryUoWFactory
}

func NewSetStockCommandHandler(uowFactory InventoryUoWFactory) SetStockCommandHandler {
	return SetStockCommandHandler{uowFactory: uowFactory}
}

func (h SetStockCommandHandler) Handle(ctx context.Context, cmd SetStockCommand) (inventory.Record, error) {
	if err := cmd.Validate(); err != nil {
		return inventory.Record{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return inventory.Record{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	principal := cmd.Principal()
	roles := NewRoleGuard(uow.DirectoryRepository())
	actor, err := roles.RequireRole(ctx, principal, identity.VendorOwner, identity.PlatformAdmin)
	if err != nil {
		return inventory.Record{}, err
	}

	product, err := uow.CatalogRepository().GetProduct(ctx, cmd.ProductID())
	if err != nil {
		return inventory.Record{}, err
	}
	if actor.Role == identity.VendorOwner {
		if _, err = roles.RequireVendorOwnership(ctx, principal, product.VendorID); err != nil {
			return inventory.Record{}, err
		}
	}

	ledger := uow.InventoryLedger()
	if err = ledger.Stock(ctx, product.ID, cmd.Level()); err != nil {
		return inventory.Record{}, err
	}
	record, err := ledger.Get(ctx, product.ID)
	if err != nil {
		return inventory.Record{}, err
	}

	if err = newSideEffects(uow.ActivityRepository(), principal).audit(ctx, "inventory.stock", entityProduct, product.ID,
		map[string]any{"level": record.Level, "reserved": record.Reserved, "available": record.Available},
	); err != nil {
		return inventory.Record{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return inventory.Record{}, err
	}

	return record, nil
}


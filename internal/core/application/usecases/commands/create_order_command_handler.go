package commands

import (
	"context"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"
)

// CreateOrderCommandHandler places an order: it reserves stock for every item, splits the
// items into one sub-order per vendor and persists the order with a pending payment.
// If any reservation fails the unit of work rolls back and no reservation survives.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory}
}

// Handle runs the checkout. Returns the pending order.
//
// Errors:
//   - errs.AccessDeniedError: principal is not a customer or does not own the destination
//   - errs.ObjectNotFoundError: unknown product, vendor or address
//   - errs.InsufficientStockError: a reservation exceeded available stock
//   - errs.ValueIsInvalidError: delivery fee quoted for a vendor that has no items
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	principal := cmd.Principal()
	roles := NewRoleGuard(uow.DirectoryRepository())
	if _, err := roles.RequireRole(ctx, principal, identity.Customer); err != nil {
		return nil, err
	}

	if err := h.checkAddresses(ctx, uow, cmd); err != nil {
		return nil, err
	}

	products, err := h.resolveProducts(ctx, uow, cmd.Items())
	if err != nil {
		return nil, err
	}

	vendorIDs, itemsByVendor, err := groupByVendor(cmd.Items(), products)
	if err != nil {
		return nil, err
	}
	for vendorID := range cmd.DeliveryFees() {
		if _, ok := itemsByVendor[vendorID]; !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"delivery_fee",
				fmt.Errorf("vendor %s has no items in this order", vendorID),
			)
		}
	}

	if err = reserveAll(ctx, uow, cmd.Items()); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(kernel.NewUUID(), principal.ID(), cmd.OriginID(), cmd.DestinationID())
	if err != nil {
		return nil, err
	}

	vendorOwners := make(map[kernel.UUID]kernel.UUID, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		vendor, err := uow.DirectoryRepository().GetVendor(ctx, vendorID)
		if err != nil {
			return nil, err
		}
		vendorOwners[vendorID] = vendor.OwnerID

		if _, err = o.AddSubOrder(vendorID, cmd.DeliveryFee(vendorID), itemsByVendor[vendorID]); err != nil {
			return nil, err
		}
	}

	transitions, err := o.Placed()
	if err != nil {
		return nil, err
	}

	pay, err := payment.NewPayment(o.ID(), o.Total(), cmd.PaymentMethod())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.PaymentRepository().Add(ctx, pay); err != nil {
		return nil, err
	}

	effects := newSideEffects(uow.ActivityRepository(), principal)
	if err = effects.record(ctx, "order.create", orderChanges(o, transitions)...); err != nil {
		return nil, err
	}
	for _, so := range o.SubOrders() {
		msg := fmt.Sprintf("new sub-order %s with %d item(s)", so.ID(), len(so.Items()))
		if err = effects.notify(ctx, vendorOwners[so.VendorID()], o.ID(), "sub_order.received", msg); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func (h CreateOrderCommandHandler) checkAddresses(ctx context.Context, uow UoW, cmd CreateOrderCommand) error {
	directory := uow.DirectoryRepository()

	dest, err := directory.GetAddress(ctx, cmd.DestinationID())
	if err != nil {
		return err
	}
	if !dest.OwnerID.IsEqual(cmd.Principal().ID()) {
		return errs.NewAccessDeniedError(cmd.Principal().ID().String(), "destination address belongs to another user")
	}

	if cmd.OriginID() != nil {
		if _, err = directory.GetAddress(ctx, *cmd.OriginID()); err != nil {
			return err
		}
	}
	return nil
}

func (h CreateOrderCommandHandler) resolveProducts(
	ctx context.Context,
	uow UoW,
	items []OrderItem,
) (map[kernel.UUID]catalog.Product, error) {
	products := make(map[kernel.UUID]catalog.Product, len(items))
	for _, item := range items {
		p, err := uow.CatalogRepository().GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		products[item.ProductID] = p
	}
	return products, nil
}

// groupByVendor builds the line items of each vendor. Vendors keep the order in which
// they first appear in the request.
func groupByVendor(
	items []OrderItem,
	products map[kernel.UUID]catalog.Product,
) ([]kernel.UUID, map[kernel.UUID][]*order.LineItem, error) {
	var vendorIDs []kernel.UUID
	byVendor := make(map[kernel.UUID][]*order.LineItem)

	for _, item := range items {
		p := products[item.ProductID]
		li, err := order.NewLineItem(item.ProductID, item.Quantity, p.UnitPrice)
		if err != nil {
			return nil, nil, err
		}

		if _, ok := byVendor[p.VendorID]; !ok {
			vendorIDs = append(vendorIDs, p.VendorID)
		}
		byVendor[p.VendorID] = append(byVendor[p.VendorID], li)
	}

	return vendorIDs, byVendor, nil
}

// reserveAll reserves every item in product id order, so that two checkouts sharing
// products lock ledger rows in the same order.
func reserveAll(ctx context.Context, uow UoW, items []OrderItem) error {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b OrderItem) int {
		return compareUUID(a.ProductID, b.ProductID)
	})

	ledger := uow.InventoryLedger()
	for _, item := range sorted {
		if err := ledger.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

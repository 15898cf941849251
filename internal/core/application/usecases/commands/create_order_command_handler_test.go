package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkout struct {
	customer identity.Principal
	address  identity.Address
	vendorA  identity.Vendor
	vendorB  identity.Vendor
	productA catalog.Product
	productB catalog.Product
}

// newCheckout registers a customer with an address and two vendors selling one product each.
// productA sorts before productB.
func newCheckout(t *testing.T, f *fixture) checkout {
	t.Helper()
	ctx := t.Context()

	c := checkout{customer: f.actor(t, identity.Customer)}
	c.address = identity.Address{ID: kernel.NewUUID(), OwnerID: c.customer.ID()}
	f.directory.On("GetAddress", ctx, c.address.ID).Return(c.address, nil).Maybe()

	c.vendorA = f.vendorOf(t, f.actor(t, identity.VendorOwner))
	c.vendorB = f.vendorOf(t, f.actor(t, identity.VendorOwner))

	c.productA = catalog.Product{ID: kernel.MustUUID("00000000-0000-4000-8000-00000000000a"), VendorID: c.vendorA.ID, UnitPrice: 1000}
	c.productB = catalog.Product{ID: kernel.MustUUID("00000000-0000-4000-8000-00000000000b"), VendorID: c.vendorB.ID, UnitPrice: 2000}
	f.catalog.On("GetProduct", ctx, c.productA.ID).Return(c.productA, nil).Maybe()
	f.catalog.On("GetProduct", ctx, c.productB.ID).Return(c.productB, nil).Maybe()
	return c
}

func (c checkout) command(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		c.customer,
		[]commands.OrderItem{{ProductID: c.productB.ID, Quantity: 3}, {ProductID: c.productA.ID, Quantity: 5}},
		nil,
		c.address.ID,
		map[kernel.UUID]kernel.Money{c.vendorA.ID: 500, c.vendorB.ID: 300},
		payment.Card,
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	c := newCheckout(t, f)

	mock.InOrder(
		f.ledger.On("Reserve", ctx, c.productA.ID, 5).Return(nil).Once(),
		f.ledger.On("Reserve", ctx, c.productB.ID, 3).Return(nil).Once(),
		f.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		f.payments.On("Add", ctx, mock.MatchedBy(func(p *payment.Payment) bool {
			return p.Status() == payment.Pending && p.Amount() == kernel.Money(5500+6300)
		})).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateOrderCommandHandler(f.factory)
	o, err := handler.Handle(ctx, c.command(t))

	require.NoError(t, err)
	assert.Equal(t, order.Pending, o.Status())
	require.Len(t, o.SubOrders(), 2)
	assert.True(t, o.SubOrders()[0].VendorID().IsEqual(c.vendorB.ID), "vendors keep request order")
	assert.Equal(t, kernel.Money(6300), o.SubOrders()[0].Total())
	assert.Equal(t, kernel.Money(5500), o.SubOrders()[1].Total())

	// 3 creation transitions, each with history + notification + audit, plus one vendor notice per sub-order.
	f.activity.AssertNumberOfCalls(t, "AppendHistory", 3)
	f.activity.AssertNumberOfCalls(t, "AppendNotification", 5)
	f.activity.AssertNumberOfCalls(t, "AppendAudit", 3)
	f.assertAll(t)
}

func TestCreateOrderCommandHandler_Handle_InsufficientStockRollsBack(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	c := newCheckout(t, f)

	f.ledger.On("Reserve", ctx, c.productA.ID, 5).Return(nil).Once()
	f.ledger.On("Reserve", ctx, c.productB.ID, 3).
		Return(errs.NewInsufficientStockError(c.productB.ID.String(), 3, 2)).Once()

	handler := commands.NewCreateOrderCommandHandler(f.factory)
	o, err := handler.Handle(ctx, c.command(t))

	require.Error(t, err)
	assert.Nil(t, o)
	var stockErr *errs.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Available)

	f.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.activity.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.assertAll(t)
}

func TestCreateOrderCommandHandler_Handle_RequiresCustomer(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	c := newCheckout(t, f)
	c.customer = f.actor(t, identity.VendorOwner)

	handler := commands.NewCreateOrderCommandHandler(f.factory)
	_, err := handler.Handle(ctx, c.command(t))

	assert.True(t, errors.Is(err, errs.ErrAuthorization))
	f.ledger.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_ForeignDestination(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	c := newCheckout(t, f)
	c.address = identity.Address{ID: kernel.NewUUID(), OwnerID: kernel.NewUUID()}
	f.directory.On("GetAddress", ctx, c.address.ID).Return(c.address, nil).Once()

	handler := commands.NewCreateOrderCommandHandler(f.factory)
	_, err := handler.Handle(ctx, c.command(t))

	assert.True(t, errors.Is(err, errs.ErrAuthorization))
	f.ledger.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_FeeForUnknownVendor(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	c := newCheckout(t, f)

	cmd, err := commands.NewCreateOrderCommand(
		c.customer,
		[]commands.OrderItem{{ProductID: c.productA.ID, Quantity: 1}},
		nil,
		c.address.ID,
		map[kernel.UUID]kernel.Money{c.vendorB.ID: 300},
		payment.Wallet,
	)
	require.NoError(t, err)

	_, err = commands.NewCreateOrderCommandHandler(f.factory).Handle(ctx, cmd)

	assert.True(t, errors.Is(err, errs.ErrValidation))
	f.ledger.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInventoryUoWFactory struct{ mock.Mock }

func (m *MockInventoryUoWFactory) Create() commands.InventoryUoW {
	return m.Called().Get(0).(commands.InventoryUoW)
}

func inventoryFactory(f *fixture) *MockInventoryUoWFactory {
	factory := new(MockInventoryUoWFactory)
	factory.On("Create").Return(f.uow).Once()
	return factory
}

func TestSetStockCommandHandler_Handle(t *testing.T) {
	t.Run("vendor restocks its own product", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		owner := f.actor(t, identity.VendorOwner)
		vendor := f.vendorOf(t, owner)
		product := catalog.Product{ID: kernel.NewUUID(), VendorID: vendor.ID, UnitPrice: 100}
		f.catalog.On("GetProduct", ctx, product.ID).Return(product, nil).Once()

		record := inventory.Record{ProductID: product.ID, Level: 10, Reserved: 4, Available: 6}
		f.ledger.On("Stock", ctx, product.ID, 10).Return(nil).Once()
		f.ledger.On("Get", ctx, product.ID).Return(record, nil).Once()
		f.expectCommit(t)

		cmd, err := commands.NewSetStockCommand(owner, product.ID, 10)
		require.NoError(t, err)

		got, err := commands.NewSetStockCommandHandler(inventoryFactory(f)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, record, got)
		f.activity.AssertNumberOfCalls(t, "AppendAudit", 1)
		f.ledger.AssertExpectations(t)
		f.uow.AssertExpectations(t)
	})

	t.Run("admin stocks any product", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		admin := f.actor(t, identity.PlatformAdmin)
		product := catalog.Product{ID: kernel.NewUUID(), VendorID: kernel.NewUUID(), UnitPrice: 100}
		f.catalog.On("GetProduct", ctx, product.ID).Return(product, nil).Once()
		f.ledger.On("Stock", ctx, product.ID, 0).Return(nil).Once()
		f.ledger.On("Get", ctx, product.ID).Return(inventory.Record{ProductID: product.ID}, nil).Once()
		f.expectCommit(t)

		cmd, err := commands.NewSetStockCommand(admin, product.ID, 0)
		require.NoError(t, err)

		_, err = commands.NewSetStockCommandHandler(inventoryFactory(f)).Handle(ctx, cmd)

		require.NoError(t, err)
		f.directory.AssertNotCalled(t, "GetVendor", mock.Anything, mock.Anything)
	})

	t.Run("level below reserved is rejected by the ledger", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		owner := f.actor(t, identity.VendorOwner)
		vendor := f.vendorOf(t, owner)
		product := catalog.Product{ID: kernel.NewUUID(), VendorID: vendor.ID, UnitPrice: 100}
		f.catalog.On("GetProduct", ctx, product.ID).Return(product, nil).Once()
		f.ledger.On("Stock", ctx, product.ID, 1).
			Return(errs.NewValueIsOutOfRangeError("level", 1, 3, nil)).Once()

		cmd, err := commands.NewSetStockCommand(owner, product.ID, 1)
		require.NoError(t, err)

		_, err = commands.NewSetStockCommandHandler(inventoryFactory(f)).Handle(ctx, cmd)

		assert.True(t, errors.Is(err, errs.ErrValidation))
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("vendor cannot stock another store", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		owner := f.actor(t, identity.VendorOwner)
		vendor := f.vendorOf(t, f.actor(t, identity.VendorOwner))
		product := catalog.Product{ID: kernel.NewUUID(), VendorID: vendor.ID, UnitPrice: 100}
		f.catalog.On("GetProduct", ctx, product.ID).Return(product, nil).Once()

		cmd, err := commands.NewSetStockCommand(owner, product.ID, 5)
		require.NoError(t, err)

		_, err = commands.NewSetStockCommandHandler(inventoryFactory(f)).Handle(ctx, cmd)

		assert.True(t, errors.Is(err, errs.ErrAuthorization))
		f.ledger.AssertNotCalled(t, "Stock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("negative level", func(t *testing.T) {
		_, err := commands.NewSetStockCommand(customerPrincipal(t), kernel.NewUUID(), -1)
		assert.True(t, errors.Is(err, errs.ErrValueIsInvalid))
	})
}

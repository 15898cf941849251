package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmPaymentCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	admin := f.actor(t, identity.PlatformAdmin)
	o := placedOrder(t, f.actor(t, identity.Customer), 1,
		f.vendorOf(t, f.actor(t, identity.VendorOwner)), f.vendorOf(t, f.actor(t, identity.VendorOwner)))
	pay, err := payment.NewPayment(o.ID(), o.Total(), payment.Card)
	require.NoError(t, err)

	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.payments.On("GetByOrder", ctx, o.ID()).Return(pay, nil).Once()
	f.payments.On("Update", ctx, pay).Return(nil).Once()
	f.orders.On("Update", ctx, o).Return(nil).Once()
	f.expectCommit(t)

	cmd, err := commands.NewConfirmPaymentCommand(admin, o.ID())
	require.NoError(t, err)

	got, err := commands.NewConfirmPaymentCommandHandler(f.factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, payment.Paid, pay.Status())
	assert.Equal(t, order.InProgress, got.Status())
	for _, so := range got.SubOrders() {
		assert.Equal(t, order.InProgress, so.Status())
	}
	// payment, two sub-orders and the order.
	f.activity.AssertNumberOfCalls(t, "AppendHistory", 4)
	f.assertAll(t)
}

func TestConfirmPaymentCommandHandler_Handle_AlreadyPaid(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	admin := f.actor(t, identity.PlatformAdmin)
	o := placedOrder(t, f.actor(t, identity.Customer), 1, f.vendorOf(t, f.actor(t, identity.VendorOwner)))
	pay, err := payment.NewPayment(o.ID(), o.Total(), payment.Card)
	require.NoError(t, err)
	require.NoError(t, pay.MarkPaid())

	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	f.payments.On("GetByOrder", ctx, o.ID()).Return(pay, nil).Once()

	cmd, err := commands.NewConfirmPaymentCommand(admin, o.ID())
	require.NoError(t, err)

	_, err = commands.NewConfirmPaymentCommandHandler(f.factory).Handle(ctx, cmd)

	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.Equal(t, order.Pending, o.Status())
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestConfirmPaymentCommandHandler_Handle_RequiresAdmin(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	customer := f.actor(t, identity.Customer)
	o := placedOrder(t, customer, 1, f.vendorOf(t, f.actor(t, identity.VendorOwner)))

	cmd, err := commands.NewConfirmPaymentCommand(customer, o.ID())
	require.NoError(t, err)

	_, err = commands.NewConfirmPaymentCommandHandler(f.factory).Handle(ctx, cmd)

	assert.True(t, errors.Is(err, errs.ErrAuthorization))
	f.orders.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

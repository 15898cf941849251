package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerPrincipal(t *testing.T) identity.Principal {
	t.Helper()
	p, err := identity.NewPrincipal(kernel.NewUUID(), identity.Customer)
	require.NoError(t, err)
	return p
}

func TestNewCreateOrderCommand(t *testing.T) {
	product := kernel.NewUUID()
	vendor := kernel.NewUUID()
	dest := kernel.NewUUID()
	items := []commands.OrderItem{{ProductID: product, Quantity: 2}}

	t.Run("valid input", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(customerPrincipal(t), items, nil, dest,
			map[kernel.UUID]kernel.Money{vendor: 250}, payment.CashOnDelivery)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, kernel.Money(250), cmd.DeliveryFee(vendor))
		assert.Equal(t, kernel.Money(0), cmd.DeliveryFee(kernel.NewUUID()))
		assert.Equal(t, payment.CashOnDelivery, cmd.PaymentMethod())
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customerPrincipal(t), nil, nil, dest, nil, payment.Card)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customerPrincipal(t),
			[]commands.OrderItem{{ProductID: product, Quantity: 0}}, nil, dest, nil, payment.Card)
		assert.ErrorContains(t, err, "items[0].quantity")
	})

	t.Run("duplicate product", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customerPrincipal(t),
			[]commands.OrderItem{{ProductID: product, Quantity: 1}, {ProductID: product, Quantity: 1}},
			nil, dest, nil, payment.Card)
		assert.ErrorContains(t, err, "listed twice")
	})

	t.Run("negative fee and unknown method", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(customerPrincipal(t), items, nil, dest,
			map[kernel.UUID]kernel.Money{vendor: -1}, payment.Method("iou"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "delivery_fee")
		assert.ErrorContains(t, err, "payment_method")
	})

	t.Run("zero value command is rejected", func(t *testing.T) {
		var cmd commands.CreateOrderCommand
		assert.Equal(t, commands.ErrCreateOrderCommandIsNotConstructed, cmd.Validate())
	})
}

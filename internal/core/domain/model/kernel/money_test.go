package kernel_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := kernel.NewMoney("unit_price", 1250)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), m.Int64())

	zero, err := kernel.NewMoney("unit_price", 0)
	require.NoError(t, err)
	assert.NoError(t, zero.Validate())

	_, err = kernel.NewMoney("unit_price", -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValueIsInvalid))
	assert.Contains(t, err.Error(), "unit_price")
}

func TestMoney_Times(t *testing.T) {
	assert.Equal(t, kernel.Money(3750), kernel.Money(1250).Times(3))
	assert.Equal(t, kernel.Money(0), kernel.Money(1250).Times(0))
}

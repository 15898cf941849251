package order_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []order.Status{
		order.Pending, order.InProgress, order.Delivered, order.Cancelled, order.PartiallyFulfilled,
	} {
		parsed, err := order.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := order.ParseStatus("shipped")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))

	_, err = order.ParseStatus("unknown")
	assert.Error(t, err)
}

func TestStatus_Validate(t *testing.T) {
	assert.NoError(t, order.Pending.Validate())
	assert.Error(t, order.Unknown.Validate())
	assert.Error(t, order.Status(42).Validate())
	assert.Equal(t, "unknown", order.Status(42).String())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.InProgress.IsTerminal())
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.True(t, order.PartiallyFulfilled.IsTerminal())

	assert.True(t, order.Pending.IsOpen())
	assert.False(t, order.Cancelled.IsOpen())
}

func TestStatus_TransitionTo(t *testing.T) {
	tests := []struct {
		from    order.Status
		to      order.Status
		wantErr error
	}{
		{order.Pending, order.InProgress, nil},
		{order.Pending, order.Cancelled, nil},
		{order.InProgress, order.Delivered, nil},
		{order.InProgress, order.Cancelled, nil},
		{order.Pending, order.Delivered, errs.ErrValidation},
		{order.Pending, order.Pending, errs.ErrValidation},
		{order.InProgress, order.PartiallyFulfilled, errs.ErrValidation},
		{order.Delivered, order.Cancelled, errs.ErrValidation},
		{order.Delivered, order.InProgress, errs.ErrValidation},
		{order.Cancelled, order.Cancelled, errs.ErrAlreadyExists},
		{order.Cancelled, order.InProgress, errs.ErrValidation},
		{order.Pending, order.Unknown, errs.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			next, err := tt.from.TransitionTo(tt.to)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, order.Unknown, next)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, next)
		})
	}
}

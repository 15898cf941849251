package dberr_test

import (
	"context"
	"errors"
	"testing"

	"fulfillment/internal/adapters/out/postgres/dberr"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap("op", "order", "1", nil))

	dup := dberr.Wrap("insert shipment", "shipment", "42", gorm.ErrDuplicatedKey)
	assert.True(t, errors.Is(dup, errs.ErrAlreadyExists))

	check := dberr.Wrap("stock", "inventory", "7", gorm.ErrCheckConstraintViolated)
	assert.True(t, errors.Is(check, errs.ErrValidation))

	known := errs.NewInsufficientStockError("p", 2, 1)
	assert.Same(t, known, dberr.Wrap("reserve", "inventory", "p", known))

	unknown := dberr.Wrap("update order", "order", "1", context.DeadlineExceeded)
	var dbErr *errs.DatabaseError
	assert.True(t, errors.As(unknown, &dbErr))
	assert.Equal(t, "update order", dbErr.Op)
	assert.True(t, errors.Is(unknown, context.DeadlineExceeded))
}

func TestNotFound(t *testing.T) {
	err := dberr.NotFound("get order", "order", "abc", gorm.ErrRecordNotFound)

	var notFound *errs.ObjectNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, "abc", notFound.ID)

	assert.True(t, errors.Is(dberr.NotFound("get order", "order", "abc", errors.New("boom")), errs.ErrDatabase))
}

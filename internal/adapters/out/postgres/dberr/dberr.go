// Package dberr maps GORM failures onto the errs taxonomy. Repositories configure their
// connection with gorm.Config{TranslateError: true} so that constraint violations arrive
// as gorm sentinels.
package dberr

import (
	"errors"

	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// Wrap classifies err for operation op.
//
// Mapping:
//   - nil stays nil
//   - errors already in the taxonomy pass through
//   - duplicate keys become errs.AlreadyExistsError for entity/id
//   - check constraint violations become errs.ValueIsInvalidError
//   - everything else becomes errs.DatabaseError
func Wrap(op, entity, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case classified(err):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.NewAlreadyExistsError(entity, id, "violates a unique constraint")
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return errs.NewValueIsInvalidErrorWithCause(entity, err)
	default:
		return errs.NewDatabaseError(op, err)
	}
}

// NotFound turns gorm.ErrRecordNotFound into errs.ObjectNotFoundError and wraps the rest.
func NotFound(op, entity, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(entity, id)
	}
	return Wrap(op, entity, id, err)
}

func classified(err error) bool {
	return errs.Code(err) != errs.CodeInternal
}

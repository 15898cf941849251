package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Category sentinels. Every typed error below unwraps to exactly one of them,
// so callers can classify failures with errors.Is without knowing the concrete type.
var (
	ErrValidation        = errors.New("validation error")
	ErrAuthorization     = errors.New("authorization error")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyExists     = errors.New("already exists")
	ErrDatabase          = errors.New("database error")
)

// Detail sentinels, each belonging to one category above.
var (
	ErrObjectNotFound    = &categorized{msg: "object not found", category: ErrNotFound}
	ErrValueIsInvalid    = &categorized{msg: "value is invalid", category: ErrValidation}
	ErrValueIsOutOfRange = &categorized{msg: "value is out of range", category: ErrValidation}
	ErrValueIsRequired   = &categorized{msg: "value is required", category: ErrValidation}
	ErrAccessDenied      = &categorized{msg: "access denied", category: ErrAuthorization}
)

// categorized is a sentinel that also matches its category sentinel.
type categorized struct {
	msg      string
	category error
}

func (c *categorized) Error() string { return c.msg }

func (c *categorized) Unwrap() error { return c.category }

// Stable codes surfaced to callers.
const (
	CodeValidation        = "validation_error"
	CodeAuthorization     = "authorization_error"
	CodeNotFound          = "not_found"
	CodeInsufficientStock = "insufficient_stock"
	CodeAlreadyExists     = "already_exists"
	CodeDatabase          = "database_error"
	CodeInternal          = "internal_error"
)

// Code maps an error onto the stable code of its category.
// Unclassified errors are reported as CodeInternal.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrAuthorization):
		return CodeAuthorization
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrDatabase):
		return CodeDatabase
	default:
		return CodeInternal
	}
}

// ObjectNotFoundError reports a referenced entity that does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %v)", ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a malformed input value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %v, min value is %v, max value is %v",
		ErrValueIsOutOfRange, e.ParamName, sanitize(e.Value), e.Min, e.Max)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// AccessDeniedError reports a wrong role or a failed ownership check.
type AccessDeniedError struct {
	ActorID string
	Reason  string
}

func NewAccessDeniedError(actorID, reason string) *AccessDeniedError {
	return &AccessDeniedError{ActorID: actorID, Reason: reason}
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s: actor %s: %s", ErrAccessDenied, e.ActorID, e.Reason)
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// InsufficientStockError reports a reservation that exceeds the available quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func NewInsufficientStockError(productID string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s, requested %d, available %d",
		ErrInsufficientStock, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// AlreadyExistsError reports a duplicate entity or a repeated terminal transition.
type AlreadyExistsError struct {
	Entity string
	ID     string
	Reason string
}

func NewAlreadyExistsError(entity, id, reason string) *AlreadyExistsError {
	return &AlreadyExistsError{Entity: entity, ID: id, Reason: reason}
}

func (e *AlreadyExistsError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s %s: %s", ErrAlreadyExists, e.Entity, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrAlreadyExists, e.Entity, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// DatabaseError wraps an unexpected persistence failure. The original cause
// stays reachable through errors.Is / errors.As.
type DatabaseError struct {
	Op    string
	Cause error
}

func NewDatabaseError(op string, cause error) *DatabaseError {
	return &DatabaseError{Op: op, Cause: cause}
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDatabase, e.Op, e.Cause)
}

func (e *DatabaseError) Unwrap() []error {
	return []error{ErrDatabase, e.Cause}
}

// Details returns the structured detail of a classified error, suitable for
// serialising next to its code. Unknown errors yield nil.
func Details(err error) map[string]any {
	var (
		notFound     *ObjectNotFoundError
		outOfRange   *ValueIsOutOfRangeError
		invalid      *ValueIsInvalidError
		required     *ValueIsRequiredError
		insufficient *InsufficientStockError
		exists       *AlreadyExistsError
		denied       *AccessDeniedError
	)

	switch {
	case errors.As(err, &insufficient):
		return map[string]any{
			"product_id": insufficient.ProductID,
			"requested":  insufficient.Requested,
			"available":  insufficient.Available,
		}
	case errors.As(err, &notFound):
		return map[string]any{"param": notFound.ParamName, "id": fmt.Sprint(notFound.ID)}
	case errors.As(err, &outOfRange):
		return map[string]any{"param": outOfRange.ParamName, "min": outOfRange.Min, "max": outOfRange.Max}
	case errors.As(err, &invalid):
		return map[string]any{"param": invalid.ParamName}
	case errors.As(err, &required):
		return map[string]any{"param": required.ParamName}
	case errors.As(err, &exists):
		return map[string]any{"entity": exists.Entity, "id": exists.ID}
	case errors.As(err, &denied):
		return map[string]any{"actor_id": denied.ActorID}
	default:
		return nil
	}
}

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprint(v), "\n", " ")
}

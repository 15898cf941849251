// Package errs provides the error taxonomy shared by the fulfillment service.
//
// Every error surfaced by the core belongs to exactly one category, exposed as a
// sentinel that works with errors.Is:
//   - ErrValidation: malformed input, negative amounts, unknown enum values, illegal transitions
//   - ErrAuthorization: wrong role or failed ownership check
//   - ErrNotFound: referenced order, sub-order, shipment, driver, address or product is absent
//   - ErrInsufficientStock: a reservation exceeds the available quantity
//   - ErrAlreadyExists: duplicate shipment, repeated cancellation
//   - ErrDatabase: unexpected persistence failure, with the original cause attached
//
// Typed errors (ValueIsInvalidError, ObjectNotFoundError, InsufficientStockError, ...) carry
// the structured detail. Code and Details turn any error into the code + detail pair that the
// transport layer returns to callers.
package errs

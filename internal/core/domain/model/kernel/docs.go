// Package kernel provides the shared value objects of the fulfillment domain.
//
// The package includes:
//   - UUID: identifier of every entity and aggregate
//   - Money: a non-negative amount in integer minor currency units
//   - GeoPoint: a validated latitude/longitude pair used by shipment tracking
//
// All values are immutable. Zero values of UUID and GeoPoint are invalid and fail Validate,
// so an uninitialised field is caught at the aggregate boundary.
package kernel

// Package services contains domain services that coordinate several aggregates.
//
// StatusCascade propagates terminal sub-order outcomes (and therefore terminal shipment
// outcomes) upward to the owning order, using a pluggable CascadePolicy to decide the
// order's final status once no sibling sub-order is still open.
package services

// Package shipment contains the Shipment aggregate: the physical delivery unit of one
// sub-order, tracked from dispatch to a terminal Delivered or Failed status.
package shipment

// Package queries contains the read side: order status, order history and inventory
// anomalies. Handlers read with plain SQL through GORM and never change state.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// requireActor checks that the principal is a known actor holding the asserted role.
// It runs before any order data is read.
func requireActor(ctx context.Context, db *gorm.DB, p identity.Principal) error {
	var role string
	err := db.WithContext(ctx).
		Raw("SELECT role FROM actors WHERE id = ?", p.ID().Bytes()).
		Row().Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NewAccessDeniedError(p.ID().String(), "unknown actor")
		}
		return errs.NewDatabaseError("get actor role", err)
	}
	if role != p.Role().String() {
		return errs.NewAccessDeniedError(p.ID().String(), "role does not match the directory")
	}
	return nil
}

// authorizeRead lets the customer, the owners of the involved stores, the assigned drivers
// and platform roles read an order.
func authorizeRead(p identity.Principal, snapshot ports.OrderStatusSnapshot) error {
	id := p.ID().String()
	switch p.Role() {
	case identity.PlatformAdmin, identity.FleetManager:
		return nil
	case identity.Customer:
		if snapshot.CustomerID == id {
			return nil
		}
	case identity.VendorOwner:
		if slices.Contains(snapshot.VendorOwnerIDs, id) {
			return nil
		}
	case identity.Driver:
		if slices.Contains(snapshot.DriverIDs, id) {
			return nil
		}
	}
	return errs.NewAccessDeniedError(id, "order is not visible to this actor")
}

// loadSnapshot builds the status read model of one order.
func loadSnapshot(ctx context.Context, db *gorm.DB, orderID kernel.UUID) (ports.OrderStatusSnapshot, error) {
	var (
		id, customerID        uuid.UUID
		status, paymentStatus string
		updatedAt             time.Time
	)
	err := db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.customer_id,
			o.status,
			COALESCE(p.status, ''),
			o.updated_at
		FROM orders o
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.id = ?
	`, orderID.Bytes()).Row().Scan(&id, &customerID, &status, &paymentStatus, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.OrderStatusSnapshot{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return ports.OrderStatusSnapshot{}, errs.NewDatabaseError("get order status", err)
	}

	snapshot := ports.OrderStatusSnapshot{
		OrderID:        id.String(),
		CustomerID:     customerID.String(),
		Status:         status,
		PaymentStatus:  paymentStatus,
		VendorOwnerIDs: make([]string, 0),
		SubOrders:      make([]ports.SubOrderSnapshot, 0),
		UpdatedAt:      updatedAt,
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			so.id,
			so.vendor_id,
			v.owner_id,
			so.status,
			s.id,
			s.driver_id
		FROM sub_orders so
		JOIN vendors v ON v.id = so.vendor_id
		LEFT JOIN shipments s ON s.id = so.shipment_id
		WHERE so.order_id = ?
		ORDER BY so.position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return ports.OrderStatusSnapshot{}, errs.NewDatabaseError("get sub-order statuses", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			subOrderID, vendorID, ownerID uuid.UUID
			subOrderStatus                string
			shipmentID, driverID          uuid.NullUUID
		)
		if err = rows.Scan(&subOrderID, &vendorID, &ownerID, &subOrderStatus, &shipmentID, &driverID); err != nil {
			return ports.OrderStatusSnapshot{}, errs.NewDatabaseError("scan sub-order status", err)
		}

		so := ports.SubOrderSnapshot{
			ID:       subOrderID.String(),
			VendorID: vendorID.String(),
			Status:   subOrderStatus,
		}
		if shipmentID.Valid {
			so.ShipmentID = shipmentID.UUID.String()
		}
		snapshot.SubOrders = append(snapshot.SubOrders, so)

		if owner := ownerID.String(); !slices.Contains(snapshot.VendorOwnerIDs, owner) {
			snapshot.VendorOwnerIDs = append(snapshot.VendorOwnerIDs, owner)
		}
		if driverID.Valid {
			if driver := driverID.UUID.String(); !slices.Contains(snapshot.DriverIDs, driver) {
				snapshot.DriverIDs = append(snapshot.DriverIDs, driver)
			}
		}
	}
	if err = rows.Err(); err != nil {
		return ports.OrderStatusSnapshot{}, errs.NewDatabaseError("read sub-order statuses", err)
	}

	return snapshot, nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RoleGuard authorizes a principal before any mutation or privileged read.
// It reads the directory through the caller's unit of work.
type RoleGuard struct {
	directory ports.DirectoryRepository
}

func NewRoleGuard(directory ports.DirectoryRepository) RoleGuard {
	return RoleGuard{directory: directory}
}

// RequireRole loads the actor behind the principal and checks its role.
//
// Returns errs.AccessDeniedError when:
//   - the actor does not exist
//   - the stored role differs from the role asserted by the principal
//   - the role is not one of allowed
func (g RoleGuard) RequireRole(ctx context.Context, p identity.Principal, allowed ...identity.Role) (identity.Actor, error) {
	if err := p.Validate(); err != nil {
		return identity.Actor{}, err
	}

	actor, err := g.directory.GetActor(ctx, p.ID())
	if errors.Is(err, errs.ErrNotFound) {
		return identity.Actor{}, errs.NewAccessDeniedError(p.ID().String(), "unknown actor")
	}
	if err != nil {
		return identity.Actor{}, err
	}

	if actor.Role != p.Role() {
		return identity.Actor{}, errs.NewAccessDeniedError(
			p.ID().String(),
			fmt.Sprintf("asserted role %s does not match stored role %s", p.Role(), actor.Role),
		)
	}
	if !slices.Contains(allowed, actor.Role) {
		return identity.Actor{}, errs.NewAccessDeniedError(
			p.ID().String(),
			fmt.Sprintf("role %s is not allowed", actor.Role),
		)
	}

	return actor, nil
}

// RequireVendorOwnership checks that the principal manages the vendor store.
func (g RoleGuard) RequireVendorOwnership(ctx context.Context, p identity.Principal, vendorID kernel.UUID) (identity.Vendor, error) {
	vendor, err := g.directory.GetVendor(ctx, vendorID)
	if err != nil {
		return identity.Vendor{}, err
	}
	if !vendor.IsOwnedBy(p.ID()) {
		return identity.Vendor{}, errs.NewAccessDeniedError(p.ID().String(), "vendor store belongs to another owner")
	}
	return vendor, nil
}

// RequireShipmentAccess lets platform roles through and otherwise requires vendor ownership.
func (g RoleGuard) RequireShipmentAccess(ctx context.Context, p identity.Principal, vendorID kernel.UUID) error {
	if p.Role().IsPlatform() {
		return nil
	}
	_, err := g.RequireVendorOwnership(ctx, p, vendorID)
	return err
}

// RequireOrderOwnership checks that the principal placed the order.
func (g RoleGuard) RequireOrderOwnership(p identity.Principal, o *order.Order) error {
	if !o.CustomerID().IsEqual(p.ID()) {
		return errs.NewAccessDeniedError(p.ID().String(), "order belongs to another customer")
	}
	return nil
}

// RequireDriverAssociation checks that driverID is a driver pre-associated with the vendor.
//
// Returns:
//   - errs.ObjectNotFoundError when the driver does not exist
//   - errs.ValueIsInvalidError when the actor is not a driver
//   - errs.AccessDeniedError when the driver is not associated with the vendor
func (g RoleGuard) RequireDriverAssociation(ctx context.Context, vendorID, driverID kernel.UUID) error {
	driver, err := g.directory.GetActor(ctx, driverID)
	if err != nil {
		return err
	}
	if driver.Role != identity.Driver {
		return errs.NewValueIsInvalidErrorWithCause("driver_id", fmt.Errorf("actor %s is a %s", driverID, driver.Role))
	}

	associated, err := g.directory.IsDriverAssociated(ctx, vendorID, driverID)
	if err != nil {
		return err
	}
	if !associated {
		return errs.NewAccessDeniedError(driverID.String(), "driver is not associated with the vendor")
	}
	return nil
}

// Package identity holds the actors of the fulfillment domain as supplied by the external
// directory: users with a role, vendor stores, and addresses.
package identity

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Role is the role an actor holds in the marketplace.
type Role string

const (
	Customer      Role = "customer"
	VendorOwner   Role = "vendor"
	Driver        Role = "driver"
	FleetManager  Role = "fleet_manager"
	PlatformAdmin Role = "platform_admin"
)

// ParseRole validates a role name received from the authentication provider.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case Customer, VendorOwner, Driver, FleetManager, PlatformAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// IsPlatform reports roles that act on behalf of the platform rather than a store.
func (r Role) IsPlatform() bool {
	return r == PlatformAdmin || r == FleetManager
}

func (r Role) String() string {
	return string(r)
}

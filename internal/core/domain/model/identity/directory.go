package identity

import "fulfillment/internal/core/domain/model/kernel"

// Actor is a registered user and the role stored for it.
type Actor struct {
	ID   kernel.UUID
	Role Role
	Name string
}

// Vendor is a store. OwnerID is the actor with the vendor role that manages it,
// AddressID is the default shipment origin.
type Vendor struct {
	ID        kernel.UUID
	OwnerID   kernel.UUID
	AddressID kernel.UUID
	Name      string
}

// IsOwnedBy reports whether actorID manages the store.
func (v Vendor) IsOwnedBy(actorID kernel.UUID) bool {
	return v.OwnerID.IsEqual(actorID)
}

// Address is a postal address owned by an actor (customer or vendor owner).
type Address struct {
	ID      kernel.UUID
	OwnerID kernel.UUID
	Label   string
}

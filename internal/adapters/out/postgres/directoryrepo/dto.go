package directoryrepo

import (
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ActorDTO is the actors table.
type ActorDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role string    `gorm:"type:varchar(32);not null"`
	Name string    `gorm:"type:varchar(255);not null"`
}

func (ActorDTO) TableName() string {
	return "actors"
}

// VendorDTO is the vendors table.
type VendorDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	AddressID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
}

func (VendorDTO) TableName() string {
	return "vendors"
}

// AddressDTO is the addresses table.
type AddressDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label   string    `gorm:"type:varchar(255);not null"`
}

func (AddressDTO) TableName() string {
	return "addresses"
}

// VendorDriverDTO is the vendor_drivers association table.
type VendorDriverDTO struct {
	VendorID uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (VendorDriverDTO) TableName() string {
	return "vendor_drivers"
}

func actorToDomain(dto ActorDTO) (identity.Actor, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return identity.Actor{}, err
	}
	role, err := identity.ParseRole(dto.Role)
	if err != nil {
		return identity.Actor{}, err
	}
	return identity.Actor{ID: id, Role: role, Name: dto.Name}, nil
}

func vendorToDomain(dto VendorDTO) (identity.Vendor, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return identity.Vendor{}, err
	}
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return identity.Vendor{}, err
	}
	addressID, err := kernel.UUIDFromBytes(dto.AddressID[:])
	if err != nil {
		return identity.Vendor{}, err
	}
	return identity.Vendor{ID: id, OwnerID: ownerID, AddressID: addressID, Name: dto.Name}, nil
}

func addressToDomain(dto AddressDTO) (identity.Address, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return identity.Address{}, err
	}
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return identity.Address{}, err
	}
	return identity.Address{ID: id, OwnerID: ownerID, Label: dto.Label}, nil
}

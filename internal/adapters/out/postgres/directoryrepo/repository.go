// Package directoryrepo reads the actors, vendor stores, addresses and driver associations
// that the surrounding platform maintains. The writers exist for provisioning.
package directoryrepo

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/dberr"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDirectoryRepository implements ports.DirectoryRepository using GORM.
type GormDirectoryRepository struct {
	db *gorm.DB
}

func NewGormDirectoryRepository(db *gorm.DB) *GormDirectoryRepository {
	return &GormDirectoryRepository{db: db}
}

func (r *GormDirectoryRepository) GetActor(ctx context.Context, id kernel.UUID) (identity.Actor, error) {
	if err := id.Validate(); err != nil {
		return identity.Actor{}, err
	}

	var dto ActorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return identity.Actor{}, dberr.NotFound("get actor", "actor", id.String(), err)
	}
	return actorToDomain(dto)
}

func (r *GormDirectoryRepository) GetVendor(ctx context.Context, id kernel.UUID) (identity.Vendor, error) {
	if err := id.Validate(); err != nil {
		return identity.Vendor{}, err
	}

	var dto VendorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return identity.Vendor{}, dberr.NotFound("get vendor", "vendor", id.String(), err)
	}
	return vendorToDomain(dto)
}

func (r *GormDirectoryRepository) GetAddress(ctx context.Context, id kernel.UUID) (identity.Address, error) {
	if err := id.Validate(); err != nil {
		return identity.Address{}, err
	}

	var dto AddressDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return identity.Address{}, dberr.NotFound("get address", "address", id.String(), err)
	}
	return addressToDomain(dto)
}

func (r *GormDirectoryRepository) IsDriverAssociated(ctx context.Context, vendorID, driverID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&VendorDriverDTO{}).
		Where("vendor_id = ? AND driver_id = ?", vendorID.Bytes(), driverID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, dberr.Wrap("check driver association", "vendor_driver", driverID.String(), err)
	}
	return count > 0, nil
}

func (r *GormDirectoryRepository) AddActor(ctx context.Context, actor identity.Actor) error {
	if err := actor.Role.Validate(); err != nil {
		return err
	}

	dto := ActorDTO{ID: actor.ID.Bytes(), Role: actor.Role.String(), Name: actor.Name}
	return dberr.Wrap("add actor", "actor", actor.ID.String(), r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormDirectoryRepository) AddVendor(ctx context.Context, vendor identity.Vendor) error {
	dto := VendorDTO{
		ID:        vendor.ID.Bytes(),
		OwnerID:   vendor.OwnerID.Bytes(),
		AddressID: vendor.AddressID.Bytes(),
		Name:      vendor.Name,
	}
	return dberr.Wrap("add vendor", "vendor", vendor.ID.String(), r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormDirectoryRepository) AddAddress(ctx context.Context, address identity.Address) error {
	dto := AddressDTO{ID: address.ID.Bytes(), OwnerID: address.OwnerID.Bytes(), Label: address.Label}
	return dberr.Wrap("add address", "address", address.ID.String(), r.db.WithContext(ctx).Create(&dto).Error)
}

// AssociateDriver lets the driver carry the vendor's shipments. Repeating it is harmless.
func (r *GormDirectoryRepository) AssociateDriver(ctx context.Context, vendorID, driverID kernel.UUID) error {
	dto := VendorDriverDTO{VendorID: vendorID.Bytes(), DriverID: driverID.Bytes()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
	return dberr.Wrap("associate driver", "vendor_driver", driverID.String(), err)
}

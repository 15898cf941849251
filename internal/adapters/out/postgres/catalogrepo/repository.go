// Package catalogrepo reads products, their owning vendor, price and weight.
package catalogrepo

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/dberr"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductDTO is the products table.
type ProductDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	UnitPrice   int64     `gorm:"not null;check:chk_products_unit_price,unit_price >= 0"`
	WeightGrams int       `gorm:"not null;default:0"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// GormCatalogRepository implements ports.CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetProduct(ctx context.Context, id kernel.UUID) (catalog.Product, error) {
	if err := id.Validate(); err != nil {
		return catalog.Product{}, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return catalog.Product{}, dberr.NotFound("get product", "product", id.String(), err)
	}

	productID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return catalog.Product{}, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return catalog.Product{}, err
	}

	return catalog.Product{
		ID:          productID,
		VendorID:    vendorID,
		Name:        dto.Name,
		UnitPrice:   kernel.Money(dto.UnitPrice),
		WeightGrams: dto.WeightGrams,
	}, nil
}

func (r *GormCatalogRepository) AddProduct(ctx context.Context, p catalog.Product) error {
	if err := p.UnitPrice.Validate(); err != nil {
		return err
	}

	dto := ProductDTO{
		ID:          p.ID.Bytes(),
		VendorID:    p.VendorID.Bytes(),
		Name:        p.Name,
		UnitPrice:   p.UnitPrice.Int64(),
		WeightGrams: p.WeightGrams,
	}
	return dberr.Wrap("add product", "product", p.ID.String(), r.db.WithContext(ctx).Create(&dto).Error)
}

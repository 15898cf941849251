// Package inventoryrepo is the PostgreSQL inventory ledger. Stock moves are single
// conditional UPDATE statements, so concurrent reservations of one product serialize on
// its row and can never push available below zero.
package inventoryrepo

import (
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RecordDTO is the inventory_records table. The check constraints back the ledger
// invariants independently of the statements below.
type RecordDTO struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Level     int       `gorm:"not null;check:chk_inventory_balance,available = level - reserved"`
	Reserved  int       `gorm:"not null;default:0;check:chk_inventory_reserved,reserved >= 0"`
	Available int       `gorm:"not null;check:chk_inventory_available,available >= 0"`
}

func (RecordDTO) TableName() string {
	return "inventory_records"
}

func toDomain(dto RecordDTO) (inventory.Record, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return inventory.Record{}, err
	}
	return inventory.Record{
		ProductID: productID,
		Level:     dto.Level,
		Reserved:  dto.Reserved,
		Available: dto.Available,
	}, nil
}

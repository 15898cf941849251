package inventoryrepo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/adapters/out/postgres/dberr"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

const entity = "inventory"

// GormLedger implements ports.InventoryLedger.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// Reserve moves qty from available to reserved when enough is available. When no row
// matches it reads the record to tell a missing product from a short one.
func (l *GormLedger) Reserve(ctx context.Context, productID kernel.UUID, qty int) error {
	if err := validate(productID, qty); err != nil {
		return err
	}

	result := l.db.WithContext(ctx).Exec(
		`UPDATE inventory_records
		SET reserved = reserved + ?, available = available - ?
		WHERE product_id = ? AND available >= ?`,
		qty, qty, productID.Bytes(), qty,
	)
	if result.Error != nil {
		return dberr.Wrap("reserve stock", entity, productID.String(), result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	record, err := l.Get(ctx, productID)
	if err != nil {
		return err
	}
	return errs.NewInsufficientStockError(productID.String(), qty, record.Available)
}

// Release returns qty from reserved to available.
func (l *GormLedger) Release(ctx context.Context, productID kernel.UUID, qty int) error {
	if err := validate(productID, qty); err != nil {
		return err
	}

	result := l.db.WithContext(ctx).Exec(
		`UPDATE inventory_records
		SET reserved = reserved - ?, available = available + ?
		WHERE product_id = ? AND reserved >= ?`,
		qty, qty, productID.Bytes(), qty,
	)
	if result.Error != nil {
		return dberr.Wrap("release stock", entity, productID.String(), result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	record, err := l.Get(ctx, productID)
	if err != nil {
		return err
	}
	return errs.NewValueIsInvalidErrorWithCause(
		"release quantity",
		fmt.Errorf("releasing %d exceeds reserved %d of product %s", qty, record.Reserved, productID),
	)
}

func (l *GormLedger) Get(ctx context.Context, productID kernel.UUID) (inventory.Record, error) {
	if err := productID.Validate(); err != nil {
		return inventory.Record{}, err
	}

	var dto RecordDTO
	err := l.db.WithContext(ctx).First(&dto, "product_id = ?", productID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.Record{}, errs.NewObjectNotFoundError("product", productID.String())
		}
		return inventory.Record{}, dberr.Wrap("get stock", entity, productID.String(), err)
	}

	return toDomain(dto)
}

// Stock sets the owned level and recomputes available from the current reservations.
// The conflict branch only applies when the new level still covers what is reserved.
func (l *GormLedger) Stock(ctx context.Context, productID kernel.UUID, level int) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	if level < 0 {
		return errs.NewValueIsOutOfRangeError("level", level, 0, math.MaxInt)
	}

	result := l.db.WithContext(ctx).Exec(
		`INSERT INTO inventory_records (product_id, level, reserved, available)
		VALUES (?, ?, 0, ?)
		ON CONFLICT (product_id) DO UPDATE
		SET level = EXCLUDED.level, available = EXCLUDED.level - inventory_records.reserved
		WHERE EXCLUDED.level >= inventory_records.reserved`,
		productID.Bytes(), level, level,
	)
	if result.Error != nil {
		return dberr.Wrap("set stock", entity, productID.String(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"level",
			fmt.Errorf("%d is below the reserved quantity of product %s", level, productID),
		)
	}
	return nil
}

func validate(productID kernel.UUID, qty int) error {
	return errors.Join(productID.Validate(), inventory.ValidateQuantity(qty))
}

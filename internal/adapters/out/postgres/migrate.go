package postgres

import (
	"fmt"
	"strings"

	"fulfillment/internal/adapters/out/postgres/activityrepo"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/directoryrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/paymentrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Tables lists every persisted model in dependency order.
func Tables() []any {
	return []any{
		&directoryrepo.ActorDTO{},
		&directoryrepo.AddressDTO{},
		&directoryrepo.VendorDTO{},
		&directoryrepo.VendorDriverDTO{},
		&catalogrepo.ProductDTO{},
		&inventoryrepo.RecordDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.SubOrderDTO{},
		&orderrepo.LineItemDTO{},
		&paymentrepo.PaymentDTO{},
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.TrackingPointDTO{},
		&activityrepo.HistoryDTO{},
		&activityrepo.NotificationDTO{},
		&activityrepo.DeliveryDTO{},
		&activityrepo.AuditDTO{},
	}
}

// Open connects to PostgreSQL. TranslateError turns unique and check constraint violations
// into gorm sentinels that the repositories classify.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Truncate empties every table. It is meant for test suites sharing one database.
func Truncate(db *gorm.DB) error {
	names := make([]string, 0, len(Tables()))
	for _, t := range Tables() {
		names = append(names, t.(schema.Tabler).TableName())
	}
	return db.Exec("TRUNCATE TABLE " + strings.Join(names, ", ") + " RESTART IDENTITY").Error
}

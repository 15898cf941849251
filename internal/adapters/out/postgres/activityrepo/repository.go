// Package activityrepo appends status history, notifications and audit records, and serves
// the notifications table as a transactional outbox.
package activityrepo

import (
	"context"
	"time"

	"fulfillment/internal/adapters/out/postgres/dberr"
	"fulfillment/internal/core/domain/model/activity"
	"fulfillment/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormActivityRepository implements ports.ActivityRepository and ports.NotificationOutbox.
type GormActivityRepository struct {
	db *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) AppendHistory(ctx context.Context, entry activity.HistoryEntry) error {
	dto := historyFromDomain(entry)
	return dberr.Wrap("append history", "history", entry.ID.String(), r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormActivityRepository) AppendNotification(ctx context.Context, n activity.Notification) error {
	dto := notificationFromDomain(n)
	return dberr.Wrap("append notification", "notification", n.ID.String(), r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormActivityRepository) AppendAudit(ctx context.Context, entry activity.AuditEntry) error {
	dto := auditFromDomain(entry)
	return dberr.Wrap("append audit", "audit", entry.ID.String(), r.db.WithContext(ctx).Create(&dto).Error)
}

// Lock takes a transaction-scoped advisory lock keyed by the consumer name.
func (r *GormActivityRepository) Lock(ctx context.Context, consumer string) error {
	err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", consumer).Error
	return dberr.Wrap("lock outbox", "consumer", consumer, err)
}

func (r *GormActivityRepository) ListPending(ctx context.Context, consumer string, limit int) ([]activity.Notification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Where(`NOT EXISTS (
			SELECT 1 FROM notification_deliveries d
			WHERE d.notification_id = notifications.id AND d.consumer = ?
		)`, consumer).
		Order("seq").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, dberr.Wrap("list pending notifications", "consumer", consumer, err)
	}

	result := make([]activity.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, convErr := notificationToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		result = append(result, n)
	}
	return result, nil
}

func (r *GormActivityRepository) MarkRelayed(ctx context.Context, consumer string, ids []kernel.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	now := time.Now().UTC()
	deliveries := make([]DeliveryDTO, 0, len(ids))
	for _, id := range ids {
		deliveries = append(deliveries, DeliveryDTO{
			Consumer:       consumer,
			NotificationID: id.Bytes(),
			RelayedAt:      now,
		})
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&deliveries).Error
	return dberr.Wrap("mark notifications relayed", "consumer", consumer, err)
}

package activityrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/activity"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// HistoryDTO is the status_history table. Seq orders entries written in the same instant.
type HistoryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int64     `gorm:"autoIncrement;not null;uniqueIndex"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Entity     string    `gorm:"type:varchar(32);not null"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null"`
	FromStatus string    `gorm:"type:varchar(32);not null;default:''"`
	ToStatus   string    `gorm:"type:varchar(32);not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime:false"`
}

func (HistoryDTO) TableName() string {
	return "status_history"
}

// NotificationDTO is the notifications table, which doubles as the outbox.
type NotificationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq         int64     `gorm:"autoIncrement;not null;uniqueIndex"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        string    `gorm:"type:varchar(64);not null"`
	Message     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

// DeliveryDTO is the notification_deliveries table: one row per notification a consumer
// has relayed.
type DeliveryDTO struct {
	Consumer       string    `gorm:"type:varchar(64);primaryKey"`
	NotificationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RelayedAt      time.Time `gorm:"not null;autoCreateTime:false"`
}

func (DeliveryDTO) TableName() string {
	return "notification_deliveries"
}

// AuditDTO is the audit_log table.
type AuditDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ActorID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	ActorRole string         `gorm:"type:varchar(32);not null"`
	Action    string         `gorm:"type:varchar(64);not null"`
	Entity    string         `gorm:"type:varchar(32);not null"`
	EntityID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Details   map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime:false"`
}

func (AuditDTO) TableName() string {
	return "audit_log"
}

func historyFromDomain(e activity.HistoryEntry) HistoryDTO {
	return HistoryDTO{
		ID:         e.ID.Bytes(),
		OrderID:    e.OrderID.Bytes(),
		Entity:     e.Entity,
		EntityID:   e.EntityID.Bytes(),
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		ActorID:    e.ActorID.Bytes(),
		CreatedAt:  e.CreatedAt,
	}
}

func notificationFromDomain(n activity.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID.Bytes(),
		RecipientID: n.RecipientID.Bytes(),
		OrderID:     n.OrderID.Bytes(),
		Kind:        n.Kind,
		Message:     n.Message,
		CreatedAt:   n.CreatedAt,
	}
}

func notificationToDomain(dto NotificationDTO) (activity.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return activity.Notification{}, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return activity.Notification{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return activity.Notification{}, err
	}
	return activity.Notification{
		ID:          id,
		Seq:         dto.Seq,
		RecipientID: recipientID,
		OrderID:     orderID,
		Kind:        dto.Kind,
		Message:     dto.Message,
		CreatedAt:   dto.CreatedAt,
	}, nil
}

func auditFromDomain(e activity.AuditEntry) AuditDTO {
	return AuditDTO{
		ID:        e.ID.Bytes(),
		ActorID:   e.ActorID.Bytes(),
		ActorRole: e.ActorRole,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID.Bytes(),
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
}

// Package activity holds the append-only records written next to every state change:
// status history, user notifications and the audit log.
package activity

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// HistoryEntry records one status change of an order, sub-order or shipment.
type HistoryEntry struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	Entity     string
	EntityID   kernel.UUID
	FromStatus string
	ToStatus   string
	ActorID    kernel.UUID
	CreatedAt  time.Time
}

// Notification is a message for one user. Seq is assigned by storage on insert and
// gives notifications a total order for relaying.
type Notification struct {
	ID          kernel.UUID
	Seq         int64
	RecipientID kernel.UUID
	OrderID     kernel.UUID
	Kind        string
	Message     string
	CreatedAt   time.Time
}

// AuditEntry records who did what to which entity.
type AuditEntry struct {
	ID        kernel.UUID
	ActorID   kernel.UUID
	ActorRole string
	Action    string
	Entity    string
	EntityID  kernel.UUID
	Details   map[string]any
	CreatedAt time.Time
}

func NewHistoryEntry(orderID kernel.UUID, entity string, entityID kernel.UUID, from, to string, actorID kernel.UUID) HistoryEntry {
	return HistoryEntry{
		ID:         kernel.NewUUID(),
		OrderID:    orderID,
		Entity:     entity,
		EntityID:   entityID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		CreatedAt:  time.Now().UTC(),
	}
}

func NewNotification(recipientID, orderID kernel.UUID, kind, message string) Notification {
	return Notification{
		ID:          kernel.NewUUID(),
		RecipientID: recipientID,
		OrderID:     orderID,
		Kind:        kind,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
}

func NewAuditEntry(actorID kernel.UUID, role, action, entity string, entityID kernel.UUID, details map[string]any) AuditEntry {
	return AuditEntry{
		ID:        kernel.NewUUID(),
		ActorID:   actorID,
		ActorRole: role,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/activity"
	"fulfillment/internal/core/domain/model/kernel"
)

// ActivityRepository appends history, notification and audit records. Records are never
// updated or deleted, and they share the transaction of the state change they describe.
type ActivityRepository interface {
	AppendHistory(ctx context.Context, entry activity.HistoryEntry) error
	AppendNotification(ctx context.Context, n activity.Notification) error
	AppendAudit(ctx context.Context, entry activity.AuditEntry) error
}

// NotificationOutbox reads notifications in sequence order for relaying and records which
// ones each consumer has relayed. The notifications themselves are never modified.
type NotificationOutbox interface {
	// Lock makes the caller the only relayer of consumer until the transaction ends.
	Lock(ctx context.Context, consumer string) error

	// ListPending returns up to limit notifications not yet relayed to consumer, ordered by Seq.
	// Notifications committed late with a lower Seq are still returned.
	ListPending(ctx context.Context, consumer string, limit int) ([]activity.Notification, error)

	MarkRelayed(ctx context.Context, consumer string, ids []kernel.UUID) error
}

// NotificationPublisher delivers notifications to the messaging system.
type NotificationPublisher interface {
	Publish(ctx context.Context, notifications []activity.Notification) error
}

package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// newCron runs schedules with a seconds field and skips a tick while the previous one
// is still running.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	notificationRelayJob *NotificationRelayJob
	inventoryAuditJob    *InventoryAuditJob
}

// NewJobManager wires the relay and audit jobs to their handlers.
func NewJobManager(
	relay relayHandler,
	consumer string,
	batchSize int,
	anomalies anomaliesHandler,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		notificationRelayJob: NewNotificationRelayJob(relay, consumer, batchSize, logger),
		inventoryAuditJob:    NewInventoryAuditJob(anomalies, logger),
	}
}

// StartAll starts all scheduled jobs. When one fails to start, the already started
// ones are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.notificationRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification relay job: %w", err)
	}

	if err := jm.inventoryAuditJob.Start(); err != nil {
		jm.notificationRelayJob.Stop()
		return fmt.Errorf("failed to start inventory audit job: %w", err)
	}

	return nil
}

// StopAll stops all jobs and waits for running ticks to finish.
func (jm *JobManager) StopAll() {
	jm.inventoryAuditJob.Stop()
	jm.notificationRelayJob.Stop()
}

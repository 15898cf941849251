// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field. A tick is skipped while the
// previous one of the same job is still running.
//
// # Available Jobs
//
// 1. NotificationRelayJob - runs every second and publishes stored notifications in
// sequence order through RelayNotificationsCommandHandler
// 2. InventoryAuditJob - runs every minute and logs inventory records that break the
// ledger invariants or disagree with open line items
//
// # Usage
//
//	jobManager := jobs.NewJobManager(relayHandler, "kafka", 100, anomaliesHandler, logger)
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failures are logged and retried on the next tick. A relay batch that was published but
// not marked is published again, so consumers deduplicate on the notification id.
package jobs

package jobs

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// maxBatchesPerRun bounds one tick so a large backlog cannot starve the next schedule.
const maxBatchesPerRun = 20

type relayHandler interface {
	Handle(ctx context.Context, cmd commands.RelayNotificationsCommand) (int, error)
}

// NotificationRelayJob publishes stored notifications every second. Each tick drains full
// batches until the outbox is empty or maxBatchesPerRun is reached.
type NotificationRelayJob struct {
	handler   relayHandler
	consumer  string
	batchSize int
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewNotificationRelayJob(handler relayHandler, consumer string, batchSize int, logger *zap.Logger) *NotificationRelayJob {
	return &NotificationRelayJob{
		handler:   handler,
		consumer:  consumer,
		batchSize: batchSize,
		cron:      newCron(),
		logger:    logger.With(zap.String("component", "notification_relay_job"), zap.String("consumer", consumer)),
	}
}

func (j *NotificationRelayJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("notification relay job started (running every second)")
	return nil
}

func (j *NotificationRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("notification relay job stopped")
}

// run returns the number of notifications published.
func (j *NotificationRelayJob) run(ctx context.Context) int {
	cmd, err := commands.NewRelayNotificationsCommand(j.consumer, j.batchSize)
	if err != nil {
		j.logger.Error("invalid relay configuration", zap.Error(err))
		return 0
	}

	total := 0
	for range maxBatchesPerRun {
		n, err := j.handler.Handle(ctx, cmd)
		total += n
		if err != nil {
			j.logger.Error("notification relay failed", zap.Int("published", total), zap.Error(err))
			return total
		}
		if n < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.logger.Debug("notifications relayed", zap.Int("published", total))
	}
	return total
}

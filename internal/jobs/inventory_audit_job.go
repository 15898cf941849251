package jobs

import (
	"context"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type anomaliesHandler interface {
	Handle(ctx context.Context, query queries.GetInventoryAnomaliesQuery) ([]queries.GetInventoryAnomaliesQueryResponse, error)
}

// InventoryAuditJob checks the ledger every minute and logs each inconsistent record.
// It only reports; corrections are left to an operator.
type InventoryAuditJob struct {
	handler anomaliesHandler
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewInventoryAuditJob(handler anomaliesHandler, logger *zap.Logger) *InventoryAuditJob {
	return &InventoryAuditJob{
		handler: handler,
		cron:    newCron(),
		logger:  logger.With(zap.String("component", "inventory_audit_job")),
	}
}

func (j *InventoryAuditJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("inventory audit job started (running every minute)")
	return nil
}

func (j *InventoryAuditJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("inventory audit job stopped")
}

// run returns the number of anomalies found, or -1 when the audit could not run.
func (j *InventoryAuditJob) run(ctx context.Context) int {
	anomalies, err := j.handler.Handle(ctx, queries.NewGetInventoryAnomaliesQuery())
	if err != nil {
		j.logger.Error("inventory audit failed", zap.Error(err))
		return -1
	}

	for _, a := range anomalies {
		j.logger.Error("inventory anomaly",
			zap.Stringer("product_id", a.ProductID),
			zap.Int("level", a.Level),
			zap.Int("reserved", a.Reserved),
			zap.Int("available", a.Available),
			zap.Int("expected_reserved", a.ExpectedReserved),
			zap.Strings("reasons", a.Reasons),
		)
	}
	return len(anomalies)
}

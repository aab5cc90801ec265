package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ActiveOrdersReconciliationJob periodically rebuilds every courier's
// active-order projection from the order rows. Repairs any drift the
// projection picked up, for example from a crash between the order
// write and the courier write outside a transaction.
type ActiveOrdersReconciliationJob struct {
	handler  commands.RebuildActiveOrdersCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewActiveOrdersReconciliationJob creates the reconciliation job with the
// given cron schedule (standard five-field expression, e.g. "* * * * *"
// for every minute).
func NewActiveOrdersReconciliationJob(
	handler commands.RebuildActiveOrdersCommandHandler,
	schedule string,
	logger *slog.Logger,
) *ActiveOrdersReconciliationJob {
	return &ActiveOrdersReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "active_orders_reconciliation_job"),
	}
}

// Start begins the reconciliation job on its schedule.
func (j *ActiveOrdersReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewRebuildActiveOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Active orders reconciliation failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Active orders reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the reconciliation job.
func (j *ActiveOrdersReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Active orders reconciliation job stopped")
}

package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

// StaleOrderJob cancels orders that sat in pending status for longer than the
// configured TTL. Cancellation goes through the regular status transition
// handler under a synthetic administrator identity, so stale cancellations are
// authorized, persisted with their event, and fanned out to live subscribers
// exactly like any other transition.
type StaleOrderJob struct {
	uowFactory commands.OrderUoWFactory
	handler    commands.UpdateOrderStatusCommandHandler
	sweeper    actor.Actor
	pendingTTL time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleOrderJob creates a job that sweeps stale pending orders once a minute.
// pendingTTL is how long an order may stay pending before it is cancelled.
func NewStaleOrderJob(
	uowFactory commands.OrderUoWFactory,
	handler commands.UpdateOrderStatusCommandHandler,
	pendingTTL time.Duration,
	logger *slog.Logger,
) (*StaleOrderJob, error) {
	sweeper, err := actor.NewActor(kernel.NewUUID(), actor.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &StaleOrderJob{
		uowFactory: uowFactory,
		handler:    handler,
		sweeper:    sweeper,
		pendingTTL: pendingTTL,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stale_order_job"),
	}, nil
}

// Start begins the sweep, running at the top of every minute.
func (j *StaleOrderJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.sweep(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order job started (running every minute)",
		"pending_ttl", j.pendingTTL.String())
	return nil
}

// Stop stops the sweep.
func (j *StaleOrderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale order job stopped")
}

func (j *StaleOrderJob) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.pendingTTL)

	stale, err := j.uowFactory.Create().OrderRepository().GetStalePending(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale order lookup failed", "error", err)
		return
	}

	for _, aggregate := range stale {
		cmd, cmdErr := commands.NewUpdateOrderStatusCommand(aggregate.ID(), order.Cancelled, j.sweeper)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stale order command rejected",
				"order_id", aggregate.ID().String(), "error", cmdErr)
			continue
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			// An order confirmed or cancelled between the lookup and the sweep
			// loses the race legitimately; anything else is worth a log line.
			if errors.Is(handleErr, order.ErrInvalidTransition) {
				continue
			}
			j.logger.ErrorContext(ctx, "Stale order cancellation failed",
				"order_id", aggregate.ID().String(), "error", handleErr)
			continue
		}

		j.logger.InfoContext(ctx, "Stale pending order cancelled",
			"order_id", aggregate.ID().String())
	}
}

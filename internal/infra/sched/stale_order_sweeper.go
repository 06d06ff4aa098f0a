package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shop-payment-engine/internal/domain/ports/repository"
	"shop-payment-engine/internal/infra/metrics"
)

// StaleOrderSweeper periodically scans for orders stuck in 'pending' long
// after checkout. A stale pending usually means the gateway notification was
// lost or the customer abandoned payment; either way it is flagged for
// manual review rather than guessed at.
type StaleOrderSweeper struct {
	orders     repository.OrderRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending order must be to flag
	log        *zerolog.Logger
}

func NewStaleOrderSweeper(orders repository.OrderRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *StaleOrderSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}
	return &StaleOrderSweeper{orders: orders, interval: interval, staleAfter: staleAfter, log: logger}
}

func (w *StaleOrderSweeper) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *StaleOrderSweeper) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.orders.ListPendingOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("stale-order sweep: list pending failed")
		return
	}
	for _, o := range stale {
		metrics.ManualReviewTotal.WithLabelValues("stale_pending").Inc()
		w.log.Warn().
			Str("order_ref", o.Number).
			Time("created_at", o.CreatedAt).
			Msg("order pending past deadline; flagged for manual review")
	}
	if len(stale) > 0 {
		w.log.Info().Int("count", len(stale)).Msg("stale-order sweep finished")
	}
}

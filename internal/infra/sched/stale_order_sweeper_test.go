//go:build !integration

package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shop-payment-engine/internal/domain/model"
)

// listOnlyOrderRepo satisfies OrderRepository for the sweeper, which only
// ever lists.
type listOnlyOrderRepo struct {
	mu     sync.Mutex
	orders []*model.Order
	calls  int
	gotCut time.Time
	gotLim int
}

func (m *listOnlyOrderRepo) FindByReference(ctx context.Context, qx any, ref string) (*model.Order, error) {
	panic("not used by the sweeper")
}

func (m *listOnlyOrderRepo) MarkPaymentIfPending(ctx context.Context, qx any, ref string, payment model.PaymentStatus, fulfillment model.FulfillmentStatus, gatewayTxnID string) (bool, error) {
	panic("not used by the sweeper")
}

func (m *listOnlyOrderRepo) ListPendingOlderThan(ctx context.Context, qx any, olderThan time.Time, limit int) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.gotCut = olderThan
	m.gotLim = limit
	var out []*model.Order
	for _, o := range m.orders {
		if o.PaymentStatus == model.PaymentStatusPending && o.CreatedAt.Before(olderThan) {
			out = append(out, o)
		}
	}
	return out, nil
}

func TestStaleOrderSweeper_Tick(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()

	repo := &listOnlyOrderRepo{orders: []*model.Order{
		{Number: "ORD-OLD", TotalAmount: decimal.New(100, 0), PaymentStatus: model.PaymentStatusPending, CreatedAt: now.Add(-3 * time.Hour)},
		{Number: "ORD-FRESH", TotalAmount: decimal.New(100, 0), PaymentStatus: model.PaymentStatusPending, CreatedAt: now.Add(-time.Minute)},
		{Number: "ORD-PAID", TotalAmount: decimal.New(100, 0), PaymentStatus: model.PaymentStatusPaid, CreatedAt: now.Add(-3 * time.Hour)},
	}}

	w := NewStaleOrderSweeper(repo, time.Minute, time.Hour, &logger)
	w.tick(context.Background())

	if repo.calls != 1 {
		t.Fatalf("expected one list call, got %d", repo.calls)
	}
	if repo.gotLim <= 0 {
		t.Errorf("expected a positive list limit, got %d", repo.gotLim)
	}
	// Cutoff must be roughly now - staleAfter.
	wantCut := now.Add(-time.Hour)
	if diff := repo.gotCut.Sub(wantCut); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff drifted: got %s, want about %s", repo.gotCut, wantCut)
	}
}

func TestStaleOrderSweeper_StartStopsOnContextCancel(t *testing.T) {
	logger := zerolog.Nop()
	repo := &listOnlyOrderRepo{}
	w := NewStaleOrderSweeper(repo, 10*time.Millisecond, time.Hour, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.calls == 0 {
		t.Error("expected at least one sweep before cancellation")
	}
}

func TestStaleOrderSweeper_DefaultsApply(t *testing.T) {
	logger := zerolog.Nop()
	w := NewStaleOrderSweeper(&listOnlyOrderRepo{}, 0, 0, &logger)
	if w.interval != 5*time.Minute {
		t.Errorf("expected default interval, got %s", w.interval)
	}
	if w.staleAfter != time.Hour {
		t.Errorf("expected default stale-after, got %s", w.staleAfter)
	}
}

//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"shop-payment-engine/internal/domain"
	"shop-payment-engine/internal/domain/model"
	"shop-payment-engine/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memOrderRepo is an in-memory Order Store with the same conditional-write
// semantics as the Postgres repo: the status check and the mutation happen
// under one lock, like a single UPDATE ... WHERE payment_status='pending'.
type memOrderRepo struct {
	mu     sync.Mutex
	orders []*model.Order

	FindErr error
	MarkErr error
}

func newMemOrderRepo() *memOrderRepo { return &memOrderRepo{} }

func (m *memOrderRepo) add(o *model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
}

func (m *memOrderRepo) get(ref string) *model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locate(ref)
}

func (m *memOrderRepo) locate(ref string) *model.Order {
	for _, o := range m.orders {
		if o.ID == ref || o.Number == ref {
			return o
		}
	}
	return nil
}

func (m *memOrderRepo) FindByReference(ctx context.Context, qx any, ref string) (*model.Order, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.locate(ref)
	if o == nil {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) MarkPaymentIfPending(ctx context.Context, qx any, ref string, payment model.PaymentStatus, fulfillment model.FulfillmentStatus, gatewayTxnID string) (bool, error) {
	if m.MarkErr != nil {
		return false, m.MarkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.locate(ref)
	if o == nil || o.PaymentStatus != model.PaymentStatusPending {
		return false, nil
	}
	o.PaymentStatus = payment
	if fulfillment != model.FulfillmentUnchanged {
		o.FulfillmentStatus = fulfillment
	}
	o.PaymentReference = &gatewayTxnID
	o.UpdatedAt = time.Now()
	return true, nil
}

func (m *memOrderRepo) ListPendingOlderThan(ctx context.Context, qx any, olderThan time.Time, limit int) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.orders {
		if o.PaymentStatus == model.PaymentStatusPending && o.CreatedAt.Before(olderThan) {
			cp := *o
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// mockAuditLog records saved rows and can simulate failure.
type mockAuditLog struct {
	mu      sync.Mutex
	records []*model.NotificationRecord
	SaveErr error
}

func (m *mockAuditLog) Save(ctx context.Context, qx any, rec *model.NotificationRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *mockAuditLog) outcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r.Outcome)
	}
	return out
}

// memProcessedCache is a map-backed ProcessedNotificationCache.
type memProcessedCache struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemProcessedCache() *memProcessedCache { return &memProcessedCache{m: map[string]string{}} }

func (c *memProcessedCache) MarkProcessed(ctx context.Context, gatewayTxnID, outcome string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[gatewayTxnID] = outcome
	return nil
}

func (c *memProcessedCache) ProcessedOutcome(ctx context.Context, gatewayTxnID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[gatewayTxnID]
	return v, ok, nil
}

// stubVerifier lets a test force an authenticity verdict.
type stubVerifier struct{ Err error }

func (s stubVerifier) Verify(env *model.NotificationEnvelope) error { return s.Err }

// stubSource lets a test force a source-authentication verdict.
type stubSource struct {
	On  bool
	Err error
}

func (s stubSource) Enabled() bool { return s.On }

func (s stubSource) Authenticate(sourceAddress string) error {
	if !s.On {
		return nil
	}
	return s.Err
}

// MockTxManager executes the callback inline, outside any real transaction.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

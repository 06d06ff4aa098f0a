package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4/pgxpool"

	"shop-payment-engine/internal/domain"
	"shop-payment-engine/internal/domain/model"
	"shop-payment-engine/internal/domain/ports/repository"
	"shop-payment-engine/internal/infra/metrics"
)

var _ repository.NotificationLogRepository = (*notificationLogRepo)(nil)

type notificationLogRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationLogRepo(pool *pgxpool.Pool) repository.NotificationLogRepository {
	return &notificationLogRepo{pool: pool}
}

func (r *notificationLogRepo) Save(ctx context.Context, qx any, rec *model.NotificationRecord) error {
	const q = `
INSERT INTO payment_notifications (id, order_ref, gateway_txn_id, outcome, reason, source_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := execSQL(ctx, r.pool, qx, q, rec.ID, rec.OrderRef, rec.GatewayTxnID, rec.Outcome, rec.Reason, rec.SourceAddress, rec.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		metrics.DBErrors.WithLabelValues("notification_log_save").Inc()
		return domain.ErrOperationFailed
	}
	return nil
}

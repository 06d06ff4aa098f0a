package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"shop-payment-engine/internal/domain"
	"shop-payment-engine/internal/domain/model"
	"shop-payment-engine/internal/domain/ports/repository"
	"shop-payment-engine/internal/infra/metrics"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

// total_amount is selected as text and parsed; numeric-to-decimal scanning
// would otherwise require the pgtype shopspring extension.
const orderColumns = `id, number, total_amount::text, currency, payment_status, fulfillment_status, payment_reference, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	var amount string
	err := row.Scan(&o.ID, &o.Number, &amount, &o.Currency, &o.PaymentStatus, &o.FulfillmentStatus, &o.PaymentReference, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if o.TotalAmount, err = decimal.NewFromString(amount); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}

// FindByReference accepts the internal id and the human-readable order number
// interchangeably.
func (r *orderRepo) FindByReference(ctx context.Context, qx any, ref string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id::text = $1 OR number = $1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, qx, q, ref)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

// MarkPaymentIfPending atomically moves the order out of 'pending'. The WHERE
// clause is the idempotency guard: a re-delivered or racing notification sees
// zero affected rows instead of overwriting a terminal status. Fulfillment is
// kept as-is when the caller passes model.FulfillmentUnchanged.
func (r *orderRepo) MarkPaymentIfPending(
	ctx context.Context, qx any, ref string, payment model.PaymentStatus, fulfillment model.FulfillmentStatus, gatewayTxnID string,
) (bool, error) {
	const q = `
    UPDATE orders
       SET payment_status = $2,
           fulfillment_status = CASE WHEN $3::text = '' THEN fulfillment_status ELSE $3::text END,
           payment_reference = $4,
           updated_at = NOW()
     WHERE (id::text = $1 OR number = $1)
       AND payment_status = 'pending';`

	cmd, err := execSQL(ctx, r.pool, qx, q, ref, string(payment), string(fulfillment), gatewayTxnID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return false, err
		}
		metrics.DBErrors.WithLabelValues("order_mark_payment").Inc()
		return false, domain.ErrStoreUnavailable
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *orderRepo) ListPendingOlderThan(ctx context.Context, qx any, olderThan time.Time, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE payment_status = 'pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, qx, q, olderThan, limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			metrics.DBErrors.WithLabelValues("order_list_pending").Inc()
			return nil, domain.ErrStoreUnavailable
		}
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o := new(model.Order)
		var amount string
		if err := rows.Scan(&o.ID, &o.Number, &amount, &o.Currency, &o.PaymentStatus, &o.FulfillmentStatus, &o.PaymentReference, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		if o.TotalAmount, err = decimal.NewFromString(amount); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, o)
	}
	return out, nil
}

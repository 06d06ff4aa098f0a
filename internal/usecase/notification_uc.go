// File: internal/usecase/notification_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shop-payment-engine/internal/domain"
	"shop-payment-engine/internal/domain/model"
	"shop-payment-engine/internal/domain/ports/adapter"
	"shop-payment-engine/internal/domain/ports/repository"
	"shop-payment-engine/internal/infra/logging"
)

// NotifyOutcome is the final verdict of the notification pipeline.
type NotifyOutcome string

const (
	OutcomeApplied           NotifyOutcome = "applied"
	OutcomeAlreadyTerminal   NotifyOutcome = "already_terminal"
	OutcomeIgnored           NotifyOutcome = "ignored" // unknown external status, acknowledged without transition
	OutcomeMalformed         NotifyOutcome = "malformed"
	OutcomeSignatureMismatch NotifyOutcome = "signature_mismatch"
	OutcomeSourceRejected    NotifyOutcome = "source_rejected"
	OutcomeOrderNotFound     NotifyOutcome = "order_not_found"
	OutcomeAmountMismatch    NotifyOutcome = "amount_mismatch"
	OutcomeStoreUnavailable  NotifyOutcome = "store_unavailable"
)

// NotifyResult is what the endpoint turns into an acknowledgment.
type NotifyResult struct {
	Outcome      NotifyOutcome
	OrderRef     string
	GatewayTxnID string
}

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

type NotificationUseCase interface {
	// Handle runs the full pipeline for one delivered notification:
	// verify -> source check -> reconcile -> map -> idempotent apply.
	// Business rejections come back as outcomes with a nil error; a non-nil
	// error means transient infrastructure failure (retryable).
	Handle(ctx context.Context, env *model.NotificationEnvelope) (*NotifyResult, error)
}

type notificationUC struct {
	orders   repository.OrderRepository
	auditLog repository.NotificationLogRepository
	cache    repository.ProcessedNotificationCache
	verifier adapter.NotificationVerifier
	source   adapter.SourceAuthenticator
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewNotificationUseCase(
	orders repository.OrderRepository,
	auditLog repository.NotificationLogRepository,
	cache repository.ProcessedNotificationCache,
	verifier adapter.NotificationVerifier,
	source adapter.SourceAuthenticator,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *notificationUC {
	return &notificationUC{
		orders:   orders,
		auditLog: auditLog,
		cache:    cache,
		verifier: verifier,
		source:   source,
		tm:       tm,
		log:      logger,
	}
}

func (u *notificationUC) Handle(ctx context.Context, env *model.NotificationEnvelope) (*NotifyResult, error) {
	defer logging.TraceDuration(u.log, "NotificationUC.Handle")()

	res := &NotifyResult{Outcome: OutcomeMalformed}
	if env == nil || env.Fields == nil {
		return res, nil
	}
	res.OrderRef = env.Fields[model.FieldOrderReference]
	res.GatewayTxnID = env.Fields[model.FieldGatewayTxnID]

	ref := res.OrderRef
	txnID := res.GatewayTxnID
	amountRaw := env.Fields[model.FieldAmountGross]
	extStatus := env.Fields[model.FieldPaymentStatus]
	if ref == "" || txnID == "" || amountRaw == "" || extStatus == "" {
		u.log.Warn().Str("order_ref", ref).Msg("notification rejected: missing required fields")
		return res, nil
	}
	notified, err := decimal.NewFromString(amountRaw)
	if err != nil {
		u.log.Warn().Str("order_ref", ref).Msg("notification rejected: unparseable gross amount")
		return res, nil
	}

	// Authenticity first. Nothing below runs on an unverified payload.
	if err := u.verifier.Verify(env); err != nil {
		u.log.Warn().
			Str("order_ref", ref).
			Str("gateway_txn_id", txnID).
			Str("source", env.SourceAddress).
			Msg("signature mismatch: possible tampering")
		res.Outcome = OutcomeSignatureMismatch
		return res, nil
	}

	if err := u.source.Authenticate(env.SourceAddress); err != nil {
		u.log.Warn().
			Str("source", env.SourceAddress).
			Str("order_ref", ref).
			Msg("notification source rejected by allow-list")
		res.Outcome = OutcomeSourceRejected
		return res, nil
	}

	// Fast duplicate short-circuit. Best effort: any cache failure falls
	// through to the conditional write, which remains the real guard.
	if u.cache != nil {
		if _, seen, err := u.cache.ProcessedOutcome(ctx, txnID); err == nil && seen {
			u.log.Debug().Str("gateway_txn_id", txnID).Msg("duplicate notification absorbed from cache")
			res.Outcome = OutcomeAlreadyTerminal
			return res, nil
		}
	}

	order, err := u.orders.FindByReference(ctx, repository.NoTX, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			res.Outcome = OutcomeOrderNotFound
			u.audit(ctx, repository.NoTX, env, res, "referenced order does not exist")
			return res, nil
		}
		res.Outcome = OutcomeStoreUnavailable
		return res, err
	}

	if !order.AmountMatches(notified) {
		// The stored total is authoritative; never "fix up" from the
		// notified value. Flag and stop.
		u.log.Error().
			Str("order_ref", ref).
			Str("gateway_txn_id", txnID).
			Msg("amount mismatch: flagged for manual review")
		res.Outcome = OutcomeAmountMismatch
		u.audit(ctx, repository.NoTX, env, res, "notified amount disagrees with stored total")
		return res, nil
	}

	payStatus, fulfillStatus, recognized := model.MapExternalStatus(extStatus)
	if !recognized || payStatus == model.PaymentStatusPending {
		u.log.Info().
			Str("order_ref", ref).
			Str("external_status", extStatus).
			Msg("unrecognized gateway status: acknowledged without transition")
		res.Outcome = OutcomeIgnored
		u.audit(ctx, repository.NoTX, env, res, "unrecognized external status")
		return res, nil
	}

	// Conditional write and audit row commit together; RowsAffected decides
	// between a fresh transition and an idempotent no-op.
	applied := false
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		var txErr error
		applied, txErr = u.orders.MarkPaymentIfPending(ctx, tx, ref, payStatus, fulfillStatus, txnID)
		if txErr != nil {
			return txErr
		}
		if applied {
			res.Outcome = OutcomeApplied
		} else {
			res.Outcome = OutcomeAlreadyTerminal
		}
		return u.auditLog.Save(ctx, tx, u.record(env, res, ""))
	})
	if err != nil {
		res.Outcome = OutcomeStoreUnavailable
		return res, err
	}

	if u.cache != nil {
		if err := u.cache.MarkProcessed(ctx, txnID, string(res.Outcome)); err != nil {
			u.log.Debug().Err(err).Msg("processed-notification cache write failed")
		}
	}

	if applied {
		u.log.Info().
			Str("order_ref", ref).
			Str("gateway_txn_id", txnID).
			Str("payment_status", string(payStatus)).
			Msg("order transitioned")
	} else {
		u.log.Info().
			Str("order_ref", ref).
			Str("gateway_txn_id", txnID).
			Msg("order already terminal; notification absorbed")
	}
	return res, nil
}

func (u *notificationUC) record(env *model.NotificationEnvelope, res *NotifyResult, reason string) *model.NotificationRecord {
	return &model.NotificationRecord{
		ID:            ulid.Make().String(),
		OrderRef:      res.OrderRef,
		GatewayTxnID:  res.GatewayTxnID,
		Outcome:       string(res.Outcome),
		Reason:        reason,
		SourceAddress: env.SourceAddress,
		CreatedAt:     time.Now(),
	}
}

// audit writes a review row for verified notifications that did not
// transition the order. Failures are logged, not surfaced: the acknowledgment
// decision never depends on the audit trail.
func (u *notificationUC) audit(ctx context.Context, tx repository.Tx, env *model.NotificationEnvelope, res *NotifyResult, reason string) {
	if err := u.auditLog.Save(ctx, tx, u.record(env, res, reason)); err != nil {
		u.log.Error().Err(err).Str("order_ref", res.OrderRef).Msg("audit log write failed")
	}
}

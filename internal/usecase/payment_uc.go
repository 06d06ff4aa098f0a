// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shop-payment-engine/internal/domain"
	"shop-payment-engine/internal/domain/model"
	"shop-payment-engine/internal/domain/ports/adapter"
	"shop-payment-engine/internal/domain/ports/repository"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentStatusView is the read-only projection polled by the client after
// redirect-back.
type PaymentStatusView struct {
	Reference         string                  `json:"reference"`
	PaymentStatus     model.PaymentStatus     `json:"payment_status"`
	FulfillmentStatus model.FulfillmentStatus `json:"fulfillment_status"`
	Amount            decimal.Decimal         `json:"amount"`
	GatewayTxnID      string                  `json:"gateway_txn_id,omitempty"`
}

type PaymentUseCase interface {
	// SignParams computes the redirect signature for an arbitrary flat
	// parameter set using the same codec the verifier uses.
	SignParams(ctx context.Context, fields map[string]string) (string, error)
	// Status returns the current payment view of an order, no mutation.
	Status(ctx context.Context, reference string) (*PaymentStatusView, error)
}

type paymentUC struct {
	orders repository.OrderRepository
	signer adapter.ParameterSigner
	log    *zerolog.Logger
}

func NewPaymentUseCase(orders repository.OrderRepository, signer adapter.ParameterSigner, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{orders: orders, signer: signer, log: logger}
}

func (u *paymentUC) SignParams(ctx context.Context, fields map[string]string) (string, error) {
	if len(fields) == 0 {
		return "", domain.ErrInvalidArgument
	}
	return u.signer.Sign(fields), nil
}

func (u *paymentUC) Status(ctx context.Context, reference string) (*PaymentStatusView, error) {
	if reference == "" {
		return nil, domain.ErrInvalidArgument
	}
	order, err := u.orders.FindByReference(ctx, repository.NoTX, reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrStoreUnavailable
	}
	view := &PaymentStatusView{
		Reference:         order.Number,
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: order.FulfillmentStatus,
		Amount:            order.TotalAmount,
	}
	if order.PaymentReference != nil {
		view.GatewayTxnID = *order.PaymentReference
	}
	return view, nil
}

package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shop-payment-engine/internal/domain"
	"shop-payment-engine/internal/domain/model"
	"shop-payment-engine/internal/infra/logging"
	"shop-payment-engine/internal/infra/metrics"
	"shop-payment-engine/internal/usecase"
)

// handleNotify is the gateway-facing entry point. A 200 tells the gateway to
// stop retrying; non-2xx is reserved for malformed bodies, integrity
// failures and transient store outages. Mismatch details are logged and
// audited, never echoed to the caller.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseForm(); err != nil {
		metrics.NotifyRequests.WithLabelValues(string(usecase.OutcomeMalformed)).Inc()
		http.Error(w, "malformed notification", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		if k == model.FieldSignature {
			continue
		}
		fields[k] = r.PostForm.Get(k)
	}
	env := &model.NotificationEnvelope{
		Fields:           fields,
		ClaimedSignature: r.PostForm.Get(model.FieldSignature),
		SourceAddress:    remoteHost(r),
	}

	ctx := logging.WithOrderRef(r.Context(), fields[model.FieldOrderReference])
	res, err := s.notifyUC.Handle(ctx, env)

	outcome := string(res.Outcome)
	metrics.NotifyRequests.WithLabelValues(outcome).Inc()
	metrics.NotifyDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	switch res.Outcome {
	case usecase.OutcomeApplied, usecase.OutcomeAlreadyTerminal, usecase.OutcomeIgnored:
		ack(w)
	case usecase.OutcomeAmountMismatch:
		// Re-delivery cannot change the verdict; acknowledge so the gateway
		// stops retrying, a human picks it up from the review queue.
		metrics.ManualReviewTotal.WithLabelValues("amount_mismatch").Inc()
		ack(w)
	case usecase.OutcomeOrderNotFound:
		metrics.ManualReviewTotal.WithLabelValues("order_not_found").Inc()
		ack(w)
	case usecase.OutcomeMalformed:
		http.Error(w, "malformed notification", http.StatusBadRequest)
	case usecase.OutcomeSignatureMismatch:
		http.Error(w, "signature verification failed", http.StatusBadRequest)
	case usecase.OutcomeSourceRejected:
		http.Error(w, "source not allowed", http.StatusForbidden)
	case usecase.OutcomeStoreUnavailable:
		logging.With(ctx, s.log).Error().Err(err).Msg("order store unavailable; asking gateway to retry")
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
	}
}

func ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handleSign computes the redirect signature for the checkout backend.
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}

	sig, err := s.payUC.SignParams(r.Context(), fields)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, "at least one parameter is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to sign parameters", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(struct {
		Signature string `json:"signature"`
	}{Signature: sig})
}

// handleStatus serves the read-only payment view polled after redirect-back.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		http.Error(w, "reference is required", http.StatusBadRequest)
		return
	}

	view, err := s.payUC.Status(r.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "reference is required", http.StatusBadRequest)
		default:
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(view)
}

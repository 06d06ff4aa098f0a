package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"shop-payment-engine/internal/usecase"
)

type Server struct {
	notifyUC usecase.NotificationUseCase
	payUC    usecase.PaymentUseCase
	apiKey   string
	timeout  time.Duration
	log      *zerolog.Logger
}

func NewServer(
	notifyUC usecase.NotificationUseCase,
	payUC usecase.PaymentUseCase,
	apiKey string,
	timeout time.Duration,
	logger *zerolog.Logger,
) *Server {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Server{
		notifyUC: notifyUC,
		payUC:    payUC,
		apiKey:   apiKey,
		timeout:  timeout,
		log:      logger,
	}
}

// Router builds the HTTP surface. The notify endpoint stays reachable without
// caller authentication: the gateway itself is the caller and its identity is
// established by the signature, not by transport credentials.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(s.timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/payment", func(r chi.Router) {
		r.Post("/notify", s.handleNotify)
		r.With(s.authMiddleware).Post("/sign", s.handleSign)
		r.Get("/status/{reference}", s.handleStatus)
	})
	return r
}

// authMiddleware provides simple Bearer token authentication for the signing
// endpoint; only the checkout backend may ask for signatures.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-payment-engine/internal/config"
	"shop-payment-engine/internal/infra/logging"
	"shop-payment-engine/internal/infra/metrics"
	gw "shop-payment-engine/internal/infra/payment"
	red "shop-payment-engine/internal/infra/redis"
	"shop-payment-engine/internal/infra/sched"
	"shop-payment-engine/internal/infra/web"
	"shop-payment-engine/internal/usecase"

	pg "shop-payment-engine/internal/infra/db/postgres"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	notifyCache := red.NewNotifyCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	orderRepo := pg.NewOrderRepo(pool)
	auditRepo := pg.NewNotificationLogRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Gateway primitives ----
	codec, err := gw.NewSignatureCodec(cfg.Gateway.SigningKey, cfg.Gateway.Passphrase)
	if err != nil {
		logger.Fatal().Err(err).Msg("signature codec")
	}
	verifier := gw.NewNotificationVerifier(codec)
	sourceAuth := gw.NewSourceAuthenticator(cfg.Gateway.AllowList.Enabled, cfg.Gateway.AllowList.AllowedAddresses)
	if sourceAuth.Enabled() {
		logger.Info().Int("addresses", len(cfg.Gateway.AllowList.AllowedAddresses)).Msg("source allow-list enabled")
	} else {
		logger.Warn().Msg("source allow-list disabled by configuration")
	}

	// ---- Use cases ----
	notifyUC := usecase.NewNotificationUseCase(orderRepo, auditRepo, notifyCache, verifier, sourceAuth, txManager, logger)
	payUC := usecase.NewPaymentUseCase(orderRepo, codec, logger)

	// ---- Metrics ----
	metrics.MustRegister()
	go func() {
		t := time.NewTicker(15 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				pg.ReportPoolStats(pool)
			}
		}
	}()

	// ---- HTTP server ----
	srv := web.NewServer(notifyUC, payUC, cfg.Admin.APIKey, cfg.Server.RequestTimeout, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Stale pending sweeper ----
	sweeper := sched.NewStaleOrderSweeper(orderRepo, cfg.Sweeper.Interval, cfg.Sweeper.StaleAfter, logger)
	go sweeper.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

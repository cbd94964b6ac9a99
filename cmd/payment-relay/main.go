package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/payment-relay/internal/relay/application"
	"github.com/dmehra2102/payment-relay/internal/relay/config"
	relayfs "github.com/dmehra2102/payment-relay/internal/relay/infrastructure/firestore"
	relayhttp "github.com/dmehra2102/payment-relay/internal/relay/infrastructure/http"
	relayrzp "github.com/dmehra2102/payment-relay/internal/relay/infrastructure/razorpay"
	"github.com/dmehra2102/payment-relay/pkg/idempotency"
	"github.com/dmehra2102/payment-relay/pkg/logging"
	"github.com/dmehra2102/payment-relay/pkg/shutdown"
	"github.com/dmehra2102/payment-relay/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "payment-relay", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	// Firestore
	creds, err := cfg.ServiceAccountJSON()
	if err != nil {
		log.Error("service account assembly failed", "err", err)
		os.Exit(1)
	}
	fsClient, err := relayfs.Dial(ctx, cfg.FirebaseProjectID, creds)
	if err != nil {
		log.Error("firestore connect failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = fsClient.Close() }()
	store := relayfs.NewStore(log, fsClient)

	// Razorpay
	gateway := relayrzp.NewClient(log, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	// Optional redis-backed idempotency for order creation
	var dedupe application.Deduper
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		dedupe = idempotency.NewStore(rdb, cfg.IdempotencyTTL)
		log.Info("idempotency enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.IdempotencyTTL)
	}

	svc := application.NewService(log, gateway, store, dedupe)
	handler := relayhttp.NewHandler(log, svc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	if err := shutdown.Drain(srv, 10*time.Second); err != nil {
		log.Error("drain failed", "err", err)
	}
	log.Info("payment-relay shutdown complete")
}

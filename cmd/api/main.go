package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pitchflow/agent"
	"pitchflow/auth"
	"pitchflow/brokerage"
	"pitchflow/config"
	"pitchflow/db"
	"pitchflow/httpapi"
	"pitchflow/notify"
	"pitchflow/payment"
	"pitchflow/pitch"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("bootstrap database pool", zap.Error(err))
	}
	defer pool.Close()

	authRepo := auth.NewRepository(pool)
	authSvc := auth.NewService(authRepo, cfg.JWTSecret)

	agentRepo := agent.NewRepository(pool)
	agentSvc := agent.NewService(agentRepo)

	brokerageRepo := brokerage.NewRepository(pool)
	brokerageSvc := brokerage.NewService(brokerageRepo)

	outbox := notify.NewOutbox(pool)

	pitchRepo := pitch.NewRepository(pool)
	pitchSvc := pitch.NewService(pitchRepo, agentRepo, brokerageRepo, authSvc, outbox, logger)

	checkout := payment.NewHTTPCheckoutClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)
	paymentSvc := payment.NewService(pitchRepo, agentRepo, brokerageRepo, authSvc, checkout, outbox, logger, payment.Config{
		ContactFeeCents: cfg.ContactFeeCents,
		BaseURL:         cfg.BaseURL,
		WebhookSecret:   cfg.WebhookSecret,
	})

	var sender notify.Sender
	if cfg.ResendAPIKey != "" {
		sender = notify.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will only be logged")
		sender = notify.NewLogSender(logger)
	}
	dispatcher := notify.NewDispatcher(pool, sender, logger, 15*time.Second)

	api := httpapi.NewServer(authSvc, agentSvc, brokerageSvc, pitchSvc, paymentSvc, logger)

	corsware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Webhook-Signature"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           corsware.Handler(api.Router()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := dispatcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

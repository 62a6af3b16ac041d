package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"github.com/negdipay/negdi-payment-service/internal/config"
	"github.com/negdipay/negdi-payment-service/internal/delivery/httpapi"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/kafka"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/logger"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/metrics"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/migrate"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/negdi"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/postgres"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/postgres/repository"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/redisdedup"
	usecase "github.com/negdipay/negdi-payment-service/internal/usecase/payment"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Gateway credentials for the active environment; a hole in the config
	// must kill the service at startup, not a shopper's checkout.
	creds, err := cfg.Gateway.Credentials()
	if err != nil {
		log.Fatalf("gateway configuration error: %v", err)
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := kafka.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic)

	dedup := redisdedup.NewNotificationDedup(cfg.RedisService.Addr, cfg.RedisService.Password, cfg.RedisService.DB)

	// Init transaction repo
	txRepo := repository.NewDefaultTransactionRepository(db)
	// Init notification audit log
	auditLog := logger.NewPGNotificationLogger(db)
	// Init metrics
	paymentMetrics := metrics.NewPaymentMetrics()
	// Init gateway client
	gatewayClient := negdi.NewClient(cfg.Gateway.Timeout())

	returnURL := strings.TrimRight(cfg.Gateway.ReturnBaseURL, "/") + httpapi.ReturnPath

	// Init payment usecase
	uc := usecase.NewDefaultPaymentUsecase(
		txRepo,
		gatewayClient,
		pub,
		dedup,
		auditLog,
		paymentMetrics,
		creds,
		cfg.Gateway.Environment,
		returnURL,
	)

	paymentHandler := httpapi.NewPaymentHandler(uc)
	callbackHandler := httpapi.NewCallbackHandler(uc, cfg.Gateway.StatusPageURL)
	router := httpapi.NewRouter(paymentHandler, callbackHandler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("payment service started", "addr", addr, "environment", cfg.Gateway.Environment)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

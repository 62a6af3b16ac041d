package usecase

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/logger"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/metrics"
)

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// NotificationDedup filters already-seen webhook payloads.
type NotificationDedup interface {
	MarkSeen(ctx context.Context, payloadHash string) (bool, error)
}

type DefaultPaymentUsecase struct {
	TxRepo      domain.TransactionRepository
	Gateway     domain.GatewayClient
	Publisher   domain.PaymentEventPublisher
	Dedup       NotificationDedup
	AuditLog    logger.NotificationAuditLogger
	Metrics     *metrics.PaymentMetrics
	Creds       domain.GatewayCredentials
	Environment string
	ReturnURL   string // public return endpoint handed to the gateway

	newReference func() string
}

func NewDefaultPaymentUsecase(
	txRepo domain.TransactionRepository,
	gateway domain.GatewayClient,
	pub domain.PaymentEventPublisher,
	dedup NotificationDedup,
	auditLog logger.NotificationAuditLogger,
	m *metrics.PaymentMetrics,
	creds domain.GatewayCredentials,
	environment string,
	returnURL string,
) *DefaultPaymentUsecase {
	gen, err := nanoid.CustomASCII(referenceAlphabet, 12)
	if err != nil {
		log.Fatalf("failed to init reference generator: %v", err)
	}
	return &DefaultPaymentUsecase{
		TxRepo:       txRepo,
		Gateway:      gateway,
		Publisher:    pub,
		Dedup:        dedup,
		AuditLog:     auditLog,
		Metrics:      m,
		Creds:        creds,
		Environment:  environment,
		ReturnURL:    returnURL,
		newReference: func() string { return "tx-" + gen() },
	}
}

func (uc *DefaultPaymentUsecase) publishStatusChange(tx *domain.Transaction, oldStatus, newStatus domain.TransactionStatus) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.PaymentEvent) {
		if err := uc.Publisher.PublishPaymentEvent(event); err != nil {
			slog.Error("failed to publish kafka PaymentEvent", "transaction_id", event.TransactionID, "error", err.Error())
		}
	}(domain.PaymentEvent{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		ExternalID:    tx.ExternalID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Timestamp:     time.Now(),
	})
}

func (uc *DefaultPaymentUsecase) recordAnomaly(kind string) {
	if uc.Metrics != nil {
		uc.Metrics.RecordAnomaly(kind)
	}
}

func (uc *DefaultPaymentUsecase) recordNotification(source domain.NotificationSource) {
	if uc.Metrics != nil {
		uc.Metrics.RecordNotification(string(source))
	}
}

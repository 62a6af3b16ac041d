package logger

import (
	"context"
	"time"

	"github.com/negdipay/negdi-payment-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type NotificationEntry struct {
	TransactionID string
	Source        string
	PayloadHash   string
	Payload       string
	GatewayStatus string
}

// NotificationAuditLogger persists every inbound notification before and after
// processing - the durable record the webhook acknowledgment relies on, and
// the trail a merchant inspects when a transaction lands in ERROR.
type NotificationAuditLogger interface {
	LogReceived(ctx context.Context, entry NotificationEntry) (uint, error)
	LogOutcome(ctx context.Context, id uint, outcome string, processingErr error) error
}

type PGNotificationLogger struct {
	db *gorm.DB
}

func NewPGNotificationLogger(db *gorm.DB) *PGNotificationLogger {
	return &PGNotificationLogger{db: db}
}

func (l *PGNotificationLogger) LogReceived(ctx context.Context, entry NotificationEntry) (uint, error) {
	record := models.NotificationLogModel{
		TransactionID: entry.TransactionID,
		Source:        entry.Source,
		PayloadHash:   entry.PayloadHash,
		Payload:       entry.Payload,
		GatewayStatus: entry.GatewayStatus,
		Outcome:       "received",
	}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func (l *PGNotificationLogger) LogOutcome(ctx context.Context, id uint, outcome string, processingErr error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"outcome":      outcome,
		"processed_at": &now,
	}
	if processingErr != nil {
		updates["error"] = processingErr.Error()
	}
	return l.db.WithContext(ctx).
		Model(&models.NotificationLogModel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

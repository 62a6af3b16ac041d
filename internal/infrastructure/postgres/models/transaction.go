package models

import (
	"time"

	"github.com/negdipay/negdi-payment-service/internal/domain"
)

type TransactionModel struct {
	ID            string                   `gorm:"primaryKey;type:uuid"`
	Reference     string                   `gorm:"uniqueIndex:idx_reference;not null"`
	ExternalID    string                   `gorm:"index:idx_external_id"`
	CheckToken    string
	Status        domain.TransactionStatus `gorm:"index:idx_status"`
	Amount        float64
	Currency      string
	Description   string
	CustomerEmail string
	CallbackURL   string
	PaymentURL    string
	GatewayStatus string
	ApprovalCode  string
	PaymentMethod string
	LastError     string
	CreatedAt     time.Time `gorm:"index:idx_created_at"`
	UpdatedAt     time.Time
}

func (TransactionModel) TableName() string {
	return "payment_transactions"
}

// NotificationLogModel is the durable audit row written for every inbound
// webhook or return callback before it is processed.
type NotificationLogModel struct {
	ID            uint   `gorm:"primaryKey"`
	TransactionID string `gorm:"index"`
	Source        string `gorm:"not null"`
	PayloadHash   string `gorm:"index"`
	Payload       string `gorm:"type:jsonb"`
	GatewayStatus string
	Outcome       string
	Error         string
	ReceivedAt    time.Time `gorm:"autoCreateTime"`
	ProcessedAt   *time.Time
}

func (NotificationLogModel) TableName() string {
	return "gateway_notification_log"
}

package domain

import "time"

type PaymentEvent struct {
	TransactionID string            `json:"transaction_id"`
	Reference     string            `json:"reference"`
	ExternalID    string            `json:"external_id"`
	OldStatus     TransactionStatus `json:"old_status"`
	NewStatus     TransactionStatus `json:"new_status"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Timestamp     time.Time         `json:"timestamp"`
}

type PaymentEventPublisher interface {
	PublishPaymentEvent(event PaymentEvent) error
}

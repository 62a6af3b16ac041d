package notifier

import "time"

type CallbackPayload struct {
	TransactionID string    `json:"transaction_id"`
	Reference     string    `json:"reference"`
	ExternalID    string    `json:"external_id"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	ApprovalCode  string    `json:"approval_code,omitempty"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

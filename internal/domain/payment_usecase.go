package domain

import "context"

type CreatePaymentInput struct {
	Reference     string // generated when empty
	Amount        float64
	Currency      string
	Description   string
	CustomerEmail string
	CallbackURL   string
}

type CreatePaymentOutput struct {
	TransactionID string
	Reference     string
	RedirectURL   string
	Status        TransactionStatus
}

type PaymentUsecase interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*CreatePaymentOutput, error)
	// HandleReturn is the browser redirect-return flow: correlate by tranid,
	// inquire the authoritative status, reconcile.
	HandleReturn(ctx context.Context, externalID, checkToken string) (*Transaction, error)
	// HandleWebhook durably records the notification, then reconciles it.
	// Processing errors are reported but the webhook is acknowledged anyway.
	HandleWebhook(ctx context.Context, raw []byte, notification GatewayNotification) error
	GetTransactionByID(ctx context.Context, id string) (*Transaction, error)
	GetTransactionByReference(ctx context.Context, reference string) (*Transaction, error)
}

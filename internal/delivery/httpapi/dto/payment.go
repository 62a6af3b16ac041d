package dto

import "time"

type CreatePaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required,len=3,uppercase"`
	Reference     string  `json:"reference" validate:"omitempty,max=64"`
	Description   string  `json:"description" validate:"omitempty,max=255"`
	CustomerEmail string  `json:"customer_email" validate:"omitempty,email"`
	CallbackURL   string  `json:"callback_url" validate:"omitempty,url"`
}

type CreatePaymentResponse struct {
	TransactionID string `json:"transaction_id"`
	Reference     string `json:"reference"`
	RedirectURL   string `json:"redirect_url"`
	Status        string `json:"status"`
}

// PaymentResponse never exposes the check token: it is a capability for
// status inquiry, not client data.
type PaymentResponse struct {
	TransactionID string    `json:"transaction_id"`
	Reference     string    `json:"reference"`
	ExternalID    string    `json:"external_id,omitempty"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description,omitempty"`
	ApprovalCode  string    `json:"approval_code,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

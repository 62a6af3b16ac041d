package domain

import "time"

type TransactionStatus string

const (
	StatusDraft    TransactionStatus = "DRAFT"
	StatusPending  TransactionStatus = "PENDING"
	StatusDone     TransactionStatus = "DONE"
	StatusCanceled TransactionStatus = "CANCELED"
	StatusError    TransactionStatus = "ERROR"
)

// IsTerminal reports whether no further transition is expected from the status.
// ERROR is not terminal in that sense: it marks the transaction for manual
// reconciliation, but a later authoritative status may still resolve it.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// CanTransitionTo encodes the forward-only state machine:
// DRAFT -> PENDING -> {DONE | CANCELED | ERROR}, ERROR reachable from
// DRAFT and PENDING. Terminal states accept no transition.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StatusDraft:
		return target == StatusPending || target == StatusError || target == StatusCanceled
	case StatusPending:
		return target == StatusDone || target == StatusCanceled || target == StatusError
	case StatusError:
		return target == StatusDone || target == StatusCanceled
	}
	return false
}

type Transaction struct {
	ID            string
	Reference     string // merchant-chosen correlation key, unique, immutable
	ExternalID    string // gateway "tranid", empty until order creation succeeds
	CheckToken    string // gateway "checkid", capability token for inquiry calls
	Status        TransactionStatus
	Amount        float64
	Currency      string
	Description   string
	CustomerEmail string
	CallbackURL   string
	PaymentURL    string // hosted payment page the shopper is redirected to
	GatewayStatus string // last raw status reported by the gateway
	ApprovalCode  string
	PaymentMethod string
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

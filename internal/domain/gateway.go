package domain

import "context"

// GatewayCredentials is passed into the client at call time so that test and
// production environments can never be mixed inside one request.
type GatewayCredentials struct {
	BaseURL           string
	TerminalID        string
	Username          string
	Password          string
	SHARequestPhrase  string // empty disables outgoing signing
	SHAResponsePhrase string // empty disables notification verification
}

func (c GatewayCredentials) Validate() error {
	if c.BaseURL == "" || c.TerminalID == "" || c.Username == "" || c.Password == "" {
		return ErrConfiguration
	}
	return nil
}

type OrderDetails struct {
	Reference     string
	Amount        float64
	Currency      string
	Description   string
	CustomerEmail string
	ReturnURL     string
}

type CreateOrderResult struct {
	RedirectURL string
	ExternalID  string
	CheckToken  string
	Status      string
}

// StatusResponse is the gateway's authoritative view of one transaction,
// from an inquiry call or a webhook notification.
type StatusResponse struct {
	ExternalID    string
	Reference     string
	Status        string
	ApprovalCode  string
	PaymentMethod string
	Amount        *float64
	Currency      string
	Signature     string
	// Fields holds the raw response fields as received, in signing order
	// semantics (key -> value), for signature verification.
	Fields map[string]string
}

type GatewayClient interface {
	CreateOrder(ctx context.Context, creds GatewayCredentials, details OrderDetails) (*CreateOrderResult, error)
	InquireStatus(ctx context.Context, creds GatewayCredentials, externalID, checkToken string) (*StatusResponse, error)
}

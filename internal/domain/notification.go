package domain

// GatewayNotification is the normalized form of an inbound callback, webhook
// body or inquiry response before it is reconciled onto a transaction.
type GatewayNotification struct {
	ExternalID    string
	Reference     string
	CheckToken    string
	Status        string
	ApprovalCode  string
	PaymentMethod string
	Amount        *float64
	Currency      string
	Signature     string
	// Fields carries every received field for signature verification.
	Fields map[string]string
}

type NotificationSource string

const (
	SourceWebhook NotificationSource = "webhook"
	SourceReturn  NotificationSource = "return"
	SourceInquiry NotificationSource = "inquiry"
)

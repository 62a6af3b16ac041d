package negdi

import "github.com/negdipay/negdi-payment-service/internal/domain"

// statusMapping is the total map from NEGDi status vocabulary (inquiry page 17
// of the NEGDi spec) to local transaction states. Statuses are matched exactly,
// case included - NEGDi documents them as case-sensitive. Anything not listed
// here must be reconciled to ERROR, never ignored.
var statusMapping = map[string]domain.TransactionStatus{
	"Preparing":            domain.StatusPending,
	"Transaction expected": domain.StatusPending,

	"Approved":       domain.StatusDone,
	"Authorized":     domain.StatusDone,
	"Funded":         domain.StatusDone,
	"Fully paid":     domain.StatusDone,
	"Partially paid": domain.StatusDone,

	"Cancelled": domain.StatusCanceled,
	"Refused":   domain.StatusCanceled,
	"Closed":    domain.StatusCanceled,

	"Declined":     domain.StatusError,
	"Expired":      domain.StatusError,
	"System error": domain.StatusError,
}

// MapStatus resolves a raw NEGDi status. ok is false for unknown statuses;
// the caller decides how to record the fallback.
func MapStatus(gatewayStatus string) (domain.TransactionStatus, bool) {
	mapped, ok := statusMapping[gatewayStatus]
	return mapped, ok
}

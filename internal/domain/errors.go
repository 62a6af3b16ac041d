package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration         = errors.New("gateway credentials are not fully configured")
	ErrCorrelationNotFound   = errors.New("no transaction matches the notification")
	ErrAmbiguousCorrelation  = errors.New("more than one transaction matches the external id")
	ErrUntrustedNotification = errors.New("notification signature verification failed")
	ErrMissingStatus         = errors.New("gateway response carries no status")
	ErrStatusConflict        = errors.New("conflicting terminal status reported")
	ErrInvalidReference      = errors.New("reference contains characters the gateway rejects")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrDuplicateReference    = errors.New("a transaction with this reference already exists")
)

// GatewayUnavailableError - never reached the gateway (timeout, refused, open breaker).
type GatewayUnavailableError struct {
	Err error
}

func (e *GatewayUnavailableError) Error() string {
	return fmt.Sprintf("gateway unavailable: %v", e.Err)
}

func (e *GatewayUnavailableError) Unwrap() error { return e.Err }

// GatewayRejectedError - gateway reached but answered non-2xx.
type GatewayRejectedError struct {
	StatusCode int
	Body       string
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("gateway rejected request: status %d", e.StatusCode)
}

// GatewayProtocolError - 2xx answer that cannot be used (undecodable body,
// required field missing).
type GatewayProtocolError struct {
	Reason string
}

func (e *GatewayProtocolError) Error() string {
	return fmt.Sprintf("gateway protocol error: %s", e.Reason)
}

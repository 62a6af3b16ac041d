package negdi

import (
	"testing"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapStatus(t *testing.T) {
	cases := []struct {
		gatewayStatus string
		expected      domain.TransactionStatus
	}{
		{"Preparing", domain.StatusPending},
		{"Transaction expected", domain.StatusPending},
		{"Approved", domain.StatusDone},
		{"Authorized", domain.StatusDone},
		{"Funded", domain.StatusDone},
		{"Fully paid", domain.StatusDone},
		{"Partially paid", domain.StatusDone},
		{"Cancelled", domain.StatusCanceled},
		{"Refused", domain.StatusCanceled},
		{"Closed", domain.StatusCanceled},
		{"Declined", domain.StatusError},
		{"Expired", domain.StatusError},
		{"System error", domain.StatusError},
	}

	for _, tc := range cases {
		t.Run(tc.gatewayStatus, func(t *testing.T) {
			mapped, ok := MapStatus(tc.gatewayStatus)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, mapped)
		})
	}
}

func TestMapStatusUnknown(t *testing.T) {
	for _, s := range []string{"", "approved", "APPROVED", "Settled", "Refunded"} {
		_, ok := MapStatus(s)
		assert.False(t, ok, "status %q must not map", s)
	}
}

func TestMinorUnitConversion(t *testing.T) {
	assert.Equal(t, int64(100000), ToMinorUnits(1000, "MNT"))
	assert.Equal(t, int64(1099), ToMinorUnits(10.99, "USD"))
	assert.Equal(t, int64(1000), ToMinorUnits(1000, "JPY"))

	assert.Equal(t, float64(1000), FromMinorUnits(100000, "MNT"))
	assert.Equal(t, 10.99, FromMinorUnits(1099, "USD"))
	assert.Equal(t, float64(1000), FromMinorUnits(1000, "JPY"))
}

func TestIsValidReference(t *testing.T) {
	assert.True(t, IsValidReference("ORD-2024_001"))
	assert.True(t, IsValidReference("tx-A1b2C3"))
	assert.False(t, IsValidReference(""))
	assert.False(t, IsValidReference("ORD 1"))
	assert.False(t, IsValidReference("ORD#1"))
	assert.False(t, IsValidReference("захиалга"))
}

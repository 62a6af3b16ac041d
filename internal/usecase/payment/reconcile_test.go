package usecase

import (
	"context"
	"testing"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/negdi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileMapsGatewayStatuses(t *testing.T) {
	cases := []struct {
		gatewayStatus string
		expected      domain.TransactionStatus
	}{
		{"Preparing", domain.StatusPending},
		{"Approved", domain.StatusDone},
		{"Fully paid", domain.StatusDone},
		{"Cancelled", domain.StatusCanceled},
		{"Refused", domain.StatusCanceled},
		{"Declined", domain.StatusError},
		{"System error", domain.StatusError},
	}

	for _, tc := range cases {
		t.Run(tc.gatewayStatus, func(t *testing.T) {
			repo := newFakeRepo()
			uc := newTestUsecase(repo, &fakeGateway{})
			tx := seedTransaction(repo, domain.StatusPending)

			updated, err := uc.reconcile(context.Background(), tx.ID, notification(tc.gatewayStatus), domain.SourceWebhook)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, updated.Status)
			assert.Equal(t, tc.gatewayStatus, updated.GatewayStatus)
		})
	}
}

func TestReconcileDuplicateTerminalIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusPending)
	ctx := context.Background()

	first, err := uc.reconcile(ctx, tx.ID, notification("Approved"), domain.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, first.Status)

	second, err := uc.reconcile(ctx, tx.ID, notification("Approved"), domain.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, second.Status)
}

func TestReconcileConflictingTerminalStatuses(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusPending)
	ctx := context.Background()

	_, err := uc.reconcile(ctx, tx.ID, notification("Approved"), domain.SourceWebhook)
	require.NoError(t, err)

	// A different terminal status afterwards is an anomaly, not an overwrite.
	_, err = uc.reconcile(ctx, tx.ID, notification("Cancelled"), domain.SourceWebhook)
	assert.ErrorIs(t, err, domain.ErrStatusConflict)
	assert.Equal(t, domain.StatusDone, repo.mustGet(tx.ID).Status)
}

func TestReconcileStalePendingAfterTerminal(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusDone)

	updated, err := uc.reconcile(context.Background(), tx.ID, notification("Preparing"), domain.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)
}

func TestReconcileMissingStatus(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusPending)

	updated, err := uc.reconcile(context.Background(), tx.ID, notification(""), domain.SourceWebhook)
	assert.ErrorIs(t, err, domain.ErrMissingStatus)
	assert.Equal(t, domain.StatusError, updated.Status)
	assert.NotEmpty(t, updated.LastError)
}

func TestReconcileMissingStatusAgainstTerminal(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusDone)

	updated, err := uc.reconcile(context.Background(), tx.ID, notification(""), domain.SourceWebhook)
	assert.ErrorIs(t, err, domain.ErrMissingStatus)
	assert.Equal(t, domain.StatusDone, updated.Status)
}

func TestReconcileUnknownStatusParksInError(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusPending)

	updated, err := uc.reconcile(context.Background(), tx.ID, notification("Settled"), domain.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, updated.Status)
	assert.Equal(t, "Settled", updated.GatewayStatus)
}

func TestReconcileInvalidTransitionParksInError(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	// Approved while still DRAFT: no order was ever acknowledged.
	tx := seedTransaction(repo, domain.StatusDraft)

	updated, err := uc.reconcile(context.Background(), tx.ID, notification("Approved"), domain.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, updated.Status)
	assert.Contains(t, updated.LastError, "Approved")
}

func TestReconcileErrorResolvedByLaterTerminal(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusError)

	updated, err := uc.reconcile(context.Background(), tx.ID, notification("Approved"), domain.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)
	assert.Empty(t, updated.LastError)
}

func TestReconcileRejectsBadSignature(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	uc.Creds.SHAResponsePhrase = "RESPONSE-PHRASE"
	tx := seedTransaction(repo, domain.StatusPending)

	n := notification("Approved")
	n.Fields["signature"] = "forged"

	_, err := uc.reconcile(context.Background(), tx.ID, n, domain.SourceWebhook)
	assert.ErrorIs(t, err, domain.ErrUntrustedNotification)
	assert.Equal(t, domain.StatusPending, repo.mustGet(tx.ID).Status)
}

func TestReconcileAcceptsValidSignature(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	uc.Creds.SHAResponsePhrase = "RESPONSE-PHRASE"
	tx := seedTransaction(repo, domain.StatusPending)

	n := notification("Approved")
	n.Fields["signature"] = negdi.Sign(n.Fields, "RESPONSE-PHRASE")

	updated, err := uc.reconcile(context.Background(), tx.ID, n, domain.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)
}

func TestReconcileSkipsSignatureForInquiry(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	uc.Creds.SHAResponsePhrase = "RESPONSE-PHRASE"
	tx := seedTransaction(repo, domain.StatusPending)

	// Inquiry responses arrive over the connection we opened; no signature.
	updated, err := uc.reconcile(context.Background(), tx.ID, notification("Approved"), domain.SourceInquiry)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)
}

func TestReconcileAppliesGatewayMetadata(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusPending)

	n := notification("Approved")
	n.ApprovalCode = "AP123"
	n.PaymentMethod = "card"

	updated, err := uc.reconcile(context.Background(), tx.ID, n, domain.SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, "AP123", updated.ApprovalCode)
	assert.Equal(t, "card", updated.PaymentMethod)
}

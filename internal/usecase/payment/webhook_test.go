package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleWebhookReconciles(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusPending)

	raw := []byte(`{"order":{"tranid":"TX99","status":"Approved"}}`)
	err := uc.HandleWebhook(context.Background(), raw, notification("Approved"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDone, repo.mustGet(tx.ID).Status)
}

func TestHandleWebhookUnmatched(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})

	err := uc.HandleWebhook(context.Background(), []byte(`{}`), notification("Approved"))
	assert.ErrorIs(t, err, domain.ErrCorrelationNotFound)
}

func TestHandleWebhookAmbiguousExternalID(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	seedTransaction(repo, domain.StatusPending)
	second := &domain.Transaction{Reference: "ORD-2", ExternalID: "TX99", Status: domain.StatusPending}
	require.NoError(t, repo.CreateTransaction(context.Background(), second))

	err := uc.HandleWebhook(context.Background(), []byte(`{}`), notification("Approved"))
	assert.ErrorIs(t, err, domain.ErrAmbiguousCorrelation)
}

func TestHandleWebhookCorrelatesByReferenceFallback(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	tx := seedTransaction(repo, domain.StatusPending)

	n := notification("Cancelled")
	n.ExternalID = ""

	err := uc.HandleWebhook(context.Background(), []byte(`{}`), n)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, repo.mustGet(tx.ID).Status)
}

func TestHandleWebhookSkipsDuplicatePayload(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	uc.Dedup = newFakeDedup()
	tx := seedTransaction(repo, domain.StatusPending)
	ctx := context.Background()

	raw := []byte(`{"order":{"tranid":"TX99","status":"Approved"}}`)
	require.NoError(t, uc.HandleWebhook(ctx, raw, notification("Approved")))
	require.Equal(t, domain.StatusDone, repo.mustGet(tx.ID).Status)

	// Byte-identical redelivery is filtered before reconciliation.
	require.NoError(t, uc.HandleWebhook(ctx, raw, notification("Approved")))
	assert.Equal(t, domain.StatusDone, repo.mustGet(tx.ID).Status)
}

func TestHandleWebhookSurvivesDedupOutage(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUsecase(repo, &fakeGateway{})
	dedup := newFakeDedup()
	dedup.err = errors.New("redis down")
	uc.Dedup = dedup
	tx := seedTransaction(repo, domain.StatusPending)

	err := uc.HandleWebhook(context.Background(), []byte(`{}`), notification("Approved"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, repo.mustGet(tx.ID).Status)
}

func TestHandleReturnInquiresAndReconciles(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{
		inquireFn: func(externalID, checkToken string) (*domain.StatusResponse, error) {
			return &domain.StatusResponse{
				ExternalID:   externalID,
				Status:       "Approved",
				ApprovalCode: "AP123",
			}, nil
		},
	}
	uc := newTestUsecase(repo, gw)
	tx := seedTransaction(repo, domain.StatusPending)

	updated, err := uc.HandleReturn(context.Background(), "TX99", "CK1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)
	assert.Equal(t, "AP123", updated.ApprovalCode)
	assert.Equal(t, 1, gw.inquireCalls)
	assert.Equal(t, domain.StatusDone, repo.mustGet(tx.ID).Status)
}

func TestHandleReturnUnknownTransaction(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{}
	uc := newTestUsecase(repo, gw)

	_, err := uc.HandleReturn(context.Background(), "TX-UNKNOWN", "CK1")
	assert.ErrorIs(t, err, domain.ErrCorrelationNotFound)
	assert.Equal(t, 0, gw.inquireCalls)
}

func TestHandleReturnCheckTokenMismatch(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{}
	uc := newTestUsecase(repo, gw)
	tx := seedTransaction(repo, domain.StatusPending)

	_, err := uc.HandleReturn(context.Background(), "TX99", "FORGED")
	assert.ErrorIs(t, err, domain.ErrUntrustedNotification)
	// No inquiry was spent on the forged token and nothing changed.
	assert.Equal(t, 0, gw.inquireCalls)
	assert.Equal(t, domain.StatusPending, repo.mustGet(tx.ID).Status)
}

// End-to-end over the fakes: create, redirect-return while still preparing,
// webhook confirmation, duplicate webhook.
func TestPaymentLifecycle(t *testing.T) {
	repo := newFakeRepo()
	gw := &fakeGateway{
		inquireFn: func(externalID, checkToken string) (*domain.StatusResponse, error) {
			return &domain.StatusResponse{ExternalID: externalID, Status: "Preparing"}, nil
		},
	}
	uc := newTestUsecase(repo, gw)
	ctx := context.Background()

	out, err := uc.CreatePayment(ctx, domain.CreatePaymentInput{
		Reference: "ORD-1",
		Amount:    1000,
		Currency:  "MNT",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, out.Status)

	// Shopper returns before the gateway settled; inquiry still says Preparing.
	returned, err := uc.HandleReturn(ctx, "TX99", "CK1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, returned.Status)

	// Webhook settles the payment.
	raw := []byte(`{"order":{"tranid":"TX99","status":"Approved"}}`)
	require.NoError(t, uc.HandleWebhook(ctx, raw, notification("Approved")))
	assert.Equal(t, domain.StatusDone, repo.mustGet(out.TransactionID).Status)

	// Redelivery of the same confirmation changes nothing.
	require.NoError(t, uc.HandleWebhook(ctx, raw, notification("Approved")))
	assert.Equal(t, domain.StatusDone, repo.mustGet(out.TransactionID).Status)
}

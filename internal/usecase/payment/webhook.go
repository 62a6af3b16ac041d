package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/logger"
)

// HandleWebhook processes a server-to-server notification. The payload is
// recorded durably before reconciliation; the returned error informs logging
// and metrics only - the HTTP handler acknowledges the webhook regardless, so
// the gateway's retry logic never floods the endpoint.
func (uc *DefaultPaymentUsecase) HandleWebhook(ctx context.Context, raw []byte, n domain.GatewayNotification) error {
	uc.recordNotification(domain.SourceWebhook)

	sum := sha256.Sum256(raw)
	payloadHash := hex.EncodeToString(sum[:])

	if uc.Dedup != nil {
		seen, err := uc.Dedup.MarkSeen(ctx, payloadHash)
		if err != nil {
			// Dedup is an optimization; the row lock still guarantees a
			// correct (idempotent) transition without it.
			slog.Warn("notification dedup unavailable", "error", err.Error())
		} else if seen {
			slog.Info("skipping duplicate webhook payload", "hash", payloadHash)
			return nil
		}
	}

	tx, corrErr := uc.correlate(ctx, n)

	var logID uint
	if uc.AuditLog != nil {
		entry := logger.NotificationEntry{
			Source:        string(domain.SourceWebhook),
			PayloadHash:   payloadHash,
			Payload:       string(raw),
			GatewayStatus: n.Status,
		}
		if tx != nil {
			entry.TransactionID = tx.ID
		}
		id, err := uc.AuditLog.LogReceived(ctx, entry)
		if err != nil {
			slog.Error("failed to record notification", "error", err.Error())
		} else {
			logID = id
		}
	}

	if corrErr != nil {
		switch {
		case errors.Is(corrErr, domain.ErrAmbiguousCorrelation):
			uc.recordAnomaly("ambiguous_correlation")
		default:
			uc.recordAnomaly("unmatched_webhook")
		}
		slog.Warn("webhook matches no transaction",
			"external_id", n.ExternalID,
			"reference", n.Reference,
			"error", corrErr.Error(),
		)
		uc.logOutcome(ctx, logID, "unmatched", corrErr)
		return corrErr
	}

	_, err := uc.reconcile(ctx, tx.ID, n, domain.SourceWebhook)
	if err != nil {
		uc.logOutcome(ctx, logID, "failed", err)
		return err
	}

	uc.logOutcome(ctx, logID, "processed", nil)
	return nil
}

func (uc *DefaultPaymentUsecase) logOutcome(ctx context.Context, logID uint, outcome string, err error) {
	if uc.AuditLog == nil || logID == 0 {
		return
	}
	if lerr := uc.AuditLog.LogOutcome(ctx, logID, outcome, err); lerr != nil {
		slog.Error("failed to update notification outcome", "error", lerr.Error())
	}
}

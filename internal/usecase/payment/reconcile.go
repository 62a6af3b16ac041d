package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/negdi"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/notifier"
)

// correlate resolves a notification to exactly one local transaction.
// The gateway-assigned external id is authoritative; the merchant reference is
// the fallback when the payload carries no tranid. An unmatched notification
// never creates a transaction - it is evidence of a bug or a forged callback.
func (uc *DefaultPaymentUsecase) correlate(ctx context.Context, n domain.GatewayNotification) (*domain.Transaction, error) {
	if n.ExternalID != "" {
		return uc.TxRepo.FindByExternalID(ctx, n.ExternalID)
	}
	if n.Reference != "" {
		return uc.TxRepo.FindByReference(ctx, n.Reference)
	}
	return nil, domain.ErrCorrelationNotFound
}

// reconcile maps the gateway-reported status onto the local state machine and
// applies the transition exactly once, under the repository's row lock.
//
// Order of checks mirrors the trust boundary: signature first (nothing is
// believed before it passes), then status presence, then the mapping table,
// then the state machine.
func (uc *DefaultPaymentUsecase) reconcile(ctx context.Context, txID string, n domain.GatewayNotification, source domain.NotificationSource) (*domain.Transaction, error) {
	// Inquiry responses come from a call we initiated over TLS; webhook and
	// return payloads are attacker-reachable and must prove themselves.
	if uc.Creds.SHAResponsePhrase != "" && source != domain.SourceInquiry {
		if err := negdi.VerifySignature(n.Fields, uc.Creds.SHAResponsePhrase); err != nil {
			uc.recordAnomaly("untrusted_notification")
			slog.Warn("rejected notification with bad signature", "transaction_id", txID, "source", string(source))
			return nil, err
		}
	}

	var (
		oldStatus     domain.TransactionStatus
		applied       bool
		missingStatus bool
		conflict      bool
	)

	updated, err := uc.TxRepo.ProcessStatusTransition(ctx, txID, func(cur *domain.Transaction) error {
		oldStatus = cur.Status

		if n.Status == "" {
			missingStatus = true
			if cur.Status.IsTerminal() {
				return nil
			}
			// A response that cannot be classified must never pass as
			// success; force ERROR for manual reconciliation.
			cur.Status = domain.StatusError
			cur.LastError = "gateway notification carries no status"
			applied = true
			return nil
		}

		target, known := negdi.MapStatus(n.Status)
		if !known {
			uc.recordAnomaly("unknown_status")
			target = domain.StatusError
		}

		if n.Amount != nil && (*n.Amount != cur.Amount || (n.Currency != "" && n.Currency != cur.Currency)) {
			uc.recordAnomaly("amount_mismatch")
			slog.Warn("gateway reported inconsistent amount",
				"transaction_id", cur.ID,
				"stored", fmt.Sprintf("%.2f %s", cur.Amount, cur.Currency),
				"reported", fmt.Sprintf("%.2f %s", *n.Amount, n.Currency),
			)
		}

		if cur.Status == target {
			// Duplicate delivery of a status already applied: no-op.
			return nil
		}

		if cur.Status.IsTerminal() {
			if target.IsTerminal() {
				// A second, different terminal status is a reportable
				// anomaly, never a silent overwrite.
				conflict = true
				uc.recordAnomaly("conflicting_terminal_status")
			} else {
				// Out-of-order delivery: stale PENDING (or error) after
				// DONE/CANCELED. State must not regress.
				uc.recordAnomaly("stale_notification")
			}
			slog.Warn("ignoring notification against terminal state",
				"transaction_id", cur.ID,
				"current", string(cur.Status),
				"reported", n.Status,
			)
			return nil
		}

		if !cur.Status.CanTransitionTo(target) {
			// For instance DONE reported while still DRAFT. Not silently
			// resolvable; park in ERROR with the raw status for diagnosis.
			uc.recordAnomaly("invalid_transition")
			cur.GatewayStatus = n.Status
			cur.Status = domain.StatusError
			cur.LastError = fmt.Sprintf("gateway reported %q while transaction was %s", n.Status, oldStatus)
			applied = true
			return nil
		}

		cur.GatewayStatus = n.Status
		if n.ApprovalCode != "" {
			cur.ApprovalCode = n.ApprovalCode
		}
		if n.PaymentMethod != "" {
			cur.PaymentMethod = n.PaymentMethod
		}
		if target == domain.StatusError {
			cur.LastError = fmt.Sprintf("gateway reported status %q", n.Status)
		} else {
			cur.LastError = ""
		}
		cur.Status = target
		applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied {
		uc.publishStatusChange(updated, oldStatus, updated.Status)
		uc.recordTransitionMetrics(updated)
		uc.notifyMerchant(updated)
		slog.Info("transaction reconciled",
			"transaction_id", updated.ID,
			"external_id", updated.ExternalID,
			"from", string(oldStatus),
			"to", string(updated.Status),
			"gateway_status", n.Status,
			"source", string(source),
		)
	}

	if missingStatus {
		return updated, domain.ErrMissingStatus
	}
	if conflict {
		return updated, fmt.Errorf("%w: transaction %s is %s, gateway reported %q",
			domain.ErrStatusConflict, updated.ID, updated.Status, n.Status)
	}
	return updated, nil
}

func (uc *DefaultPaymentUsecase) recordTransitionMetrics(tx *domain.Transaction) {
	if uc.Metrics == nil {
		return
	}
	switch tx.Status {
	case domain.StatusDone:
		uc.Metrics.RecordCompleted(uc.Environment, tx.Currency, tx.Amount)
	case domain.StatusCanceled:
		uc.Metrics.RecordCanceled(uc.Environment, tx.Currency)
	case domain.StatusError:
		uc.Metrics.RecordError(uc.Environment, tx.Currency)
	}
}

func (uc *DefaultPaymentUsecase) notifyMerchant(tx *domain.Transaction) {
	if tx.CallbackURL == "" || !tx.Status.IsTerminal() {
		return
	}
	notifier.SendCallback(tx.CallbackURL, notifier.CallbackPayload{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		ExternalID:    tx.ExternalID,
		Status:        string(tx.Status),
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		ApprovalCode:  tx.ApprovalCode,
		ConfirmedAt:   time.Now(),
	})
}

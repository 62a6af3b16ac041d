package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/negdi"
)

// CreatePayment drives the checkout flow: draft transaction, one gateway
// create-order call, then the atomic DRAFT -> PENDING transition that persists
// tranid and checkid. Idempotent by merchant reference - once an external
// order exists for a reference, repeated calls return it instead of creating
// a second one.
func (uc *DefaultPaymentUsecase) CreatePayment(ctx context.Context, input domain.CreatePaymentInput) (*domain.CreatePaymentOutput, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	reference := input.Reference
	if reference == "" {
		reference = uc.newReference()
	} else if !negdi.IsValidReference(reference) {
		return nil, domain.ErrInvalidReference
	}

	existing, err := uc.TxRepo.FindByReference(ctx, reference)
	if err == nil {
		// DRAFT means an earlier attempt never got an external order;
		// retry the gateway call on the same row. Anything else already
		// holds (or held) an external order - never create a second one.
		if existing.Status == domain.StatusDraft {
			return uc.placeGatewayOrder(ctx, existing)
		}
		return &domain.CreatePaymentOutput{
			TransactionID: existing.ID,
			Reference:     existing.Reference,
			RedirectURL:   existing.PaymentURL,
			Status:        existing.Status,
		}, nil
	}
	if !errors.Is(err, domain.ErrCorrelationNotFound) {
		return nil, err
	}

	tx := &domain.Transaction{
		Reference:     reference,
		Status:        domain.StatusDraft,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Description:   input.Description,
		CustomerEmail: input.CustomerEmail,
		CallbackURL:   input.CallbackURL,
	}
	if err := uc.TxRepo.CreateTransaction(ctx, tx); err != nil {
		// Two concurrent creates can both miss the lookup above; the unique
		// index decides the winner and the loser returns the winner's row.
		if errors.Is(err, domain.ErrDuplicateReference) {
			winner, ferr := uc.TxRepo.FindByReference(ctx, reference)
			if ferr != nil {
				return nil, err
			}
			return &domain.CreatePaymentOutput{
				TransactionID: winner.ID,
				Reference:     winner.Reference,
				RedirectURL:   winner.PaymentURL,
				Status:        winner.Status,
			}, nil
		}
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordCreated(uc.Environment, tx.Currency, tx.Amount)
	}

	return uc.placeGatewayOrder(ctx, tx)
}

func (uc *DefaultPaymentUsecase) placeGatewayOrder(ctx context.Context, tx *domain.Transaction) (*domain.CreatePaymentOutput, error) {
	details := domain.OrderDetails{
		Reference:     tx.Reference,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Description:   tx.Description,
		CustomerEmail: tx.CustomerEmail,
		ReturnURL:     uc.ReturnURL,
	}

	started := time.Now()
	result, err := uc.Gateway.CreateOrder(ctx, uc.Creds, details)
	if uc.Metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		uc.Metrics.ObserveGatewayRequest(negdi.CreateOrderEndpoint, outcome, started)
	}
	if err != nil {
		// The row stays DRAFT: a retry with the same reference may still
		// succeed, and no external order exists to correlate against.
		if _, uerr := uc.TxRepo.ProcessStatusTransition(ctx, tx.ID, func(cur *domain.Transaction) error {
			cur.LastError = err.Error()
			return nil
		}); uerr != nil {
			slog.Error("failed to record create-order failure", "transaction_id", tx.ID, "error", uerr.Error())
		}
		slog.Error("gateway create-order failed", "reference", tx.Reference, "error", err.Error())
		return nil, err
	}

	updated, err := uc.TxRepo.ProcessStatusTransition(ctx, tx.ID, func(cur *domain.Transaction) error {
		if cur.Status != domain.StatusDraft {
			// Concurrent create already attached an external order.
			return nil
		}
		cur.ExternalID = result.ExternalID
		cur.CheckToken = result.CheckToken
		cur.PaymentURL = result.RedirectURL
		cur.GatewayStatus = result.Status
		cur.LastError = ""
		cur.Status = domain.StatusPending
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishStatusChange(updated, domain.StatusDraft, domain.StatusPending)
	slog.Info("payment order created",
		"transaction_id", updated.ID,
		"reference", updated.Reference,
		"external_id", updated.ExternalID,
	)

	return &domain.CreatePaymentOutput{
		TransactionID: updated.ID,
		Reference:     updated.Reference,
		RedirectURL:   updated.PaymentURL,
		Status:        updated.Status,
	}, nil
}

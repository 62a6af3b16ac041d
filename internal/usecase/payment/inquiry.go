package usecase

import (
	"context"
	"time"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/negdi"
)

// HandleReturn processes the browser redirect back from the hosted payment
// page. The redirect parameters only correlate - the authoritative status
// comes from an ec1098 inquiry, not from anything the browser carried.
func (uc *DefaultPaymentUsecase) HandleReturn(ctx context.Context, externalID, checkToken string) (*domain.Transaction, error) {
	uc.recordNotification(domain.SourceReturn)

	tx, err := uc.TxRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		uc.recordAnomaly("unmatched_return")
		return nil, err
	}

	// The check token was issued to us alongside the tranid; a mismatching
	// one in the redirect is not trusted with an inquiry.
	if tx.CheckToken != "" && tx.CheckToken != checkToken {
		uc.recordAnomaly("check_token_mismatch")
		return nil, domain.ErrUntrustedNotification
	}

	started := time.Now()
	resp, err := uc.Gateway.InquireStatus(ctx, uc.Creds, externalID, checkToken)
	if uc.Metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		uc.Metrics.ObserveGatewayRequest(negdi.InquiryEndpoint, outcome, started)
	}
	if err != nil {
		return nil, err
	}

	n := domain.GatewayNotification{
		ExternalID:    resp.ExternalID,
		Reference:     resp.Reference,
		Status:        resp.Status,
		ApprovalCode:  resp.ApprovalCode,
		PaymentMethod: resp.PaymentMethod,
		Amount:        resp.Amount,
		Currency:      resp.Currency,
		Signature:     resp.Signature,
		Fields:        resp.Fields,
	}
	return uc.reconcile(ctx, tx.ID, n, domain.SourceInquiry)
}

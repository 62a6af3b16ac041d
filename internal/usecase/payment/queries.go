package usecase

import (
	"context"

	"github.com/negdipay/negdi-payment-service/internal/domain"
)

func (uc *DefaultPaymentUsecase) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.TxRepo.GetTransactionByID(ctx, id)
}

func (uc *DefaultPaymentUsecase) GetTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	return uc.TxRepo.FindByReference(ctx, reference)
}

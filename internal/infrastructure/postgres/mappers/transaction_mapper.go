package mappers

import (
	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/postgres/models"
)

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:            tx.ID,
		Reference:     tx.Reference,
		ExternalID:    tx.ExternalID,
		CheckToken:    tx.CheckToken,
		Status:        tx.Status,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Description:   tx.Description,
		CustomerEmail: tx.CustomerEmail,
		CallbackURL:   tx.CallbackURL,
		PaymentURL:    tx.PaymentURL,
		GatewayStatus: tx.GatewayStatus,
		ApprovalCode:  tx.ApprovalCode,
		PaymentMethod: tx.PaymentMethod,
		LastError:     tx.LastError,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:            model.ID,
		Reference:     model.Reference,
		ExternalID:    model.ExternalID,
		CheckToken:    model.CheckToken,
		Status:        model.Status,
		Amount:        model.Amount,
		Currency:      model.Currency,
		Description:   model.Description,
		CustomerEmail: model.CustomerEmail,
		CallbackURL:   model.CallbackURL,
		PaymentURL:    model.PaymentURL,
		GatewayStatus: model.GatewayStatus,
		ApprovalCode:  model.ApprovalCode,
		PaymentMethod: model.PaymentMethod,
		LastError:     model.LastError,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

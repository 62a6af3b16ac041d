package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/negdipay/negdi-payment-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

func (r *DefaultTransactionRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	model := mappers.ToGORMTransaction(tx)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, tx.Reference)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	tx.CreatedAt = model.CreatedAt
	tx.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultTransactionRepository) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCorrelationNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&model, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCorrelationNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

// FindByExternalID enforces the uniqueness invariant: a second row holding the
// same tranid is a data-integrity violation, reported - never resolved by
// silently picking the first match.
func (r *DefaultTransactionRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.Transaction, error) {
	var found []models.TransactionModel
	if err := r.DB.WithContext(ctx).
		Where("external_id = ?", externalID).
		Limit(2).
		Find(&found).Error; err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, domain.ErrCorrelationNotFound
	case 1:
		return mappers.ToDomainTransaction(&found[0]), nil
	default:
		return nil, fmt.Errorf("%w: external_id=%s", domain.ErrAmbiguousCorrelation, externalID)
	}
}

// ProcessStatusTransition serializes state changes per transaction with a
// SELECT ... FOR UPDATE row lock, so concurrent duplicate notifications cannot
// race the state machine. fn sees the current row and mutates the domain
// object; the whole thing commits or rolls back as one database transaction.
func (r *DefaultTransactionRepository) ProcessStatusTransition(ctx context.Context, id string, fn func(tx *domain.Transaction) error) (*domain.Transaction, error) {
	var result *domain.Transaction

	err := r.DB.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		var model models.TransactionModel
		if err := dbtx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCorrelationNotFound
			}
			return err
		}

		current := mappers.ToDomainTransaction(&model)
		if err := fn(current); err != nil {
			return err
		}

		updated := mappers.ToGORMTransaction(current)
		updated.CreatedAt = model.CreatedAt
		if err := dbtx.Save(updated).Error; err != nil {
			return fmt.Errorf("failed to persist status transition: %w", err)
		}

		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

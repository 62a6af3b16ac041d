package domain

import "context"

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*Transaction, error)
	// FindByReference returns ErrCorrelationNotFound when nothing matches.
	FindByReference(ctx context.Context, reference string) (*Transaction, error)
	// FindByExternalID returns ErrCorrelationNotFound when nothing matches and
	// ErrAmbiguousCorrelation when more than one row holds the external id.
	FindByExternalID(ctx context.Context, externalID string) (*Transaction, error)
	// ProcessStatusTransition loads the transaction under a row-level lock,
	// runs fn against the current state and persists the mutated transaction
	// in the same database transaction. fn returning an error rolls back.
	// Concurrent notifications for the same transaction serialize here.
	ProcessStatusTransition(ctx context.Context, id string, fn func(tx *Transaction) error) (*Transaction, error)
}

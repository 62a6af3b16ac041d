package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/negdipay/negdi-payment-service/internal/domain"
)

// fakeRepo is an in-memory TransactionRepository. ProcessStatusTransition
// serializes on a mutex the way the real implementation serializes on the
// row lock.
type fakeRepo struct {
	mu     sync.Mutex
	nextID int
	txs    map[string]*domain.Transaction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{txs: map[string]*domain.Transaction{}}
}

func (r *fakeRepo) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.txs {
		if existing.Reference == tx.Reference {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, tx.Reference)
		}
	}
	r.nextID++
	tx.ID = fmt.Sprintf("id-%d", r.nextID)
	tx.CreatedAt = time.Now()
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *fakeRepo) GetTransactionByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, domain.ErrCorrelationNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeRepo) FindByReference(_ context.Context, reference string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.Reference == reference {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, domain.ErrCorrelationNotFound
}

func (r *fakeRepo) FindByExternalID(_ context.Context, externalID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *domain.Transaction
	for _, tx := range r.txs {
		if tx.ExternalID == externalID {
			if found != nil {
				return nil, domain.ErrAmbiguousCorrelation
			}
			found = tx
		}
	}
	if found == nil {
		return nil, domain.ErrCorrelationNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *fakeRepo) ProcessStatusTransition(_ context.Context, id string, fn func(tx *domain.Transaction) error) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, domain.ErrCorrelationNotFound
	}
	cp := *tx
	if err := fn(&cp); err != nil {
		return nil, err
	}
	cp.UpdatedAt = time.Now()
	r.txs[id] = &cp
	out := cp
	return &out, nil
}

// mustGet reads the stored state directly, bypassing the repository interface.
func (r *fakeRepo) mustGet(id string) domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.txs[id]
}

type fakeGateway struct {
	mu           sync.Mutex
	createCalls  int
	inquireCalls int

	createFn  func(details domain.OrderDetails) (*domain.CreateOrderResult, error)
	inquireFn func(externalID, checkToken string) (*domain.StatusResponse, error)
}

func (g *fakeGateway) CreateOrder(_ context.Context, _ domain.GatewayCredentials, details domain.OrderDetails) (*domain.CreateOrderResult, error) {
	g.mu.Lock()
	g.createCalls++
	g.mu.Unlock()
	if g.createFn != nil {
		return g.createFn(details)
	}
	return &domain.CreateOrderResult{
		RedirectURL: "https://hosted.negdi.mn/pay/TX99",
		ExternalID:  "TX99",
		CheckToken:  "CK1",
		Status:      "Preparing",
	}, nil
}

func (g *fakeGateway) InquireStatus(_ context.Context, _ domain.GatewayCredentials, externalID, checkToken string) (*domain.StatusResponse, error) {
	g.mu.Lock()
	g.inquireCalls++
	g.mu.Unlock()
	if g.inquireFn != nil {
		return g.inquireFn(externalID, checkToken)
	}
	return &domain.StatusResponse{ExternalID: externalID, Status: "Approved"}, nil
}

type fakeDedup struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeDedup() *fakeDedup {
	return &fakeDedup{seen: map[string]bool{}}
}

func (d *fakeDedup) MarkSeen(_ context.Context, payloadHash string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	if d.seen[payloadHash] {
		return true, nil
	}
	d.seen[payloadHash] = true
	return false, nil
}

func newTestUsecase(repo *fakeRepo, gw *fakeGateway) *DefaultPaymentUsecase {
	return NewDefaultPaymentUsecase(
		repo,
		gw,
		nil,
		nil,
		nil,
		nil,
		domain.GatewayCredentials{
			BaseURL:    "http://gateway.test",
			TerminalID: "TERM-1",
			Username:   "merchant",
			Password:   "secret",
		},
		"test",
		"https://pay.example.mn/payments/negdi/return",
	)
}

func seedTransaction(repo *fakeRepo, status domain.TransactionStatus) *domain.Transaction {
	tx := &domain.Transaction{
		Reference:  "ORD-1",
		ExternalID: "TX99",
		CheckToken: "CK1",
		Status:     status,
		Amount:     1000,
		Currency:   "MNT",
	}
	if err := repo.CreateTransaction(context.Background(), tx); err != nil {
		panic(err)
	}
	return tx
}

func notification(status string) domain.GatewayNotification {
	return domain.GatewayNotification{
		ExternalID: "TX99",
		Reference:  "ORD-1",
		Status:     status,
		Fields: map[string]string{
			"tranid": "TX99",
			"status": status,
		},
	}
}

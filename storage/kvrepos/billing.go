package kvrepos

import (
	"context"
	"sync"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/billing"
	"github.com/brightpath/academia/storage/kv"
)

type paymentRepository struct {
	mu     sync.RWMutex
	st     kv.Store
	logger core.Logger
	seed   []billing.Payment
}

var _ billing.Repository = (*paymentRepository)(nil)

func NewPaymentRepository(st kv.Store, logger core.Logger, seed []billing.Payment) billing.Repository {
	return &paymentRepository{st: st, logger: logger, seed: seed}
}

func (repo *paymentRepository) load() []billing.Payment {
	var payments []billing.Payment
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyPayments, &payments, repo.seed)
	return payments
}

func (repo *paymentRepository) save(payments []billing.Payment) error {
	return kv.SaveSlice(context.Background(), repo.st, keyPayments, payments)
}

func (repo *paymentRepository) AppendPayment(p billing.Payment) (billing.Payment, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	payments := append(repo.load(), p)
	if err := repo.save(payments); err != nil {
		return billing.Payment{}, err
	}
	return p, nil
}

func (repo *paymentRepository) QueryPaymentsByStudent(studentID string) ([]billing.Payment, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var matches []billing.Payment
	for _, p := range repo.load() {
		if p.StudentID == studentID {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (repo *paymentRepository) QueryAllPayments() ([]billing.Payment, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load(), nil
}

func (repo *paymentRepository) GetPaymentByInvoiceID(invoiceID string) (billing.Payment, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, p := range repo.load() {
		if p.InvoiceID == invoiceID {
			return p, nil
		}
	}
	return billing.Payment{}, billing.ErrNotFound
}

func (repo *paymentRepository) UpdatePayment(p billing.Payment) (billing.Payment, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	payments := repo.load()
	for i := range payments {
		if payments[i].InvoiceID == p.InvoiceID {
			payments[i] = p
			if err := repo.save(payments); err != nil {
				return billing.Payment{}, err
			}
			return p, nil
		}
	}
	return billing.Payment{}, billing.ErrNotFound
}

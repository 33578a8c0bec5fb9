package memory

import (
	"context"
	"fmt"

	"github.com/simaogato/investments-backend/internal/domain"
)

// BankRepo implements domain.BankRepository on a Store
type BankRepo struct {
	s *Store
}

// GetByName retrieves a bank by name, case-insensitively
func (r *BankRepo) GetByName(ctx context.Context, name string) (*domain.Bank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bank, ok := r.s.banks[domain.BankKey(name)]
	if !ok {
		return nil, fmt.Errorf("bank %q: %w", name, domain.ErrNotFound)
	}
	return &bank, nil
}

// Create adds a bank to the catalog
func (r *BankRepo) Create(ctx context.Context, bank *domain.Bank) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := domain.BankKey(bank.Name)
	if _, ok := r.s.banks[key]; ok {
		return fmt.Errorf("bank %q: %w", bank.Name, domain.ErrConflict)
	}
	r.s.banks[key] = *bank
	r.s.bankOrder = append(r.s.bankOrder, key)
	return nil
}

// List retrieves the catalog in insertion order
func (r *BankRepo) List(ctx context.Context) ([]*domain.Bank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Bank, 0, len(r.s.bankOrder))
	for _, key := range r.s.bankOrder {
		bank := r.s.banks[key]
		out = append(out, &bank)
	}
	return out, nil
}

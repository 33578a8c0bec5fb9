package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/investments-backend/internal/domain"
)

// InvestorRepo implements domain.InvestorRepository on a Store
type InvestorRepo struct {
	s *Store
}

// GetByTaxID retrieves an investor, with its investments, by tax ID
func (r *InvestorRepo) GetByTaxID(ctx context.Context, taxID domain.TaxID) (*domain.Investor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byTaxID[taxID]
	if !ok {
		return nil, fmt.Errorf("investor %s: %w", taxID, domain.ErrNotFound)
	}
	return r.s.assemble(id), nil
}

// Create registers a new investor; its Investments field is ignored
func (r *InvestorRepo) Create(ctx context.Context, investor *domain.Investor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byTaxID[investor.TaxID]; ok {
		return fmt.Errorf("investor %s: %w", investor.TaxID, domain.ErrConflict)
	}
	if _, ok := r.s.investors[investor.ID]; ok {
		return fmt.Errorf("investor %s: %w", investor.ID, domain.ErrConflict)
	}

	r.s.investors[investor.ID] = domain.Investor{ID: investor.ID, TaxID: investor.TaxID}
	r.s.byTaxID[investor.TaxID] = investor.ID
	r.s.investorOrder = append(r.s.investorOrder, investor.ID)
	return nil
}

// Delete removes an investor and cascades to its investments
func (r *InvestorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	investor, ok := r.s.investors[id]
	if !ok {
		return fmt.Errorf("investor %s: %w", id, domain.ErrNotFound)
	}

	r.s.removeInvestments(func(inv *domain.Investment) bool { return inv.InvestorID == id })
	delete(r.s.investors, id)
	delete(r.s.byTaxID, investor.TaxID)
	for i, v := range r.s.investorOrder {
		if v == id {
			r.s.investorOrder = append(r.s.investorOrder[:i], r.s.investorOrder[i+1:]...)
			break
		}
	}
	return nil
}

// List retrieves every investor in registration order
func (r *InvestorRepo) List(ctx context.Context) ([]*domain.Investor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Investor, 0, len(r.s.investorOrder))
	for _, id := range r.s.investorOrder {
		out = append(out, r.s.assemble(id))
	}
	return out, nil
}

package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/investments-backend/internal/domain"
)

// InvestmentRepo implements domain.InvestmentRepository on a Store
type InvestmentRepo struct {
	s *Store
}

// GetByID retrieves an investment with its daily yields
func (r *InvestmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	inv, ok := r.s.investments[id]
	if !ok {
		return nil, fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
	}
	return cloneInvestment(inv), nil
}

// Update overwrites an investment in place, keeping its position and owner
func (r *InvestmentRepo) Update(ctx context.Context, investment *domain.Investment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.investments[investment.ID]
	if !ok {
		return fmt.Errorf("investment %s: %w", investment.ID, domain.ErrNotFound)
	}

	updated := cloneInvestment(investment)
	updated.InvestorID = current.InvestorID
	updated.LinkYields()
	r.s.investments[investment.ID] = updated
	return nil
}

// Delete removes an investment and its daily yields
func (r *InvestmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.removeInvestments(func(inv *domain.Investment) bool { return inv.ID == id }) == 0 {
		return fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByInvestor retrieves the investments owned by an investor
func (r *InvestmentRepo) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]*domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.investmentsOf(investorID), nil
}

// ListByTaxID retrieves the investments owned by the investor with the given tax ID
func (r *InvestmentRepo) ListByTaxID(ctx context.Context, taxID domain.TaxID) ([]*domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byTaxID[taxID]
	if !ok {
		return []*domain.Investment{}, nil
	}
	return r.s.investmentsOf(id), nil
}

// List retrieves every investment in insertion order
func (r *InvestmentRepo) List(ctx context.Context) ([]*domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Investment, 0, len(r.s.investmentOrder))
	for _, id := range r.s.investmentOrder {
		out = append(out, cloneInvestment(r.s.investments[id]))
	}
	return out, nil
}

// ReplaceForInvestor swaps the investor's investments for the given ones
// The whole replacement happens inside one critical section
func (r *InvestmentRepo) ReplaceForInvestor(ctx context.Context, investorID uuid.UUID, investments []*domain.Investment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.investors[investorID]; !ok {
		return fmt.Errorf("investor %s: %w", investorID, domain.ErrNotFound)
	}

	// Work on copies so a failed insert leaves the previous state in place
	prevInvestments := make(map[uuid.UUID]*domain.Investment, len(r.s.investments))
	for k, v := range r.s.investments {
		prevInvestments[k] = v
	}
	prevOrder := append([]uuid.UUID(nil), r.s.investmentOrder...)

	r.s.removeInvestments(func(inv *domain.Investment) bool { return inv.InvestorID == investorID })
	if err := r.s.insertInvestments(investorID, investments); err != nil {
		r.s.investments = prevInvestments
		r.s.investmentOrder = prevOrder
		return err
	}
	return nil
}

// AddForInvestor appends investments to the investor's existing ones
func (r *InvestmentRepo) AddForInvestor(ctx context.Context, investorID uuid.UUID, investments []*domain.Investment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.investors[investorID]; !ok {
		return fmt.Errorf("investor %s: %w", investorID, domain.ErrNotFound)
	}
	return r.s.insertInvestments(investorID, investments)
}

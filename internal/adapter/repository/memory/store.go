// Package memory provides in-process implementations of the repository ports.
// Every repository returned by a Store shares the same state, so cascades and
// joins behave like the Postgres adapter. Values are copied on the way in and
// out; callers never hold references into the store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/investments-backend/internal/domain"
)

// Store holds the shared state behind the memory repositories
type Store struct {
	mu sync.RWMutex

	investors     map[uuid.UUID]domain.Investor
	investorOrder []uuid.UUID
	byTaxID       map[domain.TaxID]uuid.UUID

	investments     map[uuid.UUID]*domain.Investment
	investmentOrder []uuid.UUID

	banks     map[string]domain.Bank
	bankOrder []string
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		investors:   make(map[uuid.UUID]domain.Investor),
		byTaxID:     make(map[domain.TaxID]uuid.UUID),
		investments: make(map[uuid.UUID]*domain.Investment),
		banks:       make(map[string]domain.Bank),
	}
}

// Investors returns the investor repository view of the store
func (s *Store) Investors() *InvestorRepo { return &InvestorRepo{s: s} }

// Investments returns the investment repository view of the store
func (s *Store) Investments() *InvestmentRepo { return &InvestmentRepo{s: s} }

// Banks returns the bank repository view of the store
func (s *Store) Banks() *BankRepo { return &BankRepo{s: s} }

// PingContext always succeeds; it lets the store stand in for a database in health checks
func (s *Store) PingContext(ctx context.Context) error {
	return ctx.Err()
}

// investmentsOf returns copies of the investor's investments in insertion order.
// Callers must hold at least a read lock.
func (s *Store) investmentsOf(investorID uuid.UUID) []*domain.Investment {
	out := make([]*domain.Investment, 0)
	for _, id := range s.investmentOrder {
		inv := s.investments[id]
		if inv.InvestorID == investorID {
			out = append(out, cloneInvestment(inv))
		}
	}
	return out
}

// assemble builds a detached investor with its investments.
// Callers must hold at least a read lock.
func (s *Store) assemble(id uuid.UUID) *domain.Investor {
	inv := s.investors[id]
	owned := s.investmentsOf(id)
	out := &domain.Investor{
		ID:          inv.ID,
		TaxID:       inv.TaxID,
		Investments: make([]domain.Investment, 0, len(owned)),
	}
	for _, o := range owned {
		out.Investments = append(out.Investments, *o)
	}
	return out
}

// removeInvestments drops every investment for which drop returns true.
// Callers must hold the write lock.
func (s *Store) removeInvestments(drop func(*domain.Investment) bool) int {
	removed := 0
	s.investmentOrder = slices.DeleteFunc(s.investmentOrder, func(id uuid.UUID) bool {
		if drop(s.investments[id]) {
			delete(s.investments, id)
			removed++
			return true
		}
		return false
	})
	return removed
}

// insertInvestments stores copies of the given investments.
// Callers must hold the write lock.
func (s *Store) insertInvestments(investorID uuid.UUID, investments []*domain.Investment) error {
	for _, inv := range investments {
		if inv.InvestorID != investorID {
			return fmt.Errorf("investment %s belongs to another investor", inv.ID)
		}
		if _, exists := s.investments[inv.ID]; exists {
			return fmt.Errorf("investment %s: %w", inv.ID, domain.ErrConflict)
		}
	}
	for _, inv := range investments {
		s.investments[inv.ID] = cloneInvestment(inv)
		s.investmentOrder = append(s.investmentOrder, inv.ID)
	}
	return nil
}

func cloneInvestment(in *domain.Investment) *domain.Investment {
	out := *in
	if in.BankCode != nil {
		code := *in.BankCode
		out.BankCode = &code
	}
	if in.InitialUnitCount != nil {
		count := *in.InitialUnitCount
		out.InitialUnitCount = &count
	}
	out.DailyYields = slices.Clone(in.DailyYields)
	if out.DailyYields == nil {
		out.DailyYields = []domain.DailyYield{}
	}
	return &out
}

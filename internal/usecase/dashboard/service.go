package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/investments-backend/internal/domain"
)

// BankSummary is a distinct bank an investor holds investments with
type BankSummary struct {
	Name string
	Code *int
}

// TypeBreakdown aggregates the investments of a single type
type TypeBreakdown struct {
	Type     domain.InvestmentType
	Count    int
	Invested decimal.Decimal
	Current  decimal.Decimal
}

// PortfolioSummary represents the calculated position of an investor
type PortfolioSummary struct {
	TaxID       domain.TaxID
	Investments int
	Invested    decimal.Decimal
	Current     decimal.Decimal
	Profit      decimal.Decimal
	ByType      []TypeBreakdown
}

// DashboardService handles read-only views over an investor's portfolio
type DashboardService struct {
	InvestorRepo   domain.InvestorRepository
	InvestmentRepo domain.InvestmentRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	investorRepo domain.InvestorRepository,
	investmentRepo domain.InvestmentRepository,
) *DashboardService {
	return &DashboardService{
		InvestorRepo:   investorRepo,
		InvestmentRepo: investmentRepo,
	}
}

// ListBanks returns the distinct banks across the investor's investments
// Ordered by first appearance; an unknown investor yields an empty list
func (s *DashboardService) ListBanks(ctx context.Context, taxID domain.TaxID) ([]BankSummary, error) {
	investments, err := s.InvestmentRepo.ListByTaxID(ctx, taxID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	type key struct {
		name string
		code int
		has  bool
	}
	seen := make(map[key]struct{}, len(investments))
	banks := make([]BankSummary, 0, len(investments))
	for _, inv := range investments {
		k := key{name: inv.BankName}
		if inv.BankCode != nil {
			k.code, k.has = *inv.BankCode, true
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		banks = append(banks, BankSummary{Name: inv.BankName, Code: inv.BankCode})
	}
	return banks, nil
}

// ListInvestmentTypes returns the distinct types across the investor's investments
// Ordered by first appearance; an unknown investor yields an empty list
func (s *DashboardService) ListInvestmentTypes(ctx context.Context, taxID domain.TaxID) ([]domain.InvestmentType, error) {
	investments, err := s.InvestmentRepo.ListByTaxID(ctx, taxID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	seen := make(map[domain.InvestmentType]struct{})
	types := make([]domain.InvestmentType, 0)
	for _, inv := range investments {
		if _, ok := seen[inv.Type]; ok {
			continue
		}
		seen[inv.Type] = struct{}{}
		types = append(types, inv.Type)
	}
	return types, nil
}

// GetPortfolioSummary calculates the invested and current value of an investor's portfolio
// Logic:
//   - Invested: sum of initial amounts
//   - Current: accumulated amount of each investment's latest daily yield,
//     or its initial amount when it has no yields yet
//   - Profit: Current - Invested
func (s *DashboardService) GetPortfolioSummary(ctx context.Context, taxID domain.TaxID) (*PortfolioSummary, error) {
	investor, err := s.InvestorRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		TaxID:       investor.TaxID,
		Investments: len(investor.Investments),
		Invested:    decimal.Zero,
		Current:     decimal.Zero,
		ByType:      []TypeBreakdown{},
	}

	index := make(map[domain.InvestmentType]int)
	for i := range investor.Investments {
		inv := &investor.Investments[i]

		current := inv.InitialAmount
		if latest, ok := inv.LatestYield(); ok {
			current = latest.AccumulatedAmount
		}

		summary.Invested = summary.Invested.Add(inv.InitialAmount)
		summary.Current = summary.Current.Add(current)

		pos, ok := index[inv.Type]
		if !ok {
			pos = len(summary.ByType)
			index[inv.Type] = pos
			summary.ByType = append(summary.ByType, TypeBreakdown{
				Type:     inv.Type,
				Invested: decimal.Zero,
				Current:  decimal.Zero,
			})
		}
		b := &summary.ByType[pos]
		b.Count++
		b.Invested = b.Invested.Add(inv.InitialAmount)
		b.Current = b.Current.Add(current)
	}

	summary.Profit = summary.Current.Sub(summary.Invested)
	return summary, nil
}

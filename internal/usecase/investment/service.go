package investment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/investments-backend/internal/domain"
)

// Operation labels reported to the Recorder
const (
	OpReplaced = "replaced"
	OpAdded    = "added"
	OpUpdated  = "updated"
	OpDeleted  = "deleted"
)

// Recorder receives the number of investments touched by each mutation
type Recorder interface {
	RecordInvestments(op string, n int)
}

type noopRecorder struct{}

func (noopRecorder) RecordInvestments(string, int) {}

// DailyYieldInput is a daily yield whose date has already been parsed
type DailyYieldInput struct {
	Date              time.Time
	UnitPrice         decimal.Decimal
	DailyRate         decimal.Decimal
	AccumulatedAmount decimal.Decimal
}

// InvestmentInput is an investment record validated at the transport boundary
// The type is already parsed; the bank code is derived from the catalog
type InvestmentInput struct {
	BankName         string
	Type             domain.InvestmentType
	Name             string
	InitialAmount    decimal.Decimal
	InitialUnitPrice decimal.NullDecimal
	YieldRate        decimal.Decimal
	InitialUnitCount *int
	DailyYields      []DailyYieldInput
}

// InvestmentService handles investment-related operations
type InvestmentService struct {
	InvestorRepo   domain.InvestorRepository
	InvestmentRepo domain.InvestmentRepository
	BankRepo       domain.BankRepository
	Recorder       Recorder
}

// NewInvestmentService creates a new InvestmentService instance
func NewInvestmentService(
	investorRepo domain.InvestorRepository,
	investmentRepo domain.InvestmentRepository,
	bankRepo domain.BankRepository,
) *InvestmentService {
	return &InvestmentService{
		InvestorRepo:   investorRepo,
		InvestmentRepo: investmentRepo,
		BankRepo:       bankRepo,
		Recorder:       noopRecorder{},
	}
}

// WithRecorder sets the recorder notified after every successful mutation
func (s *InvestmentService) WithRecorder(r Recorder) *InvestmentService {
	if r != nil {
		s.Recorder = r
	}
	return s
}

// ReplaceInvestments replaces every investment owned by the investor with the given list
// Logic: the investor must already exist and the list must not be empty. Every input is
// converted and validated before anything is written; the old investments and their daily
// yields are then deleted and the new ones inserted with fresh IDs in one transaction
func (s *InvestmentService) ReplaceInvestments(ctx context.Context, taxID domain.TaxID, inputs []InvestmentInput) ([]*domain.Investment, error) {
	investor, investments, err := s.prepare(ctx, taxID, inputs)
	if err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.ReplaceForInvestor(ctx, investor.ID, investments); err != nil {
		return nil, fmt.Errorf("failed to replace investments: %w", err)
	}

	s.Recorder.RecordInvestments(OpReplaced, len(investments))
	return investments, nil
}

// AddInvestments appends the given investments to the ones the investor already owns
// Same preconditions as ReplaceInvestments; existing investments are left untouched
func (s *InvestmentService) AddInvestments(ctx context.Context, taxID domain.TaxID, inputs []InvestmentInput) ([]*domain.Investment, error) {
	investor, investments, err := s.prepare(ctx, taxID, inputs)
	if err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.AddForInvestor(ctx, investor.ID, investments); err != nil {
		return nil, fmt.Errorf("failed to add investments: %w", err)
	}

	s.Recorder.RecordInvestments(OpAdded, len(investments))
	return investments, nil
}

// UpdateInvestment overwrites every field of an investment and wholly replaces its daily yields
// The investment keeps its ID and owner; nothing is written when validation fails
func (s *InvestmentService) UpdateInvestment(ctx context.Context, id uuid.UUID, input InvestmentInput) (*domain.Investment, error) {
	existing, err := s.InvestmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.build(ctx, input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.InvestorID = existing.InvestorID
	updated.LinkYields()

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update investment: %w", err)
	}

	s.Recorder.RecordInvestments(OpUpdated, 1)
	return updated, nil
}

// DeleteInvestment removes a single investment together with its daily yields
func (s *InvestmentService) DeleteInvestment(ctx context.Context, id uuid.UUID) error {
	if err := s.InvestmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Recorder.RecordInvestments(OpDeleted, 1)
	return nil
}

// GetInvestment retrieves a single investment with its daily yields
func (s *InvestmentService) GetInvestment(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	return s.InvestmentRepo.GetByID(ctx, id)
}

// ListInvestments retrieves every investment of every investor
func (s *InvestmentService) ListInvestments(ctx context.Context) ([]*domain.Investment, error) {
	return s.InvestmentRepo.List(ctx)
}

// ListByTaxID retrieves the investments owned by an investor
// Returns an error wrapping domain.ErrNotFound when the investor is not registered
func (s *InvestmentService) ListByTaxID(ctx context.Context, taxID domain.TaxID) ([]*domain.Investment, error) {
	investor, err := s.InvestorRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	return s.InvestmentRepo.ListByInvestor(ctx, investor.ID)
}

// prepare runs every check shared by replace and add, so that a failure on any
// record leaves storage untouched
func (s *InvestmentService) prepare(ctx context.Context, taxID domain.TaxID, inputs []InvestmentInput) (*domain.Investor, []*domain.Investment, error) {
	if len(inputs) == 0 {
		return nil, nil, domain.ErrEmptyInvestmentList
	}

	investor, err := s.InvestorRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, nil, err
	}

	investments := make([]*domain.Investment, 0, len(inputs))
	for idx, input := range inputs {
		inv, err := s.build(ctx, input)
		if err != nil {
			return nil, nil, fmt.Errorf("investment %d: %w", idx, err)
		}
		if err := inv.Validate(); err != nil {
			return nil, nil, fmt.Errorf("investment %d: %w", idx, err)
		}
		inv.AttachTo(investor.ID)
		investments = append(investments, inv)
	}

	return investor, investments, nil
}

// build converts an input into an unattached investment and derives its bank code
func (s *InvestmentService) build(ctx context.Context, input InvestmentInput) (*domain.Investment, error) {
	code, err := s.bankCode(ctx, input.BankName)
	if err != nil {
		return nil, err
	}

	inv := &domain.Investment{
		BankName:         input.BankName,
		BankCode:         code,
		Type:             input.Type,
		Name:             input.Name,
		InitialAmount:    input.InitialAmount,
		InitialUnitPrice: input.InitialUnitPrice,
		YieldRate:        input.YieldRate,
		InitialUnitCount: input.InitialUnitCount,
		DailyYields:      make([]domain.DailyYield, 0, len(input.DailyYields)),
	}
	for _, y := range input.DailyYields {
		inv.DailyYields = append(inv.DailyYields, domain.DailyYield{
			Date:              y.Date,
			UnitPrice:         y.UnitPrice,
			DailyRate:         y.DailyRate,
			AccumulatedAmount: y.AccumulatedAmount,
		})
	}
	return inv, nil
}

// bankCode looks the bank up in the catalog; unknown banks have no code
func (s *InvestmentService) bankCode(ctx context.Context, name string) (*int, error) {
	bank, err := s.BankRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up bank %q: %w", name, err)
	}
	code := bank.Code
	return &code, nil
}

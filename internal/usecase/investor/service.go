package investor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/investments-backend/internal/domain"
)

// Recorder receives investor lifecycle events
type Recorder interface {
	RecordInvestorRegistered()
	RecordInvestorDeleted()
}

type noopRecorder struct{}

func (noopRecorder) RecordInvestorRegistered() {}
func (noopRecorder) RecordInvestorDeleted()    {}

// InvestorService handles investor registration and removal
type InvestorService struct {
	InvestorRepo domain.InvestorRepository
	Recorder     Recorder
}

// NewInvestorService creates a new InvestorService instance
func NewInvestorService(investorRepo domain.InvestorRepository) *InvestorService {
	return &InvestorService{
		InvestorRepo: investorRepo,
		Recorder:     noopRecorder{},
	}
}

// WithRecorder sets the recorder notified after registrations and deletions
func (s *InvestorService) WithRecorder(r Recorder) *InvestorService {
	if r != nil {
		s.Recorder = r
	}
	return s
}

// Register creates an investor with no investments
// Returns an error wrapping domain.ErrConflict if the tax ID is already registered
func (s *InvestorService) Register(ctx context.Context, taxID domain.TaxID) (*domain.Investor, error) {
	if taxID.IsZero() {
		return nil, domain.ErrInvalidTaxID
	}

	existing, err := s.InvestorRepo.GetByTaxID(ctx, taxID)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("investor %s already registered: %w", taxID, domain.ErrConflict)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to look up investor: %w", err)
	}

	investor := &domain.Investor{
		ID:          uuid.New(),
		TaxID:       taxID,
		Investments: []domain.Investment{},
	}
	if err := s.InvestorRepo.Create(ctx, investor); err != nil {
		return nil, err
	}

	s.Recorder.RecordInvestorRegistered()
	return investor, nil
}

// Get retrieves an investor with every investment it owns
func (s *InvestorService) Get(ctx context.Context, taxID domain.TaxID) (*domain.Investor, error) {
	return s.InvestorRepo.GetByTaxID(ctx, taxID)
}

// List retrieves every investor
func (s *InvestorService) List(ctx context.Context) ([]*domain.Investor, error) {
	return s.InvestorRepo.List(ctx)
}

// Delete removes an investor together with its investments and their daily yields
func (s *InvestorService) Delete(ctx context.Context, taxID domain.TaxID) error {
	investor, err := s.InvestorRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		return err
	}

	if err := s.InvestorRepo.Delete(ctx, investor.ID); err != nil {
		return err
	}

	s.Recorder.RecordInvestorDeleted()
	return nil
}

package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/investments-backend/internal/domain"
)

// BankSeeder handles seeding of the bank catalog
type BankSeeder struct {
	repo  domain.BankRepository
	banks []domain.Bank
}

// NewBankSeeder creates a new BankSeeder for the default catalog
func NewBankSeeder(repo domain.BankRepository) *BankSeeder {
	return &BankSeeder{
		repo:  repo,
		banks: domain.DefaultBanks,
	}
}

// Seed ensures every catalog bank exists in the repository
// If a bank doesn't exist, it creates it. Running it twice is a no-op
func (s *BankSeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, b := range s.banks {
		_, err := s.repo.GetByName(ctx, b.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("failed to look up bank %q: %w", b.Name, err)
		}

		bank := b
		// Validate before creating
		if err := bank.Validate(); err != nil {
			return created, err
		}
		if err := s.repo.Create(ctx, &bank); err != nil {
			return created, fmt.Errorf("failed to create bank %q: %w", b.Name, err)
		}
		created++
	}

	return created, nil
}

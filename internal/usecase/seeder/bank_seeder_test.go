package seeder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/simaogato/investments-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBankRepository is a mock implementation of BankRepository
type MockBankRepository struct {
	mock.Mock
}

func (m *MockBankRepository) GetByName(ctx context.Context, name string) (*domain.Bank, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

func (m *MockBankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockBankRepository) List(ctx context.Context) ([]*domain.Bank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Bank), args.Error(1)
}

func missing(name string) error {
	return fmt.Errorf("bank %q: %w", name, domain.ErrNotFound)
}

func TestBankSeeder_Seed_BanksMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBankRepository)
	seeder := NewBankSeeder(mockRepo)

	// Mock GetByName to return "not found" errors for every bank
	for _, b := range domain.DefaultBanks {
		mockRepo.On("GetByName", ctx, b.Name).Return(nil, missing(b.Name))
		expected := b
		mockRepo.On("Create", ctx, mock.MatchedBy(func(bank *domain.Bank) bool {
			return bank.Name == expected.Name && bank.Code == expected.Code
		})).Return(nil)
	}

	// Execute
	created, err := seeder.Seed(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, len(domain.DefaultBanks), created)
	mockRepo.AssertNumberOfCalls(t, "Create", len(domain.DefaultBanks))
	mockRepo.AssertExpectations(t)
}

func TestBankSeeder_Seed_BanksExist(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBankRepository)
	seeder := NewBankSeeder(mockRepo)

	for _, b := range domain.DefaultBanks {
		bank := b
		mockRepo.On("GetByName", ctx, b.Name).Return(&bank, nil)
	}

	created, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Zero(t, created)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBankSeeder_Seed_PartialCatalog(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBankRepository)
	seeder := NewBankSeeder(mockRepo)

	// Only Nubank is missing
	for _, b := range domain.DefaultBanks {
		bank := b
		if b.Name == "Nubank" {
			mockRepo.On("GetByName", ctx, b.Name).Return(nil, missing(b.Name))
			continue
		}
		mockRepo.On("GetByName", ctx, b.Name).Return(&bank, nil)
	}
	mockRepo.On("Create", ctx, mock.MatchedBy(func(bank *domain.Bank) bool {
		return bank.Name == "Nubank" && bank.Code == 260
	})).Return(nil).Once()

	created, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, created)
	mockRepo.AssertExpectations(t)
}

func TestBankSeeder_Seed_LookupError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBankRepository)
	seeder := NewBankSeeder(mockRepo)

	mockRepo.On("GetByName", ctx, domain.DefaultBanks[0].Name).Return(nil, errors.New("database connection error"))

	created, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database connection error")
	assert.Zero(t, created)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBankSeeder_Seed_CreateError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBankRepository)
	seeder := NewBankSeeder(mockRepo)

	first := domain.DefaultBanks[0].Name
	mockRepo.On("GetByName", ctx, first).Return(nil, missing(first))
	mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("failed to create bank"))

	_, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), first)
}

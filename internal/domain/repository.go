package domain

import (
	"context"

	"github.com/google/uuid"
)

// InvestorRepository defines the interface for investor persistence operations
type InvestorRepository interface {
	// GetByTaxID retrieves an investor, with its investments, by tax ID
	// Returns an error wrapping ErrNotFound if no investor has that tax ID
	GetByTaxID(ctx context.Context, taxID TaxID) (*Investor, error)

	// Create registers a new investor
	// Returns an error wrapping ErrConflict if the tax ID is already registered
	Create(ctx context.Context, investor *Investor) error

	// Delete removes an investor together with every investment and daily yield it owns
	// Returns an error wrapping ErrNotFound if the investor does not exist
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves every investor with its investments
	List(ctx context.Context) ([]*Investor, error)
}

// InvestmentRepository defines the interface for investment persistence operations
// Every method that writes runs as a single storage transaction
type InvestmentRepository interface {
	// GetByID retrieves an investment with its daily yields
	// Returns an error wrapping ErrNotFound if the investment does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// Update overwrites the scalar fields of an investment and replaces its daily yields
	// Returns an error wrapping ErrNotFound if the investment does not exist
	Update(ctx context.Context, investment *Investment) error

	// Delete removes an investment and its daily yields
	// Returns an error wrapping ErrNotFound if the investment does not exist
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByInvestor retrieves the investments owned by an investor
	ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]*Investment, error)

	// ListByTaxID retrieves the investments owned by the investor with the given tax ID
	// Returns an empty slice when the investor does not exist
	ListByTaxID(ctx context.Context, taxID TaxID) ([]*Investment, error)

	// List retrieves every investment
	List(ctx context.Context) ([]*Investment, error)

	// ReplaceForInvestor deletes every investment the investor owns and inserts the given ones
	ReplaceForInvestor(ctx context.Context, investorID uuid.UUID, investments []*Investment) error

	// AddForInvestor inserts the given investments next to the ones the investor already owns
	AddForInvestor(ctx context.Context, investorID uuid.UUID, investments []*Investment) error
}

// BankRepository defines the interface for the bank catalog
type BankRepository interface {
	// GetByName retrieves a bank by name, case-insensitively
	// Returns an error wrapping ErrNotFound if the bank is not catalogued
	GetByName(ctx context.Context, name string) (*Bank, error)

	// Create adds a bank to the catalog
	Create(ctx context.Context, bank *Bank) error

	// List retrieves the whole catalog
	List(ctx context.Context) ([]*Bank, error)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/investments-backend/internal/domain"
)

// bankRepository implements domain.BankRepository
type bankRepository struct {
	db *DB
}

// NewBankRepository creates a new bank repository
func NewBankRepository(db *DB) domain.BankRepository {
	return &bankRepository{db: db}
}

// GetByName retrieves a bank by name, case-insensitively
func (r *bankRepository) GetByName(ctx context.Context, name string) (*domain.Bank, error) {
	query := `
		SELECT name, code
		FROM banks
		WHERE name_key = $1
	`

	var bank domain.Bank
	err := r.db.QueryRowContext(ctx, query, domain.BankKey(name)).Scan(&bank.Name, &bank.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bank %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bank by name: %w", err)
	}
	return &bank, nil
}

// Create adds a bank to the catalog
func (r *bankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	query := `
		INSERT INTO banks (name_key, name, code)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, domain.BankKey(bank.Name), bank.Name, bank.Code)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bank %q: %w", bank.Name, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create bank: %w", err)
	}
	return nil
}

// List retrieves the whole catalog
func (r *bankRepository) List(ctx context.Context) ([]*domain.Bank, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, code FROM banks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	defer rows.Close()

	banks := make([]*domain.Bank, 0)
	for rows.Next() {
		var bank domain.Bank
		if err := rows.Scan(&bank.Name, &bank.Code); err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, &bank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating banks: %w", err)
	}
	return banks, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/investments-backend/internal/domain"
)

// investorRepository implements domain.InvestorRepository
type investorRepository struct {
	db *DB
}

// NewInvestorRepository creates a new investor repository
func NewInvestorRepository(db *DB) domain.InvestorRepository {
	return &investorRepository{db: db}
}

// GetByTaxID retrieves an investor, with its investments, by tax ID
func (r *investorRepository) GetByTaxID(ctx context.Context, taxID domain.TaxID) (*domain.Investor, error) {
	query := `
		SELECT id
		FROM investors
		WHERE tax_id = $1
	`

	investor := domain.Investor{TaxID: taxID}
	err := r.db.QueryRowContext(ctx, query, taxID.String()).Scan(&investor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("investor %s: %w", taxID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get investor by tax ID: %w", err)
	}

	investments, err := loadInvestments(ctx, r.db,
		`SELECT `+investmentColumns+` FROM investments WHERE investor_id = $1 ORDER BY seq`,
		investor.ID,
	)
	if err != nil {
		return nil, err
	}

	investor.Investments = make([]domain.Investment, 0, len(investments))
	for _, inv := range investments {
		investor.Investments = append(investor.Investments, *inv)
	}
	return &investor, nil
}

// Create registers a new investor
func (r *investorRepository) Create(ctx context.Context, investor *domain.Investor) error {
	query := `
		INSERT INTO investors (id, tax_id)
		VALUES ($1, $2)
	`

	_, err := r.db.ExecContext(ctx, query, investor.ID, investor.TaxID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("investor %s: %w", investor.TaxID, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create investor: %w", err)
	}

	return nil
}

// Delete removes an investor; investments and daily yields follow through ON DELETE CASCADE
func (r *investorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM investors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investor %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List retrieves every investor with its investments, in registration order
func (r *investorRepository) List(ctx context.Context) ([]*domain.Investor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, tax_id FROM investors ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list investors: %w", err)
	}
	defer rows.Close()

	investors := make([]*domain.Investor, 0)
	byID := make(map[uuid.UUID]*domain.Investor)
	for rows.Next() {
		var investor domain.Investor
		var taxIDStr string

		if err := rows.Scan(&investor.ID, &taxIDStr); err != nil {
			return nil, fmt.Errorf("failed to scan investor: %w", err)
		}
		taxID, err := domain.NewTaxID(taxIDStr)
		if err != nil {
			return nil, fmt.Errorf("stored tax ID is invalid: %w", err)
		}
		investor.TaxID = taxID
		investor.Investments = []domain.Investment{}

		investors = append(investors, &investor)
		byID[investor.ID] = &investor
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investors: %w", err)
	}

	investments, err := loadInvestments(ctx, r.db, `SELECT `+investmentColumns+` FROM investments ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	for _, inv := range investments {
		if owner, ok := byID[inv.InvestorID]; ok {
			owner.Investments = append(owner.Investments, *inv)
		}
	}

	return investors, nil
}

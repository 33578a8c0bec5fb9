package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/investments-backend/internal/domain"
)

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

// GetByID retrieves an investment with its daily yields
func (r *investmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	investments, err := loadInvestments(ctx, r.db,
		`SELECT `+investmentColumns+` FROM investments WHERE id = $1`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(investments) == 0 {
		return nil, fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
	}
	return investments[0], nil
}

// Update overwrites the scalar fields and replaces the daily yields in a database transaction
// The owning investor never changes
func (r *investmentRepository) Update(ctx context.Context, investment *domain.Investment) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	updateQuery := `
		UPDATE investments
		SET bank_name = $2, bank_code = $3, investment_type = $4, name = $5,
		    initial_amount = $6, initial_unit_price = $7, yield_rate = $8, initial_unit_count = $9
		WHERE id = $1
	`
	args := investmentArgs(investment)
	// investmentArgs puts investor_id second; the owner is not updatable
	result, err := dbTx.ExecContext(ctx, updateQuery, append(args[:1:1], args[2:]...)...)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investment %s: %w", investment.ID, domain.ErrNotFound)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM daily_yields WHERE investment_id = $1`, investment.ID); err != nil {
		return fmt.Errorf("failed to clear daily yields: %w", err)
	}
	if err := insertDailyYields(ctx, dbTx, investment); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes an investment; its daily yields follow through ON DELETE CASCADE
func (r *investmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByInvestor retrieves the investments owned by an investor
func (r *investmentRepository) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]*domain.Investment, error) {
	return loadInvestments(ctx, r.db,
		`SELECT `+investmentColumns+` FROM investments WHERE investor_id = $1 ORDER BY seq`,
		investorID,
	)
}

// ListByTaxID retrieves the investments owned by the investor with the given tax ID
func (r *investmentRepository) ListByTaxID(ctx context.Context, taxID domain.TaxID) ([]*domain.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE investor_id = (SELECT id FROM investors WHERE tax_id = $1)
		ORDER BY seq
	`
	return loadInvestments(ctx, r.db, query, taxID.String())
}

// List retrieves every investment
func (r *investmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	return loadInvestments(ctx, r.db, `SELECT `+investmentColumns+` FROM investments ORDER BY seq`)
}

// ReplaceForInvestor deletes every investment the investor owns and inserts the given ones
// in a single database transaction
func (r *investmentRepository) ReplaceForInvestor(ctx context.Context, investorID uuid.UUID, investments []*domain.Investment) error {
	return r.writeForInvestor(ctx, investorID, investments, true)
}

// AddForInvestor inserts the given investments in a single database transaction
func (r *investmentRepository) AddForInvestor(ctx context.Context, investorID uuid.UUID, investments []*domain.Investment) error {
	return r.writeForInvestor(ctx, investorID, investments, false)
}

func (r *investmentRepository) writeForInvestor(ctx context.Context, investorID uuid.UUID, investments []*domain.Investment, replace bool) error {
	// Start a database transaction
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	// Lock the investor row so concurrent writers for the same investor serialize
	var locked uuid.UUID
	err = dbTx.QueryRowContext(ctx, `SELECT id FROM investors WHERE id = $1 FOR UPDATE`, investorID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("investor %s: %w", investorID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to lock investor: %w", err)
	}

	if replace {
		// Daily yields go with their investments through ON DELETE CASCADE
		if _, err := dbTx.ExecContext(ctx, `DELETE FROM investments WHERE investor_id = $1`, investorID); err != nil {
			return fmt.Errorf("failed to delete investments: %w", err)
		}
	}

	for _, inv := range investments {
		if inv.InvestorID != investorID {
			return fmt.Errorf("investment %s belongs to another investor", inv.ID)
		}
		if err := insertInvestment(ctx, dbTx, inv); err != nil {
			return err
		}
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

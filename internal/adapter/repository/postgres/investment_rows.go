package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/simaogato/investments-backend/internal/domain"
)

const investmentColumns = `
	id, investor_id, bank_name, bank_code, investment_type, name,
	initial_amount, initial_unit_price, yield_rate, initial_unit_count
`

// loadInvestments runs a query selecting investmentColumns and attaches the
// daily yields of every returned investment, preserving the query order
func loadInvestments(ctx context.Context, q queryer, query string, args ...any) ([]*domain.Investment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	investments := make([]*domain.Investment, 0)
	byID := make(map[uuid.UUID]*domain.Investment)
	ids := make([]string, 0)

	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
		byID[inv.ID] = inv
		ids = append(ids, inv.ID.String())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investments: %w", err)
	}
	if len(ids) == 0 {
		return investments, nil
	}

	yieldQuery := `
		SELECT investment_id, yield_date, unit_price, daily_rate, accumulated_amount
		FROM daily_yields
		WHERE investment_id = ANY($1::uuid[])
		ORDER BY investment_id, position
	`
	yieldRows, err := q.QueryContext(ctx, yieldQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily yields: %w", err)
	}
	defer yieldRows.Close()

	for yieldRows.Next() {
		var y domain.DailyYield
		var date time.Time
		var unitPriceStr, dailyRateStr, accumulatedStr string

		if err := yieldRows.Scan(&y.InvestmentID, &date, &unitPriceStr, &dailyRateStr, &accumulatedStr); err != nil {
			return nil, fmt.Errorf("failed to scan daily yield: %w", err)
		}

		y.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		if y.UnitPrice, err = decimal.NewFromString(unitPriceStr); err != nil {
			return nil, fmt.Errorf("failed to parse unit_price: %w", err)
		}
		if y.DailyRate, err = decimal.NewFromString(dailyRateStr); err != nil {
			return nil, fmt.Errorf("failed to parse daily_rate: %w", err)
		}
		if y.AccumulatedAmount, err = decimal.NewFromString(accumulatedStr); err != nil {
			return nil, fmt.Errorf("failed to parse accumulated_amount: %w", err)
		}

		inv := byID[y.InvestmentID]
		inv.DailyYields = append(inv.DailyYields, y)
	}
	if err := yieldRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily yields: %w", err)
	}

	return investments, nil
}

func scanInvestment(rows *sql.Rows) (*domain.Investment, error) {
	var inv domain.Investment
	var bankCode, unitCount sql.NullInt64
	var unitPrice sql.NullString
	var typeStr, amountStr, rateStr string

	err := rows.Scan(
		&inv.ID,
		&inv.InvestorID,
		&inv.BankName,
		&bankCode,
		&typeStr,
		&inv.Name,
		&amountStr,
		&unitPrice,
		&rateStr,
		&unitCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan investment: %w", err)
	}

	inv.Type = domain.InvestmentType(typeStr)
	if bankCode.Valid {
		code := int(bankCode.Int64)
		inv.BankCode = &code
	}
	if unitCount.Valid {
		count := int(unitCount.Int64)
		inv.InitialUnitCount = &count
	}

	// Parse NUMERIC columns
	if inv.InitialAmount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse initial_amount: %w", err)
	}
	if inv.YieldRate, err = decimal.NewFromString(rateStr); err != nil {
		return nil, fmt.Errorf("failed to parse yield_rate: %w", err)
	}
	if unitPrice.Valid {
		price, err := decimal.NewFromString(unitPrice.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse initial_unit_price: %w", err)
		}
		inv.InitialUnitPrice = decimal.NewNullDecimal(price)
	}

	inv.DailyYields = []domain.DailyYield{}
	return &inv, nil
}

// insertInvestment writes one investment and its daily yields inside tx
func insertInvestment(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error {
	insertQuery := `
		INSERT INTO investments (` + investmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, insertQuery, investmentArgs(inv)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("investment %s: %w", inv.ID, domain.ErrConflict)
		}
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	return insertDailyYields(ctx, tx, inv)
}

func insertDailyYields(ctx context.Context, tx *sql.Tx, inv *domain.Investment) error {
	query := `
		INSERT INTO daily_yields (investment_id, position, yield_date, unit_price, daily_rate, accumulated_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for pos, y := range inv.DailyYields {
		_, err := tx.ExecContext(ctx, query,
			inv.ID,
			pos,
			y.Date.Format("2006-01-02"),
			y.UnitPrice.String(),
			y.DailyRate.String(),
			y.AccumulatedAmount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert daily yield %d: %w", pos, err)
		}
	}
	return nil
}

func investmentArgs(inv *domain.Investment) []any {
	var bankCode, unitCount sql.NullInt64
	var unitPrice sql.NullString
	if inv.BankCode != nil {
		bankCode = sql.NullInt64{Int64: int64(*inv.BankCode), Valid: true}
	}
	if inv.InitialUnitCount != nil {
		unitCount = sql.NullInt64{Int64: int64(*inv.InitialUnitCount), Valid: true}
	}
	if inv.InitialUnitPrice.Valid {
		unitPrice = sql.NullString{String: inv.InitialUnitPrice.Decimal.String(), Valid: true}
	}

	return []any{
		inv.ID,
		inv.InvestorID,
		inv.BankName,
		bankCode,
		string(inv.Type),
		inv.Name,
		inv.InitialAmount.String(),
		unitPrice,
		inv.YieldRate.String(),
		unitCount,
	}
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const minNameLength = 2

// Bounds on every decimal field, well inside the range of a Postgres NUMERIC
const (
	maxIntegerDigits  = 18
	maxFractionDigits = 12
)

// Investor owns a set of investments and is identified by a validated tax ID.
// Investments are owned: they are deleted together with the investor.
type Investor struct {
	ID          uuid.UUID
	TaxID       TaxID
	Investments []Investment
}

// Investment represents a single financial position held by an investor.
// The owner is referenced by InvestorID only; there is no pointer back to the
// Investor value.
type Investment struct {
	ID               uuid.UUID
	InvestorID       uuid.UUID
	BankName         string
	BankCode         *int // nil when the bank is not in the catalog
	Type             InvestmentType
	Name             string
	InitialAmount    decimal.Decimal
	InitialUnitPrice decimal.NullDecimal
	YieldRate        decimal.Decimal
	InitialUnitCount *int
	DailyYields      []DailyYield
}

// DailyYield is one dated record of an investment's value.
// It has no identity of its own: the sequence is replaced as a whole.
type DailyYield struct {
	InvestmentID      uuid.UUID
	Date              time.Time
	UnitPrice         decimal.Decimal
	DailyRate         decimal.Decimal
	AccumulatedAmount decimal.Decimal
}

// Validate ensures the investment adheres to domain rules.
// Every failure wraps ErrValidation.
func (i *Investment) Validate() error {
	if len([]rune(strings.TrimSpace(i.BankName))) < minNameLength {
		return fmt.Errorf("%w: bank name must have at least %d characters", ErrValidation, minNameLength)
	}
	if len([]rune(strings.TrimSpace(i.Name))) < minNameLength {
		return fmt.Errorf("%w: investment name must have at least %d characters", ErrValidation, minNameLength)
	}
	if !i.Type.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidInvestmentType, i.Type)
	}
	if i.InitialAmount.IsNegative() {
		return fmt.Errorf("%w: initial amount must not be negative", ErrValidation)
	}
	if i.InitialUnitPrice.Valid && i.InitialUnitPrice.Decimal.IsNegative() {
		return fmt.Errorf("%w: initial unit price must not be negative", ErrValidation)
	}
	if i.InitialUnitCount != nil && *i.InitialUnitCount < 0 {
		return fmt.Errorf("%w: initial unit count must not be negative", ErrValidation)
	}
	if err := checkMagnitude("initial amount", i.InitialAmount); err != nil {
		return err
	}
	if i.InitialUnitPrice.Valid {
		if err := checkMagnitude("initial unit price", i.InitialUnitPrice.Decimal); err != nil {
			return err
		}
	}
	if err := checkMagnitude("yield rate", i.YieldRate); err != nil {
		return err
	}

	for idx := range i.DailyYields {
		if err := i.DailyYields[idx].Validate(); err != nil {
			return fmt.Errorf("daily yield %d: %w", idx, err)
		}
	}

	return nil
}

// Validate ensures the daily yield adheres to domain rules.
func (d *DailyYield) Validate() error {
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if d.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	}
	if d.AccumulatedAmount.IsNegative() {
		return fmt.Errorf("%w: accumulated amount must not be negative", ErrValidation)
	}
	if err := checkMagnitude("unit price", d.UnitPrice); err != nil {
		return err
	}
	if err := checkMagnitude("daily rate", d.DailyRate); err != nil {
		return err
	}
	return checkMagnitude("accumulated amount", d.AccumulatedAmount)
}

// checkMagnitude bounds a decimal by its coefficient and exponent only; the
// value itself is never expanded.
func checkMagnitude(field string, d decimal.Decimal) error {
	exp := int(d.Exponent())
	if d.NumDigits()+exp > maxIntegerDigits {
		return fmt.Errorf("%w: %s must have at most %d integer digits", ErrAmountOutOfRange, field, maxIntegerDigits)
	}
	if -exp > maxFractionDigits {
		return fmt.Errorf("%w: %s must have at most %d decimal places", ErrAmountOutOfRange, field, maxFractionDigits)
	}
	return nil
}

// LatestYield returns the daily yield with the most recent date, or false when
// the investment has none.
func (i *Investment) LatestYield() (DailyYield, bool) {
	if len(i.DailyYields) == 0 {
		return DailyYield{}, false
	}
	latest := i.DailyYields[0]
	for _, y := range i.DailyYields[1:] {
		if y.Date.After(latest.Date) {
			latest = y
		}
	}
	return latest, true
}

// AttachTo assigns a fresh identity to the investment and links it, and every
// daily yield, to its owner.
func (i *Investment) AttachTo(investorID uuid.UUID) {
	i.ID = uuid.New()
	i.InvestorID = investorID
	i.LinkYields()
}

// LinkYields points every daily yield at the investment's current ID.
func (i *Investment) LinkYields() {
	for idx := range i.DailyYields {
		i.DailyYields[idx].InvestmentID = i.ID
	}
}

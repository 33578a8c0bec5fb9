package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvestment() Investment {
	return Investment{
		BankName:      "Nubank",
		Type:          InvestmentTypeFixedIncome,
		Name:          "CDB 2025",
		InitialAmount: decimal.RequireFromString("1000.50"),
		YieldRate:     decimal.RequireFromString("0.05"),
		DailyYields: []DailyYield{
			{
				Date:              time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				UnitPrice:         decimal.RequireFromString("100.50"),
				DailyRate:         decimal.RequireFromString("0.05"),
				AccumulatedAmount: decimal.RequireFromString("1050.75"),
			},
		},
	}
}

func TestInvestment_Validate(t *testing.T) {
	negativeCount := -1

	tests := []struct {
		name    string
		mutate  func(i *Investment)
		wantErr error
		errMsg  string
	}{
		{
			name:   "Valid investment should pass",
			mutate: func(i *Investment) {},
		},
		{
			name:    "Short bank name should fail",
			mutate:  func(i *Investment) { i.BankName = "N" },
			wantErr: ErrValidation,
			errMsg:  "bank name must have at least 2 characters",
		},
		{
			name:    "Blank investment name should fail",
			mutate:  func(i *Investment) { i.Name = "   " },
			wantErr: ErrValidation,
			errMsg:  "investment name must have at least 2 characters",
		},
		{
			name:    "Unknown type should fail",
			mutate:  func(i *Investment) { i.Type = "NOT_A_TYPE" },
			wantErr: ErrInvalidInvestmentType,
		},
		{
			name:    "Negative initial amount should fail",
			mutate:  func(i *Investment) { i.InitialAmount = decimal.NewFromInt(-1) },
			wantErr: ErrValidation,
			errMsg:  "initial amount must not be negative",
		},
		{
			name: "Negative unit price should fail",
			mutate: func(i *Investment) {
				i.InitialUnitPrice = decimal.NewNullDecimal(decimal.NewFromInt(-5))
			},
			wantErr: ErrValidation,
			errMsg:  "initial unit price must not be negative",
		},
		{
			name:    "Negative unit count should fail",
			mutate:  func(i *Investment) { i.InitialUnitCount = &negativeCount },
			wantErr: ErrValidation,
			errMsg:  "initial unit count must not be negative",
		},
		{
			name:    "Daily yield without date should fail",
			mutate:  func(i *Investment) { i.DailyYields[0].Date = time.Time{} },
			wantErr: ErrInvalidDate,
			errMsg:  "daily yield 0",
		},
		{
			name: "Negative accumulated amount should fail",
			mutate: func(i *Investment) {
				i.DailyYields[0].AccumulatedAmount = decimal.NewFromInt(-10)
			},
			wantErr: ErrValidation,
			errMsg:  "accumulated amount must not be negative",
		},
		{
			name:   "Zero amounts are allowed",
			mutate: func(i *Investment) { i.InitialAmount = decimal.Zero },
		},
		{
			name:    "Huge exponent on initial amount should fail",
			mutate:  func(i *Investment) { i.InitialAmount = decimal.New(1, 5000000) },
			wantErr: ErrAmountOutOfRange,
			errMsg:  "initial amount must have at most 18 integer digits",
		},
		{
			name:   "Eighteen integer digits are allowed",
			mutate: func(i *Investment) { i.InitialAmount = decimal.RequireFromString("999999999999999999.99") },
		},
		{
			name:    "Nineteen integer digits should fail",
			mutate:  func(i *Investment) { i.InitialAmount = decimal.RequireFromString("1000000000000000000") },
			wantErr: ErrAmountOutOfRange,
		},
		{
			name: "Huge initial unit price should fail",
			mutate: func(i *Investment) {
				i.InitialUnitPrice = decimal.NewNullDecimal(decimal.New(1, 40))
			},
			wantErr: ErrAmountOutOfRange,
			errMsg:  "initial unit price",
		},
		{
			name:    "Too many decimal places on yield rate should fail",
			mutate:  func(i *Investment) { i.YieldRate = decimal.New(1, -5000000) },
			wantErr: ErrAmountOutOfRange,
			errMsg:  "yield rate must have at most 12 decimal places",
		},
		{
			name:    "Huge daily rate should fail",
			mutate:  func(i *Investment) { i.DailyYields[0].DailyRate = decimal.New(-1, 100) },
			wantErr: ErrAmountOutOfRange,
			errMsg:  "daily rate must have at most 18 integer digits",
		},
		{
			name:    "Huge unit price should fail",
			mutate:  func(i *Investment) { i.DailyYields[0].UnitPrice = decimal.New(5, 30) },
			wantErr: ErrAmountOutOfRange,
			errMsg:  "unit price",
		},
		{
			name:    "Huge accumulated amount should fail",
			mutate:  func(i *Investment) { i.DailyYields[0].AccumulatedAmount = decimal.New(1, 19) },
			wantErr: ErrAmountOutOfRange,
			errMsg:  "accumulated amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvestment()
			tt.mutate(&inv)

			err := inv.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestInvestment_AttachTo(t *testing.T) {
	inv := validInvestment()
	previousID := uuid.New()
	inv.ID = previousID
	investorID := uuid.New()

	inv.AttachTo(investorID)

	assert.NotEqual(t, previousID, inv.ID)
	assert.NotEqual(t, uuid.Nil, inv.ID)
	assert.Equal(t, investorID, inv.InvestorID)
	for _, y := range inv.DailyYields {
		assert.Equal(t, inv.ID, y.InvestmentID)
	}
}

func TestInvestment_LatestYield(t *testing.T) {
	inv := validInvestment()
	inv.DailyYields = append(inv.DailyYields,
		DailyYield{Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), AccumulatedAmount: decimal.NewFromInt(1100)},
		DailyYield{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), AccumulatedAmount: decimal.NewFromInt(1075)},
	)

	latest, ok := inv.LatestYield()
	require.True(t, ok)
	assert.True(t, latest.AccumulatedAmount.Equal(decimal.NewFromInt(1100)))

	inv.DailyYields = nil
	_, ok = inv.LatestYield()
	assert.False(t, ok)
}

func TestBank_Validate(t *testing.T) {
	for _, b := range DefaultBanks {
		bank := b
		assert.NoError(t, bank.Validate(), bank.Name)
	}

	assert.Error(t, (&Bank{Name: " ", Code: 1}).Validate())
	assert.Error(t, (&Bank{Name: "Inter", Code: 0}).Validate())
	assert.Equal(t, "itaú", BankKey("  Itaú "))
}

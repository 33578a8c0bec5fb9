package http

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/investments-backend/internal/domain"
	"github.com/simaogato/investments-backend/internal/usecase/investment"
)

type registerInvestorRequest struct {
	TaxID domain.TaxID `json:"tax_id"`
}

type investmentsRequest struct {
	TaxID       domain.TaxID        `json:"tax_id"`
	Investments []investmentRequest `json:"investments" binding:"required,dive"`
}

type investmentRequest struct {
	BankName         string              `json:"bank_name" binding:"required,min=2"`
	InvestmentType   string              `json:"investment_type" binding:"required"`
	Name             string              `json:"name" binding:"required,min=2"`
	InitialAmount    *decimal.Decimal    `json:"initial_amount" binding:"required"`
	InitialUnitPrice *decimal.Decimal    `json:"initial_unit_price"`
	YieldRate        *decimal.Decimal    `json:"yield_rate" binding:"required"`
	InitialUnitCount *int                `json:"initial_unit_count" binding:"omitempty,gte=0"`
	DailyYields      []dailyYieldRequest `json:"daily_yields" binding:"dive"`
}

type dailyYieldRequest struct {
	Date              string           `json:"date" binding:"required"`
	UnitPrice         *decimal.Decimal `json:"unit_price" binding:"required"`
	DailyRate         *decimal.Decimal `json:"daily_rate" binding:"required"`
	AccumulatedAmount *decimal.Decimal `json:"accumulated_amount" binding:"required"`
}

// toInputs converts every record, stopping at the first one that fails
func (r investmentsRequest) toInputs() ([]investment.InvestmentInput, error) {
	inputs := make([]investment.InvestmentInput, 0, len(r.Investments))
	for i, item := range r.Investments {
		input, err := item.toInput()
		if err != nil {
			return nil, fmt.Errorf("investments[%d]: %w", i, err)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// toInput parses the investment type and the yield dates.
// Binding has already guaranteed that every required pointer is set.
func (r investmentRequest) toInput() (investment.InvestmentInput, error) {
	investmentType, err := domain.ParseInvestmentType(r.InvestmentType)
	if err != nil {
		return investment.InvestmentInput{}, err
	}

	input := investment.InvestmentInput{
		BankName:         r.BankName,
		Type:             investmentType,
		Name:             r.Name,
		InitialAmount:    *r.InitialAmount,
		YieldRate:        *r.YieldRate,
		InitialUnitCount: r.InitialUnitCount,
		DailyYields:      make([]investment.DailyYieldInput, 0, len(r.DailyYields)),
	}
	if r.InitialUnitPrice != nil {
		input.InitialUnitPrice = decimal.NewNullDecimal(*r.InitialUnitPrice)
	}

	for i, y := range r.DailyYields {
		date, err := domain.ParseYieldDate(y.Date)
		if err != nil {
			return investment.InvestmentInput{}, fmt.Errorf("daily_yields[%d]: %w", i, err)
		}
		input.DailyYields = append(input.DailyYields, investment.DailyYieldInput{
			Date:              date,
			UnitPrice:         *y.UnitPrice,
			DailyRate:         *y.DailyRate,
			AccumulatedAmount: *y.AccumulatedAmount,
		})
	}
	return input, nil
}

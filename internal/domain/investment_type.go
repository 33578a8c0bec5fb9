package domain

import (
	"fmt"
	"strings"
)

// InvestmentType classifies an investment. The set is closed.
type InvestmentType string

const (
	InvestmentTypeFixedIncome    InvestmentType = "FIXED_INCOME"
	InvestmentTypeEquity         InvestmentType = "EQUITY"
	InvestmentTypeRealEstateFund InvestmentType = "REAL_ESTATE_FUND"
	InvestmentTypeInvestmentFund InvestmentType = "INVESTMENT_FUND"
	InvestmentTypeTreasuryBond   InvestmentType = "TREASURY_BOND"
	InvestmentTypeCryptocurrency InvestmentType = "CRYPTOCURRENCY"
)

var investmentTypes = []InvestmentType{
	InvestmentTypeFixedIncome,
	InvestmentTypeEquity,
	InvestmentTypeRealEstateFund,
	InvestmentTypeInvestmentFund,
	InvestmentTypeTreasuryBond,
	InvestmentTypeCryptocurrency,
}

// InvestmentTypes returns every accepted investment type in declaration order.
func InvestmentTypes() []InvestmentType {
	out := make([]InvestmentType, len(investmentTypes))
	copy(out, investmentTypes)
	return out
}

// ParseInvestmentType matches s case-insensitively against the closed set.
// Unknown values return an error wrapping ErrInvalidInvestmentType that lists
// the allowed values.
func ParseInvestmentType(s string) (InvestmentType, error) {
	candidate := InvestmentType(strings.ToUpper(strings.TrimSpace(s)))
	if candidate.Valid() {
		return candidate, nil
	}

	allowed := make([]string, len(investmentTypes))
	for i, t := range investmentTypes {
		allowed[i] = string(t)
	}
	return "", fmt.Errorf("%w %q, allowed values: [%s]", ErrInvalidInvestmentType, s, strings.Join(allowed, ", "))
}

// Valid reports whether t belongs to the closed set.
func (t InvestmentType) Valid() bool {
	for _, known := range investmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

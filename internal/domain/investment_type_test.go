package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvestmentType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    InvestmentType
		wantErr bool
	}{
		{name: "Exact match", input: "FIXED_INCOME", want: InvestmentTypeFixedIncome},
		{name: "Lower case", input: "equity", want: InvestmentTypeEquity},
		{name: "Surrounding spaces", input: "  treasury_bond ", want: InvestmentTypeTreasuryBond},
		{name: "Unknown value", input: "NOT_A_TYPE", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInvestmentType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInvestmentType)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), "FIXED_INCOME")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvestmentTypes_ReturnsCopy(t *testing.T) {
	types := InvestmentTypes()
	require.Len(t, types, 6)
	types[0] = "MUTATED"

	assert.Equal(t, InvestmentTypeFixedIncome, InvestmentTypes()[0])
	for _, typ := range InvestmentTypes() {
		assert.True(t, typ.Valid())
	}
}

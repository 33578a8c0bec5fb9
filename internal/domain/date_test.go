package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYieldDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "New year", input: "01-01-2025", want: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Leap day", input: "29-02-2024", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "Non leap year", input: "29-02-2025", wantErr: true},
		{name: "Impossible day", input: "32-01-2025", wantErr: true},
		{name: "ISO layout", input: "2025-01-01", wantErr: true},
		{name: "Single digit day", input: "1-01-2025", wantErr: true},
		{name: "Slashes", input: "01/01/2025", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYieldDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, tt.input, FormatYieldDate(got))
		})
	}
}

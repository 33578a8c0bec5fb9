package domain

import (
	"fmt"
	"time"
)

// YieldDateLayout is the external representation of daily-yield dates (dd-mm-yyyy).
const YieldDateLayout = "02-01-2006"

// ParseYieldDate parses a dd-mm-yyyy string into a UTC calendar date.
// Single-digit days or months and impossible dates (31-02-2025) are rejected.
func ParseYieldDate(s string) (time.Time, error) {
	if len(s) != len(YieldDateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.ParseInLocation(YieldDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatYieldDate renders t as dd-mm-yyyy.
func FormatYieldDate(t time.Time) string {
	return t.Format(YieldDateLayout)
}

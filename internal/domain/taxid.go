package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const taxIDLength = 11

// TaxID is the investor's national identification number.
// A TaxID value always holds exactly 11 digits whose two trailing check digits
// satisfy the MOD-11 checksum. The zero value is not a valid TaxID.
type TaxID struct {
	digits string
}

// NewTaxID normalizes raw (every non-digit character is dropped) and validates
// the result. Punctuated ("529.982.247-25") and bare ("52998224725") forms of
// the same number produce equal values.
func NewTaxID(raw string) (TaxID, error) {
	digits := normalizeTaxID(raw)
	if !validTaxID(digits) {
		return TaxID{}, fmt.Errorf("%w: %q", ErrInvalidTaxID, raw)
	}
	return TaxID{digits: digits}, nil
}

// LookupTaxID parses a tax ID that identifies an existing investor.
// No investor is ever registered under an invalid number, so a malformed value
// is reported as ErrNotFound rather than ErrValidation.
func LookupTaxID(raw string) (TaxID, error) {
	id, err := NewTaxID(raw)
	if err != nil {
		return TaxID{}, fmt.Errorf("investor with tax id %q: %w", raw, ErrNotFound)
	}
	return id, nil
}

// MustTaxID is like NewTaxID but panics on invalid input.
// Intended for fixtures and constants.
func MustTaxID(raw string) TaxID {
	id, err := NewTaxID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the normalized 11-digit form.
func (t TaxID) String() string {
	return t.digits
}

// Formatted renders the number as XXX.XXX.XXX-XX.
func (t TaxID) Formatted() string {
	if len(t.digits) != taxIDLength {
		return t.digits
	}
	return t.digits[0:3] + "." + t.digits[3:6] + "." + t.digits[6:9] + "-" + t.digits[9:11]
}

// IsZero reports whether t was never constructed through NewTaxID.
func (t TaxID) IsZero() bool {
	return t.digits == ""
}

// MarshalJSON encodes the normalized digits as a JSON string.
func (t TaxID) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.digits)
}

// UnmarshalJSON decodes and validates a JSON string.
func (t *TaxID) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: tax id must be a string", ErrInvalidTaxID)
	}
	id, err := NewTaxID(raw)
	if err != nil {
		return err
	}
	*t = id
	return nil
}

func normalizeTaxID(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validTaxID(digits string) bool {
	if len(digits) != taxIDLength {
		return false
	}

	// Sequences of one repeated digit pass the checksum but are never issued.
	if strings.Count(digits, digits[:1]) == taxIDLength {
		return false
	}

	var d [taxIDLength]int
	for i := 0; i < taxIDLength; i++ {
		d[i] = int(digits[i] - '0')
	}

	return checkDigit(d[:9]) == d[9] && checkDigit(d[:10]) == d[10]
}

// checkDigit weights the leading digits from len+1 down to 2 and reduces the
// sum modulo 11.
func checkDigit(leading []int) int {
	sum := 0
	weight := len(leading) + 1
	for _, digit := range leading {
		sum += digit * weight
		weight--
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

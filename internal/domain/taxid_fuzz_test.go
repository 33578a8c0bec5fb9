package domain

import (
	"testing"
)

// FuzzNewTaxID checks that construction never panics and that every accepted
// value is normalized, stable under re-parsing and under formatting.
func FuzzNewTaxID(f *testing.F) {
	f.Add("")
	f.Add("529.982.247-25")
	f.Add("52998224725")
	f.Add("111.111.111-11")
	f.Add("00000000000")
	f.Add("123.456.789-09")
	f.Add("52998224725\x00")
	f.Add("５２９９８２２４７２５")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := NewTaxID(input)
		if err != nil {
			if !id.IsZero() {
				t.Errorf("rejected input %q produced a non-zero value", input)
			}
			return
		}

		if len(id.String()) != 11 {
			t.Errorf("accepted value %q is not 11 digits", id.String())
		}

		again, err := NewTaxID(id.String())
		if err != nil || again != id {
			t.Errorf("round trip of %q failed: %v", id.String(), err)
		}

		formatted, err := NewTaxID(id.Formatted())
		if err != nil || formatted != id {
			t.Errorf("formatted round trip of %q failed: %v", id.Formatted(), err)
		}
	})
}

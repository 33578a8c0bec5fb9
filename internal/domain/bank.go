package domain

import (
	"errors"
	"strings"
)

// Bank is a catalog entry associating a bank name with its clearing code.
type Bank struct {
	Name string
	Code int
}

// DefaultBanks is the catalog seeded at start-up.
var DefaultBanks = []Bank{
	{Name: "Nubank", Code: 260},
	{Name: "Itaú", Code: 341},
	{Name: "Bradesco", Code: 237},
	{Name: "Santander", Code: 33},
	{Name: "Caixa Econômica", Code: 104},
}

// Validate ensures the catalog entry is usable for code lookups.
func (b *Bank) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("bank name cannot be empty")
	}
	if b.Code <= 0 {
		return errors.New("bank code must be positive")
	}
	return nil
}

// BankKey is the case-insensitive lookup key for a bank name.
func BankKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

package domain

import "time"

// Supported merchant currencies. Orders whose merchant has no currency
// configured are counted under CurrencyIDR.
const (
	CurrencyIDR = "IDR"
	CurrencyAUD = "AUD"
)

type Merchant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Currency  string    `json:"currency"`
	Timezone  string    `json:"timezone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeCurrency folds unknown or empty currency codes into IDR
func NormalizeCurrency(currency string) string {
	if currency == CurrencyAUD {
		return CurrencyAUD
	}
	return CurrencyIDR
}

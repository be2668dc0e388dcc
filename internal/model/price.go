package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supported currency codes.  These are the "tier-1" currencies: every rate is
// stored relative to BaseCurrency and a fixed fallback constant exists for
// each of them.  Offers in any other currency are rejected at validation.
const (
	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"
	CurrencyILS = "ILS"
	CurrencyGBP = "GBP"
)

// BaseCurrency is the pivot all tier-1 rates are stored against.  It is only
// the comparison unit: minPrice is always stored in the winning offer's own
// currency.
const BaseCurrency = CurrencyEUR

// Currencies lists every tier-1 currency in a stable order.
var Currencies = []string{CurrencyEUR, CurrencyUSD, CurrencyILS, CurrencyGBP}

// ValidCurrency reports whether code is one of the tier-1 currencies.
func ValidCurrency(code string) bool {
	switch code {
	case CurrencyEUR, CurrencyUSD, CurrencyILS, CurrencyGBP:
		return true
	}
	return false
}

// MinPrice is the denormalized cheapest-available-offer field stored on a
// fixture.  Amount and Currency are the winning offer's own price, not the
// base-currency value used for comparison.  A fixture with no available
// offers has no MinPrice at all (nil), never a zero amount.
//
// Fields:
//  Amount    – price of the cheapest available offer.
//  Currency  – currency of that offer (tier-1 code).
//  UpdatedAt – when the synchronizer last wrote the value.
type MinPrice struct {
	Amount    decimal.Decimal // fixtures.min_price_amount
	Currency  string          // fixtures.min_price_currency
	UpdatedAt time.Time       // fixtures.min_price_updated_at
}

// Equal reports whether two minPrice values carry the same amount and
// currency.  UpdatedAt is deliberately ignored: the synchronizer treats an
// identical (amount, currency) pair as "no change".
func (m *MinPrice) Equal(other *MinPrice) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// Package exchange resolves conversion rates between the marketplace's
// supported currencies.  Rates are held in tiers of decreasing trust (live
// snapshot, then last-known-good snapshot, then fixed constants) and the
// request path only ever reads those tiers; the network is touched solely by
// the scheduled refresh job.
package exchange

import "time"

// Tier-1 currencies and the base they pivot through.  Every tier-1 rate is
// stored as "units of base per one unit of currency", so a cross rate is
// derived transitively: rate(a→b) = toBase(a) / toBase(b).
const Base = "EUR"

// Tier1 lists the directly supported currencies.
var Tier1 = []string{"EUR", "USD", "ILS", "GBP"}

// IsTier1 reports whether code belongs to the tier-1 set.
func IsTier1(code string) bool {
	switch code {
	case "EUR", "USD", "ILS", "GBP":
		return true
	}
	return false
}

// fallbackRates are the hardcoded lowest-trust tier, used only when no
// snapshot of any age exists.  Values are approximations frozen at the last
// manual update.
var fallbackRates = map[string]float64{
	"USD": 0.92, // 1 USD ≈ 0.92 EUR
	"ILS": 0.25, // 1 ILS ≈ 0.25 EUR
	"GBP": 1.16, // 1 GBP ≈ 1.16 EUR
	"EUR": 1.0,
}

// Snapshot is one load of tier-1 rates: currency code → rate to the base
// currency, stamped with when it was loaded.  The live tier is trusted only
// within the freshness window; the last-known-good tier has no window at all
// because staleness is preferred over unavailability.
type Snapshot struct {
	Rates    map[string]float64
	LoadedAt time.Time
}

// rate returns the to-base rate for code, if the snapshot carries it.
func (s *Snapshot) rate(code string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	r, ok := s.Rates[code]
	return r, ok
}

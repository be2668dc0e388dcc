package exchange

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrRateUnavailable is returned when no cached rate exists for a non-tier-1
// pair.  Such pairs have no fixed constants to fall back on, so resolution
// fails explicitly instead of guessing.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// RateProvider fetches upstream rates for a base currency.  Implemented by
// the HTTP provider; called only from the background refresh job.
type RateProvider interface {
	FetchRates(ctx context.Context, base string, symbols []string) (map[string]float64, error)
}

// PairLookup resolves rates for currencies outside the tier-1 set from a
// narrow shared cache.  It must never call out to the network.
type PairLookup interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// Resolver produces conversion rates between currencies.  For tier-1 pairs
// it walks a fallback chain: live snapshot (within the freshness window) →
// last-known-good snapshot (any age) → fixed constants → identity.  For
// other pairs it consults the PairLookup or fails.  Request-path calls never
// perform network I/O.
type Resolver struct {
	mu        sync.RWMutex
	live      *Snapshot
	lastGood  *Snapshot
	freshness time.Duration
	provider  RateProvider
	pairs     PairLookup

	now func() time.Time // test hook
}

// NewResolver constructs a Resolver.  pairs may be nil, in which case every
// non-tier-1 pair resolves to ErrRateUnavailable.
func NewResolver(provider RateProvider, pairs PairLookup, freshness time.Duration) *Resolver {
	return &Resolver{
		freshness: freshness,
		provider:  provider,
		pairs:     pairs,
		now:       time.Now,
	}
}

// Rate returns the multiplier r such that amount(from) * r = amount(to).
func (r *Resolver) Rate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return 1.0, nil
	}

	if IsTier1(from) && IsTier1(to) {
		return r.tier1Rate(from, to), nil
	}

	if r.pairs == nil {
		return 0, fmt.Errorf("%w: %s->%s", ErrRateUnavailable, from, to)
	}
	rate, err := r.pairs.Rate(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("pair cache %s->%s: %w", from, to, err)
	}
	return rate, nil
}

// Convert applies the from→to rate to a decimal amount.
func (r *Resolver) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := r.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(decimal.NewFromFloat(rate)), nil
}

// tier1Rate walks the tier chain.  It always succeeds: the final branch
// returns the identity rate with a warning, trading accuracy for liveness.
func (r *Resolver) tier1Rate(from, to string) float64 {
	r.mu.RLock()
	live, lastGood := r.live, r.lastGood
	r.mu.RUnlock()

	if live != nil && r.now().Sub(live.LoadedAt) < r.freshness {
		if rate, ok := crossRate(live, from, to); ok {
			return rate
		}
	}
	// Any age beats nothing.
	if rate, ok := crossRate(lastGood, from, to); ok {
		return rate
	}
	if f, ok := fallbackRates[from]; ok {
		if t, ok := fallbackRates[to]; ok {
			log.Printf("exchange: using fixed fallback rate %s->%s (no snapshot loaded)", from, to)
			return f / t
		}
	}
	log.Printf("exchange: no rate for %s->%s in any tier, using 1.0; prices may be inaccurate", from, to)
	return 1.0
}

// crossRate derives from→to through the base currency from one snapshot.
func crossRate(s *Snapshot, from, to string) (float64, bool) {
	f, ok := s.rate(from)
	if !ok {
		return 0, false
	}
	t, ok := s.rate(to)
	if !ok || t == 0 {
		return 0, false
	}
	return f / t, true
}

// Refresh fetches a fresh tier-1 snapshot from the upstream provider and
// swaps both the live and last-known-good tiers.  On failure neither tier is
// touched and the error is returned so the caller can report degraded
// status.  Only the scheduled job calls this; never the request path.
func (r *Resolver) Refresh(ctx context.Context) error {
	symbols := make([]string, 0, len(Tier1)-1)
	for _, c := range Tier1 {
		if c != Base {
			symbols = append(symbols, c)
		}
	}

	upstream, err := r.provider.FetchRates(ctx, Base, symbols)
	if err != nil {
		return fmt.Errorf("fetch rates: %w", err)
	}

	rates := map[string]float64{Base: 1.0}
	for _, c := range symbols {
		v, ok := upstream[c]
		if !ok || v == 0 {
			return fmt.Errorf("upstream response missing rate for %s", c)
		}
		// Upstream reports base→currency; we store currency→base.
		rates[c] = 1 / v
	}

	snap := &Snapshot{Rates: rates, LoadedAt: r.now()}
	r.mu.Lock()
	r.live = snap
	r.lastGood = snap
	r.mu.Unlock()

	log.Printf("exchange: refreshed tier-1 rates (%d currencies)", len(rates))
	return nil
}

// LastLoaded reports when the last successful refresh happened, zero if
// never.  Exposed for the worker's status logging.
func (r *Resolver) LastLoaded() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.lastGood == nil {
		return time.Time{}
	}
	return r.lastGood.LoadedAt
}

package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	rates map[string]float64
	err   error
	calls int
}

func (p *stubProvider) FetchRates(ctx context.Context, base string, symbols []string) (map[string]float64, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.rates, nil
}

type stubPairs struct {
	rates map[string]float64
}

func (p *stubPairs) Rate(ctx context.Context, from, to string) (float64, error) {
	if r, ok := p.rates[from+":"+to]; ok {
		return r, nil
	}
	return 0, ErrRateUnavailable
}

func TestRateIdentity(t *testing.T) {
	r := NewResolver(&stubProvider{}, nil, 24*time.Hour)
	rate, err := r.Rate(context.Background(), "eur", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestRefreshInvertsUpstreamRates(t *testing.T) {
	// Upstream reports EUR→USD 1.25, so 1 USD must be worth 0.8 EUR.
	p := &stubProvider{rates: map[string]float64{"USD": 1.25, "ILS": 4.0, "GBP": 0.8}}
	r := NewResolver(p, nil, 24*time.Hour)
	require.NoError(t, r.Refresh(context.Background()))

	rate, err := r.Rate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, rate, 1e-9)
}

func TestRateTransitiveThroughBase(t *testing.T) {
	p := &stubProvider{rates: map[string]float64{"USD": 1.25, "ILS": 4.0, "GBP": 0.8}}
	r := NewResolver(p, nil, 24*time.Hour)
	require.NoError(t, r.Refresh(context.Background()))

	// USD→GBP = toEUR(USD) / toEUR(GBP) = 0.8 / 1.25 = 0.64
	rate, err := r.Rate(context.Background(), "USD", "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 0.64, rate, 1e-9)
}

func TestRateFallsBackToLastKnownGood(t *testing.T) {
	p := &stubProvider{rates: map[string]float64{"USD": 1.25, "ILS": 4.0, "GBP": 0.8}}
	r := NewResolver(p, nil, 24*time.Hour)
	require.NoError(t, r.Refresh(context.Background()))

	// Age the snapshot past the freshness window: the live tier is no
	// longer trusted, but last-known-good has no window at all.
	r.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	rate, err := r.Rate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, rate, 1e-9, "stale snapshot must beat fixed constants")
}

func TestRateFixedConstantWhenNoSnapshot(t *testing.T) {
	// Scenario D: upstream failing and nothing ever loaded.
	p := &stubProvider{err: errors.New("upstream down")}
	r := NewResolver(p, nil, 24*time.Hour)
	assert.Error(t, r.Refresh(context.Background()))

	rate, err := r.Rate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 0.92, rate, 1e-9)
}

func TestFailedRefreshKeepsLastKnownGood(t *testing.T) {
	p := &stubProvider{rates: map[string]float64{"USD": 1.25, "ILS": 4.0, "GBP": 0.8}}
	r := NewResolver(p, nil, 24*time.Hour)
	require.NoError(t, r.Refresh(context.Background()))

	p.err = errors.New("upstream down")
	assert.Error(t, r.Refresh(context.Background()))

	rate, err := r.Rate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, rate, 1e-9)
}

func TestNonTier1PairUsesPairLookup(t *testing.T) {
	pairs := &stubPairs{rates: map[string]float64{"CHF:EUR": 1.05}}
	r := NewResolver(&stubProvider{}, pairs, 24*time.Hour)

	rate, err := r.Rate(context.Background(), "CHF", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 1.05, rate, 1e-9)
}

func TestNonTier1PairMissIsExplicitError(t *testing.T) {
	r := NewResolver(&stubProvider{}, &stubPairs{}, 24*time.Hour)

	_, err := r.Rate(context.Background(), "JPY", "EUR")
	assert.ErrorIs(t, err, ErrRateUnavailable)

	// No PairLookup configured at all behaves the same.
	r = NewResolver(&stubProvider{}, nil, 24*time.Hour)
	_, err = r.Rate(context.Background(), "JPY", "EUR")
	assert.ErrorIs(t, err, ErrRateUnavailable)
}

func TestConvert(t *testing.T) {
	p := &stubProvider{rates: map[string]float64{"USD": 1.25, "ILS": 4.0, "GBP": 0.8}}
	r := NewResolver(p, nil, 24*time.Hour)
	require.NoError(t, r.Refresh(context.Background()))

	got, err := r.Convert(context.Background(), decimal.NewFromInt(90), "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("72")), "got %s", got)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/matchprice/ticket-market/internal/model"
)

// MinPriceResult describes what the synchronizer did to a fixture's stored
// minimum.  Updated is false when the stored value already matched, so
// callers can skip the invalidation cascade.
type MinPriceResult struct {
	Updated  bool
	New      *model.MinPrice // nil when the minimum was cleared
	Previous *model.MinPrice // nil when no minimum was stored before
}

// MinPriceSync recomputes and persists a fixture's denormalized minimum
// price whenever its offer set changes.
type MinPriceSync struct {
	fixtures   FixtureStore
	comparator *Comparator
	now        func() time.Time
}

// NewMinPriceSync constructs a MinPriceSync.
func NewMinPriceSync(fixtures FixtureStore, comparator *Comparator) *MinPriceSync {
	return &MinPriceSync{fixtures: fixtures, comparator: comparator, now: time.Now}
}

// Sync recomputes the fixture's cheapest available offer and writes the
// result to the fixtures table.  The stored minimum keeps the winning
// offer's own currency; the base currency is used only to pick the winner.
// With no available offers the minimum is cleared.  Writing is skipped when
// the stored value already matches, making Sync idempotent.
func (s *MinPriceSync) Sync(ctx context.Context, fixtureID uint64) (*MinPriceResult, error) {
	fixture, err := s.fixtures.GetByID(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("load fixture %d: %w", fixtureID, err)
	}

	lowest, err := s.comparator.Lowest(ctx, fixtureID)
	if err != nil {
		return nil, err
	}

	previous := fixture.MinPrice

	if lowest == nil {
		if previous == nil {
			return &MinPriceResult{Updated: false}, nil
		}
		if err := s.fixtures.ClearMinPrice(ctx, fixtureID); err != nil {
			return nil, fmt.Errorf("clear min price for fixture %d: %w", fixtureID, err)
		}
		return &MinPriceResult{Updated: true, Previous: previous}, nil
	}

	next := &model.MinPrice{
		Amount:    lowest.Offer.Price,
		Currency:  lowest.Offer.Currency,
		UpdatedAt: s.now(),
	}
	if previous != nil && previous.Equal(next) {
		return &MinPriceResult{Updated: false, New: next, Previous: previous}, nil
	}

	if err := s.fixtures.SetMinPrice(ctx, fixtureID, next.Amount, next.Currency); err != nil {
		return nil, fmt.Errorf("set min price for fixture %d: %w", fixtureID, err)
	}
	return &MinPriceResult{Updated: true, New: next, Previous: previous}, nil
}

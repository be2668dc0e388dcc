package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/matchprice/ticket-market/internal/cache"
	"github.com/matchprice/ticket-market/internal/model"
	"github.com/matchprice/ticket-market/internal/repository"
)

// Validation failures surfaced to handlers as 4xx responses.
var (
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrUnknownCurrency   = errors.New("unknown currency code")
	ErrInvalidOwner      = errors.New("owner type must be AGENT or SUPPLIER")
	ErrInvalidTicketType = errors.New("invalid ticket type")
)

// CreateOfferInput carries a validated-on-entry offer submission.
type CreateOfferInput struct {
	FixtureID  uint64
	Owner      model.OwnerRef
	Price      decimal.Decimal
	Currency   string
	TicketType string
	URL        *string
	Notes      *string
}

// OfferService implements the offer lifecycle: create or supersede, delete,
// availability toggling and the cached per-fixture listing. Every mutation
// ends with a minimum price sync and, when the minimum actually moved, the
// cache invalidation cascade.
type OfferService struct {
	offers     OfferStore
	fixtures   FixtureStore
	offerCache *cache.FixtureOffers
	sync       *MinPriceSync
	cascade    *Cascade
}

// NewOfferService constructs an OfferService.
func NewOfferService(offers OfferStore, fixtures FixtureStore, offerCache *cache.FixtureOffers, sync *MinPriceSync, cascade *Cascade) *OfferService {
	return &OfferService{
		offers:     offers,
		fixtures:   fixtures,
		offerCache: offerCache,
		sync:       sync,
		cascade:    cascade,
	}
}

// Create stores a new offer, superseding any previous offer by the same
// owner for the same fixture and ticket type. The fixture must exist.
func (s *OfferService) Create(ctx context.Context, in CreateOfferInput) (*model.Offer, error) {
	if !in.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if !model.ValidCurrency(in.Currency) {
		return nil, ErrUnknownCurrency
	}
	if !in.Owner.Type.Valid() {
		return nil, ErrInvalidOwner
	}
	if in.TicketType == "" {
		in.TicketType = model.TicketStandard
	}
	if !model.ValidTicketType(in.TicketType) {
		return nil, ErrInvalidTicketType
	}

	fixture, err := s.fixtures.GetByID(ctx, in.FixtureID)
	if err != nil {
		return nil, err
	}

	offer := &model.Offer{
		FixtureID:   in.FixtureID,
		Owner:       in.Owner,
		Price:       in.Price,
		Currency:    in.Currency,
		TicketType:  in.TicketType,
		IsAvailable: true,
		URL:         in.URL,
		Notes:       in.Notes,
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("store offer: %w", err)
	}

	s.afterMutation(ctx, fixture)
	return offer, nil
}

// Delete removes an offer and returns the removed record.
func (s *OfferService) Delete(ctx context.Context, id uint64) (*model.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fixture, err := s.fixtures.GetByID(ctx, offer.FixtureID)
	if err != nil {
		return nil, err
	}
	if err := s.offers.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, fixture)
	return offer, nil
}

// DeleteByOwner removes an owner's current offer for a fixture and ticket
// type, the reverse of the supersede path on Create.
func (s *OfferService) DeleteByOwner(ctx context.Context, fixtureID uint64, owner model.OwnerRef, ticketType string) error {
	if !owner.Type.Valid() {
		return ErrInvalidOwner
	}
	if ticketType == "" {
		ticketType = model.TicketStandard
	}
	if !model.ValidTicketType(ticketType) {
		return ErrInvalidTicketType
	}
	fixture, err := s.fixtures.GetByID(ctx, fixtureID)
	if err != nil {
		return err
	}
	removed, err := s.offers.DeleteByOwnerAndTicketType(ctx, fixtureID, owner, ticketType)
	if err != nil {
		return err
	}
	if !removed {
		return repository.ErrOfferNotFound
	}

	s.afterMutation(ctx, fixture)
	return nil
}

// SetAvailability flips an offer's availability flag. An unavailable offer
// keeps its row but drops out of price comparisons and public listings.
func (s *OfferService) SetAvailability(ctx context.Context, id uint64, available bool) (*model.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fixture, err := s.fixtures.GetByID(ctx, offer.FixtureID)
	if err != nil {
		return nil, err
	}
	if err := s.offers.SetAvailability(ctx, id, available); err != nil {
		return nil, err
	}
	offer.IsAvailable = available

	s.afterMutation(ctx, fixture)
	return offer, nil
}

// ByFixture returns a fixture's available offers through the offer cache.
// The second result reports whether the cache served the read.
func (s *OfferService) ByFixture(ctx context.Context, fixtureID uint64) ([]*model.Offer, bool, error) {
	if entry, ok := s.offerCache.Get(fixtureID); ok {
		return entry.Offers, true, nil
	}

	if _, err := s.fixtures.GetByID(ctx, fixtureID); err != nil {
		return nil, false, err
	}
	offers, err := s.offers.ListAvailableByFixture(ctx, fixtureID)
	if err != nil {
		return nil, false, fmt.Errorf("list offers for fixture %d: %w", fixtureID, err)
	}
	s.offerCache.Set(fixtureID, offers)
	return offers, false, nil
}

// afterMutation refreshes the fixture's offer cache entry, recomputes the
// stored minimum and, when it changed, runs the invalidation cascade. Cache
// refresh failures only cost a later cache miss, so they are logged and
// swallowed.
func (s *OfferService) afterMutation(ctx context.Context, fixture *model.Fixture) {
	if offers, err := s.offers.ListAvailableByFixture(ctx, fixture.ID); err != nil {
		log.Printf("offers: refresh cache for fixture %d failed: %v", fixture.ID, err)
		s.offerCache.Delete(fixture.ID)
	} else {
		s.offerCache.Set(fixture.ID, offers)
	}

	result, err := s.sync.Sync(ctx, fixture.ID)
	if err != nil {
		log.Printf("offers: min price sync for fixture %d failed: %v", fixture.ID, err)
		return
	}
	if !result.Updated {
		return
	}
	// Re-read so the cascade publishes the fixture's post-sync state.
	fresh, err := s.fixtures.GetByID(ctx, fixture.ID)
	if err != nil {
		fresh = fixture
	}
	s.cascade.Run(ctx, fresh, result)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchprice/ticket-market/internal/cache"
	"github.com/matchprice/ticket-market/internal/model"
	"github.com/matchprice/ticket-market/internal/queue"
	"github.com/matchprice/ticket-market/internal/repository"
)

type serviceHarness struct {
	svc        *OfferService
	offers     *fakeOfferStore
	fixtures   *fakeFixtureStore
	offerCache *cache.FixtureOffers
	published  []queue.PriceChangedEvent
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()
	h := &serviceHarness{
		offers:     newFakeOfferStore(),
		fixtures:   newFakeFixtureStore(&model.Fixture{ID: 10, LeagueID: 7, HomeTeamID: 1, AwayTeamID: 2}),
		offerCache: cache.NewFixtureOffers(10, time.Hour),
	}
	rates := &fakeRates{rates: map[string]float64{"USD:EUR": 0.92}}
	comparator := NewComparator(h.offers, rates)
	sync := NewMinPriceSync(h.fixtures, comparator)
	queries := NewFixtureQueries(h.fixtures, &fakeTeamStore{}, &fakeLeagueStore{}, cache.NewTeamFixtures(10, time.Hour), cache.NewLeagueFixtures(10, time.Hour))
	publish := func(_ context.Context, ev queue.PriceChangedEvent) error {
		h.published = append(h.published, ev)
		return nil
	}
	cascade := NewCascade(queries, cache.NewTeamFixtures(10, time.Hour), cache.NewLeagueFixtures(10, time.Hour), h.offerCache, publish)
	h.svc = NewOfferService(h.offers, h.fixtures, h.offerCache, sync, cascade)
	return h
}

func (h *serviceHarness) create(t *testing.T, ownerID uint64, price, currency string) *model.Offer {
	t.Helper()
	o, err := h.svc.Create(context.Background(), CreateOfferInput{
		FixtureID: 10,
		Owner:     model.OwnerRef{Type: model.OwnerAgent, ID: ownerID},
		Price:     dec(price),
		Currency:  currency,
	})
	require.NoError(t, err)
	return o
}

func TestCreateSetsMinPriceAndPublishes(t *testing.T) {
	h := newServiceHarness(t)

	h.create(t, 1, "100", model.CurrencyEUR)
	h.create(t, 2, "90", model.CurrencyUSD) // 82.8 EUR, new minimum

	stored := h.fixtures.fixtures[10].MinPrice
	require.NotNil(t, stored)
	assert.True(t, stored.Amount.Equal(dec("90")))
	assert.Equal(t, model.CurrencyUSD, stored.Currency)
	assert.Len(t, h.published, 2)
}

func TestCreateSupersedesSameOwnerAndTicketType(t *testing.T) {
	h := newServiceHarness(t)

	first := h.create(t, 1, "100", model.CurrencyEUR)
	second := h.create(t, 1, "80", model.CurrencyEUR)

	assert.Equal(t, first.ID, second.ID)
	offers, _, err := h.svc.ByFixture(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.True(t, offers[0].Price.Equal(dec("80")))
}

func TestCreateValidation(t *testing.T) {
	h := newServiceHarness(t)
	ctx := context.Background()
	valid := CreateOfferInput{
		FixtureID: 10,
		Owner:     model.OwnerRef{Type: model.OwnerAgent, ID: 1},
		Price:     dec("50"),
		Currency:  model.CurrencyEUR,
	}

	bad := valid
	bad.Price = dec("0")
	_, err := h.svc.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	bad = valid
	bad.Currency = "XXX"
	_, err = h.svc.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	bad = valid
	bad.Owner = model.OwnerRef{Type: "BROKER", ID: 1}
	_, err = h.svc.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidOwner)

	bad = valid
	bad.TicketType = "backstage"
	_, err = h.svc.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidTicketType)

	bad = valid
	bad.FixtureID = 999
	_, err = h.svc.Create(ctx, bad)
	assert.ErrorIs(t, err, repository.ErrFixtureNotFound)
}

func TestCreateNormalizesCurrencyCase(t *testing.T) {
	h := newServiceHarness(t)

	o, err := h.svc.Create(context.Background(), CreateOfferInput{
		FixtureID: 10,
		Owner:     model.OwnerRef{Type: model.OwnerSupplier, ID: 3},
		Price:     dec("40"),
		Currency:  " usd ",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CurrencyUSD, o.Currency)
}

func TestDeleteLastOfferClearsMinPrice(t *testing.T) {
	h := newServiceHarness(t)
	o := h.create(t, 1, "90", model.CurrencyUSD)
	require.NotNil(t, h.fixtures.fixtures[10].MinPrice)
	h.published = nil

	_, err := h.svc.Delete(context.Background(), o.ID)
	require.NoError(t, err)

	assert.Nil(t, h.fixtures.fixtures[10].MinPrice)
	require.Len(t, h.published, 1)
	assert.Empty(t, h.published[0].NewAmount)
}

func TestDeleteByOwnerRemovesCurrentListing(t *testing.T) {
	h := newServiceHarness(t)
	h.create(t, 1, "90", model.CurrencyUSD)

	owner := model.OwnerRef{Type: model.OwnerAgent, ID: 1}
	err := h.svc.DeleteByOwner(context.Background(), 10, owner, "")
	require.NoError(t, err)
	assert.Nil(t, h.fixtures.fixtures[10].MinPrice)

	err = h.svc.DeleteByOwner(context.Background(), 10, owner, "")
	assert.ErrorIs(t, err, repository.ErrOfferNotFound)
}

func TestSetAvailabilityRecomputesMinimum(t *testing.T) {
	h := newServiceHarness(t)
	cheap := h.create(t, 1, "50", model.CurrencyEUR)
	h.create(t, 2, "70", model.CurrencyEUR)

	_, err := h.svc.SetAvailability(context.Background(), cheap.ID, false)
	require.NoError(t, err)

	stored := h.fixtures.fixtures[10].MinPrice
	require.NotNil(t, stored)
	assert.True(t, stored.Amount.Equal(dec("70")))

	offers, _, err := h.svc.ByFixture(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, offers, 1)
}

func TestByFixtureReadsThroughCache(t *testing.T) {
	h := newServiceHarness(t)
	h.create(t, 1, "50", model.CurrencyEUR)
	h.offerCache.Clear()

	_, fromCache, err := h.svc.ByFixture(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, fromCache)

	_, fromCache, err = h.svc.ByFixture(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, fromCache)
}

func TestByFixtureUnknownFixture(t *testing.T) {
	h := newServiceHarness(t)

	_, _, err := h.svc.ByFixture(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrFixtureNotFound)
}

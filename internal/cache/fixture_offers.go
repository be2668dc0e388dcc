package cache

import (
	"strconv"
	"time"

	"github.com/matchprice/ticket-market/internal/model"
)

// FixtureOffersEntry is a fixture's cached offer list, price-ascending.
type FixtureOffersEntry struct {
	Offers   []*model.Offer
	CachedAt time.Time
}

// FixtureOffers caches the offer list per fixture.  Offer prices move far
// more often than schedule data, so this store pairs the largest capacity
// with the shortest TTL.
type FixtureOffers struct {
	store *Store
}

// NewFixtureOffers constructs the offer-by-fixture cache.
func NewFixtureOffers(capacity int, ttl time.Duration) *FixtureOffers {
	return &FixtureOffers{store: New(capacity, ttl)}
}

func fixtureOffersKey(fixtureID uint64) string {
	return "fixture:" + strconv.FormatUint(fixtureID, 10) + ":offers"
}

// Get returns the cached offer list for a fixture, if present.
func (c *FixtureOffers) Get(fixtureID uint64) (*FixtureOffersEntry, bool) {
	v, ok := c.store.Get(fixtureOffersKey(fixtureID))
	if !ok {
		return nil, false
	}
	e, ok := v.(*FixtureOffersEntry)
	return e, ok
}

// Set caches a fixture's offer list.
func (c *FixtureOffers) Set(fixtureID uint64, offers []*model.Offer) {
	c.store.Set(fixtureOffersKey(fixtureID), &FixtureOffersEntry{Offers: offers, CachedAt: time.Now()}, 0)
}

// Delete drops a fixture's entry and reports whether it existed.  The
// cascade deletes here without eager reload; the next read repopulates.
func (c *FixtureOffers) Delete(fixtureID uint64) bool {
	return c.store.Delete(fixtureOffersKey(fixtureID))
}

// Clear empties the cache and returns the number of entries removed.
func (c *FixtureOffers) Clear() int { return c.store.Clear() }

// Stats reports size and capacity.
func (c *FixtureOffers) Stats() Stats { return c.store.Stats() }

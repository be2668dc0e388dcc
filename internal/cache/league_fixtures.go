package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/matchprice/ticket-market/internal/model"
)

// LeagueFixturesEntry is one cached league listing for a specific filter
// variant (all fixtures, one month, or one venue).
type LeagueFixturesEntry struct {
	Fixtures []*model.Fixture
	CachedAt time.Time
}

// LeagueFixtures caches league fixture listings.  Unlike the team cache a
// league has several key variants, one per filter combination, so
// invalidation must sweep every outstanding variant for the league.
type LeagueFixtures struct {
	store *Store
}

// NewLeagueFixtures constructs the league-fixtures cache.
func NewLeagueFixtures(capacity int, ttl time.Duration) *LeagueFixtures {
	return &LeagueFixtures{store: New(capacity, ttl)}
}

func leagueKey(leagueID uint64, month string, venueID uint64) string {
	filters := map[string]string{"month": month}
	if venueID != 0 {
		filters["venue"] = strconv.FormatUint(venueID, 10)
	}
	return Key("league", strconv.FormatUint(leagueID, 10), filters)
}

func leaguePrefix(leagueID uint64) string {
	return "league:" + strconv.FormatUint(leagueID, 10) + ":"
}

// Get returns the cached listing for one filter variant, if present.
func (c *LeagueFixtures) Get(leagueID uint64, month string, venueID uint64) (*LeagueFixturesEntry, bool) {
	v, ok := c.store.Get(leagueKey(leagueID, month, venueID))
	if !ok {
		return nil, false
	}
	e, ok := v.(*LeagueFixturesEntry)
	return e, ok
}

// Set caches a league listing under its filter variant.
func (c *LeagueFixtures) Set(leagueID uint64, month string, venueID uint64, fixtures []*model.Fixture) {
	c.store.Set(leagueKey(leagueID, month, venueID),
		&LeagueFixturesEntry{Fixtures: fixtures, CachedAt: time.Now()}, 0)
}

// Delete drops one filter variant and reports whether it existed.
func (c *LeagueFixtures) Delete(leagueID uint64, month string, venueID uint64) bool {
	return c.store.Delete(leagueKey(leagueID, month, venueID))
}

// DeleteLeague drops every outstanding variant for a league and returns the
// number of entries removed.  Used by the invalidation cascade, where any
// variant may hold the stale minPrice.
func (c *LeagueFixtures) DeleteLeague(leagueID uint64) int {
	prefix := leaguePrefix(leagueID)
	removed := 0
	for _, key := range c.store.Keys() {
		if strings.HasPrefix(key, prefix) && c.store.Delete(key) {
			removed++
		}
	}
	return removed
}

// Clear empties the cache and returns the number of entries removed.
func (c *LeagueFixtures) Clear() int { return c.store.Clear() }

// Stats reports size and capacity.
func (c *LeagueFixtures) Stats() Stats { return c.store.Stats() }

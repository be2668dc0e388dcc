package cache

import (
	"strconv"
	"time"

	"github.com/matchprice/ticket-market/internal/model"
)

// TeamFixturesEntry is what the team-fixtures cache stores: a team's full
// fixture list plus the moment it was cached.
type TeamFixturesEntry struct {
	Fixtures []*model.Fixture
	CachedAt time.Time
}

// TeamFixtures caches each team's fixture list (home and away) under a
// single key per team.  Schedules change rarely, so this store runs with a
// large capacity and an hour-scale TTL.
type TeamFixtures struct {
	store *Store
}

// NewTeamFixtures constructs the team-fixtures cache.
func NewTeamFixtures(capacity int, ttl time.Duration) *TeamFixtures {
	return &TeamFixtures{store: New(capacity, ttl)}
}

func teamKey(teamID uint64) string {
	return Key("team", strconv.FormatUint(teamID, 10), nil)
}

// Get returns the cached fixture list for a team, if present.
func (c *TeamFixtures) Get(teamID uint64) (*TeamFixturesEntry, bool) {
	v, ok := c.store.Get(teamKey(teamID))
	if !ok {
		return nil, false
	}
	e, ok := v.(*TeamFixturesEntry)
	return e, ok
}

// Set caches a team's fixture list.
func (c *TeamFixtures) Set(teamID uint64, fixtures []*model.Fixture) {
	c.store.Set(teamKey(teamID), &TeamFixturesEntry{Fixtures: fixtures, CachedAt: time.Now()}, 0)
}

// Delete drops a team's entry and reports whether it existed.
func (c *TeamFixtures) Delete(teamID uint64) bool {
	return c.store.Delete(teamKey(teamID))
}

// Clear empties the cache and returns the number of entries removed.
func (c *TeamFixtures) Clear() int { return c.store.Clear() }

// Stats reports size and capacity.
func (c *TeamFixtures) Stats() Stats { return c.store.Stats() }

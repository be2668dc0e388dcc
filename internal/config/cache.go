package config

import (
	"time"
)

// StoreConfig describes one bounded cache instance: how many entries it may
// hold and how long an entry lives after its last read.
type StoreConfig struct {
	Capacity int           // maximum number of entries before LRU eviction
	TTL      time.Duration // sliding time-to-live for each entry
}

// CacheConfig carries the settings of the three cache domains.  The defaults
// reflect their different volatility/value tradeoffs: team and league
// schedules change rarely (hour-scale TTL), offer prices change constantly
// (minute-scale TTL, largest capacity).
type CacheConfig struct {
	TeamFixtures   StoreConfig
	LeagueFixtures StoreConfig
	FixtureOffers  StoreConfig
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		TeamFixtures: StoreConfig{
			Capacity: envInt("CACHE_TEAM_FIXTURES_CAPACITY", 500),
			TTL:      envDur("CACHE_TEAM_FIXTURES_TTL", time.Hour),
		},
		LeagueFixtures: StoreConfig{
			Capacity: envInt("CACHE_LEAGUE_FIXTURES_CAPACITY", 200),
			TTL:      envDur("CACHE_LEAGUE_FIXTURES_TTL", time.Hour),
		},
		FixtureOffers: StoreConfig{
			Capacity: envInt("CACHE_FIXTURE_OFFERS_CAPACITY", 1000),
			TTL:      envDur("CACHE_FIXTURE_OFFERS_TTL", 15*time.Minute),
		},
	}
}

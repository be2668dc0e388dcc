package service

import (
	"context"
	"fmt"

	"github.com/matchprice/ticket-market/internal/cache"
	"github.com/matchprice/ticket-market/internal/model"
)

// TeamStore is the slice of team persistence the query layer needs.
type TeamStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Team, error)
}

// LeagueStore is the slice of league persistence the query layer needs.
type LeagueStore interface {
	GetByID(ctx context.Context, id uint64) (*model.League, error)
}

// FixtureQueries serves the team and league fixture listings through their
// bounded caches, falling back to the database on a miss.
type FixtureQueries struct {
	fixtures FixtureStore
	teamRepo TeamStore
	leagues  LeagueStore
	teams    *cache.TeamFixtures
	variants *cache.LeagueFixtures
}

// NewFixtureQueries constructs a FixtureQueries.
func NewFixtureQueries(fixtures FixtureStore, teamRepo TeamStore, leagues LeagueStore, teams *cache.TeamFixtures, variants *cache.LeagueFixtures) *FixtureQueries {
	return &FixtureQueries{
		fixtures: fixtures,
		teamRepo: teamRepo,
		leagues:  leagues,
		teams:    teams,
		variants: variants,
	}
}

// ByTeam returns every fixture the team plays in, home or away, cached per
// team.  The second result reports whether the cache served the read.  The
// team's existence is only verified on a cache miss; a cached entry implies
// a recently valid team.
func (q *FixtureQueries) ByTeam(ctx context.Context, teamID uint64) ([]*model.Fixture, bool, error) {
	if entry, ok := q.teams.Get(teamID); ok {
		return entry.Fixtures, true, nil
	}

	if _, err := q.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, false, err
	}
	fixtures, err := q.fixtures.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, false, fmt.Errorf("list fixtures for team %d: %w", teamID, err)
	}
	q.teams.Set(teamID, fixtures)
	return fixtures, false, nil
}

// ByLeague returns a league's fixtures, optionally narrowed by month
// ("2026-08") and venue.  Each filter combination caches under its own key.
func (q *FixtureQueries) ByLeague(ctx context.Context, leagueID uint64, month string, venueID uint64) ([]*model.Fixture, bool, error) {
	if entry, ok := q.variants.Get(leagueID, month, venueID); ok {
		return entry.Fixtures, true, nil
	}

	if _, err := q.leagues.GetByID(ctx, leagueID); err != nil {
		return nil, false, err
	}
	fixtures, err := q.fixtures.ListByLeague(ctx, leagueID, month, venueID)
	if err != nil {
		return nil, false, fmt.Errorf("list fixtures for league %d: %w", leagueID, err)
	}
	q.variants.Set(leagueID, month, venueID, fixtures)
	return fixtures, false, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchprice/ticket-market/internal/cache"
	"github.com/matchprice/ticket-market/internal/model"
	"github.com/matchprice/ticket-market/internal/repository"
)

func newQueriesHarness(teams *fakeTeamStore, leagues *fakeLeagueStore) (*FixtureQueries, *fakeFixtureStore) {
	fixtures := newFakeFixtureStore()
	q := NewFixtureQueries(fixtures, teams, leagues,
		cache.NewTeamFixtures(10, time.Hour), cache.NewLeagueFixtures(10, time.Hour))
	return q, fixtures
}

func TestByTeamReadsThroughCache(t *testing.T) {
	q, fixtures := newQueriesHarness(&fakeTeamStore{}, &fakeLeagueStore{})
	fixtures.teamFixtures[1] = []*model.Fixture{{ID: 10}, {ID: 11}}

	got, cached, err := q.ByTeam(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, got, 2)

	_, cached, err = q.ByTeam(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, fixtures.teamListCalls[1], "second read must not hit the database")
}

func TestByTeamUnknownTeam(t *testing.T) {
	q, _ := newQueriesHarness(&fakeTeamStore{missing: map[uint64]bool{5: true}}, &fakeLeagueStore{})

	_, _, err := q.ByTeam(context.Background(), 5)
	assert.ErrorIs(t, err, repository.ErrTeamNotFound)
}

func TestByLeagueCachesEachFilterVariant(t *testing.T) {
	q, fixtures := newQueriesHarness(&fakeTeamStore{}, &fakeLeagueStore{})
	fixtures.leagueFixtures[7] = []*model.Fixture{{ID: 10}}

	_, cached, err := q.ByLeague(context.Background(), 7, "", 0)
	require.NoError(t, err)
	assert.False(t, cached)

	// A different filter combination is its own entry and misses.
	_, cached, err = q.ByLeague(context.Background(), 7, "2026-08", 0)
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = q.ByLeague(context.Background(), 7, "", 0)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 2, fixtures.leagueListCalls)
}

func TestByLeagueUnknownLeague(t *testing.T) {
	q, _ := newQueriesHarness(&fakeTeamStore{}, &fakeLeagueStore{missing: map[uint64]bool{9: true}})

	_, _, err := q.ByLeague(context.Background(), 9, "", 0)
	assert.ErrorIs(t, err, repository.ErrLeagueNotFound)
}

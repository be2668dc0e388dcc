package service

import (
	"context"
	"log"
	"time"

	"github.com/matchprice/ticket-market/internal/cache"
	"github.com/matchprice/ticket-market/internal/model"
	"github.com/matchprice/ticket-market/internal/queue"
)

// PublishFunc sends a price change event to the broker. Wired to
// queue_publisher.PublishPriceChanged in production; nil disables publishing.
type PublishFunc func(ctx context.Context, event queue.PriceChangedEvent) error

// Cascade propagates a fixture's minimum price change into every cache that
// embeds the stale value. Steps run independently and best-effort: a failed
// reload is logged and the remaining steps still run, since each cache can
// recover lazily on its next miss.
type Cascade struct {
	queries    *FixtureQueries
	teams      *cache.TeamFixtures
	leagues    *cache.LeagueFixtures
	offerCache *cache.FixtureOffers
	publish    PublishFunc
	now        func() time.Time
}

// NewCascade constructs a Cascade. publish may be nil.
func NewCascade(queries *FixtureQueries, teams *cache.TeamFixtures, leagues *cache.LeagueFixtures, offerCache *cache.FixtureOffers, publish PublishFunc) *Cascade {
	return &Cascade{
		queries:    queries,
		teams:      teams,
		leagues:    leagues,
		offerCache: offerCache,
		publish:    publish,
		now:        time.Now,
	}
}

// Run invalidates the fixture's dependent cache entries after a confirmed
// minimum price change. Team and league listings are eagerly reloaded so the
// hot read paths stay warm; the fixture's offer list is only dropped and
// repopulates on its next read. A price.changed event is published last.
func (c *Cascade) Run(ctx context.Context, fixture *model.Fixture, change *MinPriceResult) {
	c.reloadTeam(ctx, fixture.HomeTeamID)
	c.reloadTeam(ctx, fixture.AwayTeamID)
	c.reloadLeague(ctx, fixture.LeagueID)
	c.offerCache.Delete(fixture.ID)

	if c.publish == nil {
		return
	}
	ev := queue.PriceChangedEvent{
		FixtureID:  fixture.ID,
		LeagueID:   fixture.LeagueID,
		HomeTeamID: fixture.HomeTeamID,
		AwayTeamID: fixture.AwayTeamID,
		ChangedAt:  c.now().UTC().Format(time.RFC3339),
	}
	if change.New != nil {
		ev.NewAmount = change.New.Amount.String()
		ev.NewCurrency = change.New.Currency
	}
	if change.Previous != nil {
		ev.PreviousAmount = change.Previous.Amount.String()
		ev.PreviousCurrency = change.Previous.Currency
	}
	if err := c.publish(ctx, ev); err != nil {
		log.Printf("cascade: publish price change for fixture %d failed: %v", fixture.ID, err)
	}
}

// reloadTeam drops the team's cached fixture list and refetches it so the
// entry carries the new minimum immediately.
func (c *Cascade) reloadTeam(ctx context.Context, teamID uint64) {
	c.teams.Delete(teamID)
	if _, _, err := c.queries.ByTeam(ctx, teamID); err != nil {
		log.Printf("cascade: reload fixtures for team %d failed: %v", teamID, err)
	}
}

// reloadLeague sweeps every cached filter variant for the league, then
// rebuilds the unfiltered listing. Filtered variants repopulate lazily.
func (c *Cascade) reloadLeague(ctx context.Context, leagueID uint64) {
	c.leagues.DeleteLeague(leagueID)
	if _, _, err := c.queries.ByLeague(ctx, leagueID, "", 0); err != nil {
		log.Printf("cascade: reload fixtures for league %d failed: %v", leagueID, err)
	}
}

package model

import "time"

// Fixture represents a scheduled match between two teams in a league.  The
// MinPrice field is derived state: it mirrors the cheapest currently
// available offer and is written exclusively by the minPrice synchronizer,
// never by offer mutation code directly.
//
// Fields:
//  ID         – primary key identifier.
//  LeagueID   – league the fixture belongs to.
//  HomeTeamID – home side.
//  AwayTeamID – away side.
//  VenueID    – where the match is played.
//  Date       – kickoff time (UTC).
//  Status     – free-form schedule status (e.g. "scheduled", "postponed").
//  MinPrice   – cheapest available offer, nil when no offers exist.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Fixture struct {
	ID         uint64    // fixtures.id
	LeagueID   uint64    // fixtures.league_id
	HomeTeamID uint64    // fixtures.home_team_id
	AwayTeamID uint64    // fixtures.away_team_id
	VenueID    uint64    // fixtures.venue_id
	Date       time.Time // fixtures.date
	Status     string    // fixtures.status
	MinPrice   *MinPrice // fixtures.min_price_* (all nullable together)
	CreatedAt  time.Time // fixtures.created_at
	UpdatedAt  time.Time // fixtures.updated_at
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// PriceChangedEvent is published when the synchronizer changes a fixture's
// stored minimum price. It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database. Empty New fields mean the minimum was cleared because
// the fixture no longer has available offers.
type PriceChangedEvent struct {
	FixtureID        uint64 `json:"fixture_id"`
	LeagueID         uint64 `json:"league_id"`
	HomeTeamID       uint64 `json:"home_team_id"`
	AwayTeamID       uint64 `json:"away_team_id"`
	NewAmount        string `json:"new_amount,omitempty"`
	NewCurrency      string `json:"new_currency,omitempty"`
	PreviousAmount   string `json:"previous_amount,omitempty"`
	PreviousCurrency string `json:"previous_currency,omitempty"`
	ChangedAt        string `json:"changed_at"`
}

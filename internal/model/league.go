package model

import "time"

// League groups fixtures for the league-fixtures read path and cache.
type League struct {
	ID        uint64    // leagues.id
	Name      string    // leagues.name
	Slug      string    // leagues.slug
	Country   string    // leagues.country
	CreatedAt time.Time // leagues.created_at
	UpdatedAt time.Time // leagues.updated_at
}

package model

import "time"

// Team is one side of a fixture.  Only the fields the read paths and the
// cache cascade need are carried here.
type Team struct {
	ID        uint64    // teams.id
	Name      string    // teams.name
	Slug      string    // teams.slug
	Country   string    // teams.country
	CreatedAt time.Time // teams.created_at
	UpdatedAt time.Time // teams.updated_at
}

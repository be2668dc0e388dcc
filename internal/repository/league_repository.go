package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchprice/ticket-market/internal/model"
)

// ErrLeagueNotFound indicates that a league was not located in the DB.
var ErrLeagueNotFound = errors.New("league not found")

// LeagueRepo manages persistence for leagues.
type LeagueRepo struct {
	db *sql.DB
}

// NewLeagueRepo constructs a LeagueRepo with the given DB handle.
func NewLeagueRepo(db *sql.DB) *LeagueRepo { return &LeagueRepo{db: db} }

// GetByID retrieves a league by its ID.  It returns ErrLeagueNotFound if
// there is no matching row.
func (r *LeagueRepo) GetByID(ctx context.Context, id uint64) (*model.League, error) {
	const q = `SELECT id, name, slug, country, created_at, updated_at FROM leagues WHERE id = ?`
	var l model.League
	err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Name, &l.Slug, &l.Country, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeagueNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

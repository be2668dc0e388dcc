package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchprice/ticket-market/internal/model"
)

// ErrTeamNotFound indicates that a team was not located in the DB.
var ErrTeamNotFound = errors.New("team not found")

// TeamRepo manages persistence for teams.
type TeamRepo struct {
	db *sql.DB
}

// NewTeamRepo constructs a TeamRepo with the given DB handle.
func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

// GetByID retrieves a team by its ID.  It returns ErrTeamNotFound if there
// is no matching row.
func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (*model.Team, error) {
	const q = `SELECT id, name, slug, country, created_at, updated_at FROM teams WHERE id = ?`
	var t model.Team
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Slug, &t.Country, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// This file defines persistence for fixtures.  The three min_price_* columns
// are nullable together: all NULL means "no available offers", and only the
// minPrice synchronizer writes them.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchprice/ticket-market/internal/model"
)

// ErrFixtureNotFound indicates that a fixture was not located in the DB.
var ErrFixtureNotFound = errors.New("fixture not found")

// FixtureRepo manages persistence for fixtures.
type FixtureRepo struct {
	db *sql.DB
}

// NewFixtureRepo constructs a FixtureRepo with the given DB handle.
func NewFixtureRepo(db *sql.DB) *FixtureRepo {
	return &FixtureRepo{db: db}
}

const fixtureColumns = `id, league_id, home_team_id, away_team_id, venue_id, date, status,
       min_price_amount, min_price_currency, min_price_updated_at, created_at, updated_at`

func scanFixture(row interface{ Scan(...any) error }) (*model.Fixture, error) {
	var (
		f         model.Fixture
		amount    decimal.NullDecimal
		currency  sql.NullString
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&f.ID, &f.LeagueID, &f.HomeTeamID, &f.AwayTeamID, &f.VenueID, &f.Date, &f.Status,
		&amount, &currency, &updatedAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amount.Valid && currency.Valid {
		f.MinPrice = &model.MinPrice{
			Amount:   amount.Decimal,
			Currency: currency.String,
		}
		if updatedAt.Valid {
			f.MinPrice.UpdatedAt = updatedAt.Time
		}
	}
	return &f, nil
}

// GetByID retrieves a fixture by its ID.  It returns ErrFixtureNotFound if
// there is no matching row.
func (r *FixtureRepo) GetByID(ctx context.Context, id uint64) (*model.Fixture, error) {
	const q = `SELECT ` + fixtureColumns + ` FROM fixtures WHERE id = ?`
	f, err := scanFixture(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFixtureNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SetMinPrice writes the denormalized cheapest-offer pair onto a fixture.
// The amount and currency are the winning offer's own values.
func (r *FixtureRepo) SetMinPrice(ctx context.Context, id uint64, amount decimal.Decimal, currency string) error {
	const q = `UPDATE fixtures
	           SET min_price_amount = ?, min_price_currency = ?, min_price_updated_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, amount, currency, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return mustExist(res)
}

// ClearMinPrice removes the minPrice field entirely.  The columns go back to
// NULL; a zero amount is never written.
func (r *FixtureRepo) ClearMinPrice(ctx context.Context, id uint64) error {
	const q = `UPDATE fixtures
	           SET min_price_amount = NULL, min_price_currency = NULL, min_price_updated_at = NULL
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return mustExist(res)
}

// ListByTeam returns a team's fixtures, home or away, soonest first.  This
// is the reload query behind the team-fixtures cache.
func (r *FixtureRepo) ListByTeam(ctx context.Context, teamID uint64) ([]*model.Fixture, error) {
	const q = `SELECT ` + fixtureColumns + ` FROM fixtures
	           WHERE home_team_id = ? OR away_team_id = ?
	           ORDER BY date ASC`
	return r.listFixtures(ctx, q, teamID, teamID)
}

// ListByLeague returns a league's fixtures, optionally narrowed to one month
// ("2026-08") and/or one venue.  Each filter combination corresponds to its
// own cache key variant.
func (r *FixtureRepo) ListByLeague(ctx context.Context, leagueID uint64, month string, venueID uint64) ([]*model.Fixture, error) {
	q := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE league_id = ?`
	args := []any{leagueID}
	if month != "" {
		q += ` AND DATE_FORMAT(date, '%Y-%m') = ?`
		args = append(args, month)
	}
	if venueID != 0 {
		q += ` AND venue_id = ?`
		args = append(args, venueID)
	}
	q += ` ORDER BY date ASC`
	return r.listFixtures(ctx, q, args...)
}

func (r *FixtureRepo) listFixtures(ctx context.Context, q string, args ...any) ([]*model.Fixture, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// mustExist converts a zero-row UPDATE into ErrFixtureNotFound.
func mustExist(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFixtureNotFound
	}
	return nil
}

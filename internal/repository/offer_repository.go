// Package repository contains data access logic over the system of record.
// This file defines persistence for offers.  An offer row is one seller's
// listing for a fixture; the unique key (fixture_id, owner_id, ticket_type)
// enforces the "one current offer per owner per fixture per ticket type"
// invariant, and inserts supersede rather than duplicate.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel definitions

	"github.com/shopspring/decimal"

	"github.com/matchprice/ticket-market/internal/model"
)

// ErrOfferNotFound indicates that an offer was not located in the DB.
var ErrOfferNotFound = errors.New("offer not found")

// OfferRepo manages persistence for offers.
type OfferRepo struct {
	db *sql.DB
}

// NewOfferRepo constructs an OfferRepo with the given DB handle.
func NewOfferRepo(db *sql.DB) *OfferRepo {
	return &OfferRepo{db: db}
}

const offerColumns = `id, fixture_id, owner_type, owner_id, price, currency,
       ticket_type, is_available, url, notes, created_at, updated_at`

// scanOffer reads one offer row into a model.Offer.  url and notes are
// nullable and mapped to pointers.
func scanOffer(row interface{ Scan(...any) error }) (*model.Offer, error) {
	var (
		o     model.Offer
		url   sql.NullString
		notes sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.FixtureID, &o.Owner.Type, &o.Owner.ID, &o.Price, &o.Currency,
		&o.TicketType, &o.IsAvailable, &url, &notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if url.Valid {
		o.URL = &url.String
	}
	if notes.Valid {
		o.Notes = &notes.String
	}
	return &o, nil
}

// Create inserts a new offer.  When an offer already exists for the same
// (fixture, owner, ticket type) triple, the insert supersedes it in place:
// price, currency, availability, url and notes are replaced.  On success the
// stored row (including the ID of a superseded row) is read back into o.
func (r *OfferRepo) Create(ctx context.Context, o *model.Offer) error {
	const q = `INSERT INTO offers
	           (fixture_id, owner_type, owner_id, price, currency, ticket_type, is_available, url, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	           price = VALUES(price), currency = VALUES(currency),
	           is_available = VALUES(is_available), url = VALUES(url), notes = VALUES(notes)`
	_, err := r.db.ExecContext(ctx, q,
		o.FixtureID, string(o.Owner.Type), o.Owner.ID, o.Price, o.Currency,
		o.TicketType, o.IsAvailable, nullable(o.URL), nullable(o.Notes),
	)
	if err != nil {
		return err
	}
	// Re-select by the unique triple: LastInsertId is unreliable when the
	// insert turned into an update of the superseded row.
	const sel = `SELECT ` + offerColumns + ` FROM offers
	             WHERE fixture_id = ? AND owner_id = ? AND ticket_type = ?`
	stored, err := scanOffer(r.db.QueryRowContext(ctx, sel, o.FixtureID, o.Owner.ID, o.TicketType))
	if err != nil {
		return err
	}
	*o = *stored
	return nil
}

// GetByID retrieves an offer by its ID.  It returns ErrOfferNotFound if
// there is no matching row.
func (r *OfferRepo) GetByID(ctx context.Context, id uint64) (*model.Offer, error) {
	const q = `SELECT ` + offerColumns + ` FROM offers WHERE id = ?`
	o, err := scanOffer(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes an offer by ID.  It returns ErrOfferNotFound when no row
// was deleted.
func (r *OfferRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// DeleteByOwnerAndTicketType removes the owner's offer of the given ticket
// type for a fixture and reports whether a row existed.
func (r *OfferRepo) DeleteByOwnerAndTicketType(ctx context.Context, fixtureID uint64, owner model.OwnerRef, ticketType string) (bool, error) {
	const q = `DELETE FROM offers
	           WHERE fixture_id = ? AND owner_type = ? AND owner_id = ? AND ticket_type = ?`
	res, err := r.db.ExecContext(ctx, q, fixtureID, string(owner.Type), owner.ID, ticketType)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetAvailability flips the is_available flag on an offer.  It returns
// ErrOfferNotFound when the offer does not exist.
func (r *OfferRepo) SetAvailability(ctx context.Context, id uint64, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE offers SET is_available = ? WHERE id = ?`, available, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// ListByFixture returns every offer for a fixture, available or not, sorted
// by price ascending.  This is the reload query behind the offer-by-fixture
// cache.
func (r *OfferRepo) ListByFixture(ctx context.Context, fixtureID uint64) ([]*model.Offer, error) {
	const q = `SELECT ` + offerColumns + ` FROM offers WHERE fixture_id = ? ORDER BY price ASC, id ASC`
	return r.listOffers(ctx, q, fixtureID)
}

// ListAvailableByFixture returns the offers that participate in price
// computation: those with is_available = TRUE, sorted by price ascending.
func (r *OfferRepo) ListAvailableByFixture(ctx context.Context, fixtureID uint64) ([]*model.Offer, error) {
	const q = `SELECT ` + offerColumns + ` FROM offers
	           WHERE fixture_id = ? AND is_available = TRUE ORDER BY price ASC, id ASC`
	return r.listOffers(ctx, q, fixtureID)
}

func (r *OfferRepo) listOffers(ctx context.Context, q string, args ...any) ([]*model.Offer, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// nullable converts an optional string into a driver-friendly value.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// decimalOrZero is a small helper for callers that need a concrete value
// from a nullable DECIMAL column.
func decimalOrZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

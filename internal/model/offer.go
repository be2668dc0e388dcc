package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OwnerType tags who listed an offer.  Only two kinds exist and every switch
// over the type must handle both explicitly.
type OwnerType string

const (
	OwnerAgent    OwnerType = "AGENT"
	OwnerSupplier OwnerType = "SUPPLIER"
)

// Valid reports whether t is a known owner kind.
func (t OwnerType) Valid() bool {
	switch t {
	case OwnerAgent, OwnerSupplier:
		return true
	}
	return false
}

// OwnerRef identifies the seller behind an offer: a type tag plus the row ID
// in the corresponding table.  It replaces the original loosely-typed
// polymorphic reference with an explicit tagged pair.
type OwnerRef struct {
	Type OwnerType // offers.owner_type
	ID   uint64    // offers.owner_id
}

// String renders the ref for log lines, e.g. "AGENT/42".
func (o OwnerRef) String() string { return fmt.Sprintf("%s/%d", o.Type, o.ID) }

// Ticket types an offer can be listed under.  An owner may hold one current
// offer per fixture per ticket type.
const (
	TicketStandard = "standard"
	TicketVIP      = "vip"
)

// ValidTicketType reports whether t is a known ticket type.
func ValidTicketType(t string) bool {
	return t == TicketStandard || t == TicketVIP
}

// Offer represents one seller's availability for a fixture: a price in a
// tier-1 currency for a given ticket type.  At most one current offer exists
// per (FixtureID, Owner.ID, TicketType); creating another for the same triple
// supersedes the previous one.  Only IsAvailable offers participate in the
// minPrice computation.
//
// Fields:
//  ID          – primary key identifier.
//  FixtureID   – fixture the tickets are for.
//  Owner       – agent or supplier listing the tickets.
//  Price       – asking price, strictly positive.
//  Currency    – tier-1 currency code of Price.
//  TicketType  – "standard" or "vip".
//  IsAvailable – whether the offer currently counts toward pricing.
//  URL         – optional external listing URL.
//  Notes       – optional free text, max 300 chars.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Offer struct {
	ID          uint64          // offers.id
	FixtureID   uint64          // offers.fixture_id
	Owner       OwnerRef        // offers.owner_type + offers.owner_id
	Price       decimal.Decimal // offers.price
	Currency    string          // offers.currency
	TicketType  string          // offers.ticket_type
	IsAvailable bool            // offers.is_available
	URL         *string         // offers.url (nullable)
	Notes       *string         // offers.notes (nullable)
	CreatedAt   time.Time       // offers.created_at
	UpdatedAt   time.Time       // offers.updated_at
}

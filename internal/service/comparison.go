// Package service implements the pricing engine: offer comparison, the
// minPrice synchronizer, the cache invalidation cascade and the offer
// mutation/read flows that drive them.
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/matchprice/ticket-market/internal/model"
)

// OfferStore is the slice of offer persistence the pricing engine needs.
// *repository.OfferRepo satisfies it; tests use fakes.
type OfferStore interface {
	Create(ctx context.Context, o *model.Offer) error
	GetByID(ctx context.Context, id uint64) (*model.Offer, error)
	Delete(ctx context.Context, id uint64) error
	DeleteByOwnerAndTicketType(ctx context.Context, fixtureID uint64, owner model.OwnerRef, ticketType string) (bool, error)
	SetAvailability(ctx context.Context, id uint64, available bool) error
	ListByFixture(ctx context.Context, fixtureID uint64) ([]*model.Offer, error)
	ListAvailableByFixture(ctx context.Context, fixtureID uint64) ([]*model.Offer, error)
}

// FixtureStore is the slice of fixture persistence the pricing engine needs.
type FixtureStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Fixture, error)
	SetMinPrice(ctx context.Context, id uint64, amount decimal.Decimal, currency string) error
	ClearMinPrice(ctx context.Context, id uint64) error
	ListByTeam(ctx context.Context, teamID uint64) ([]*model.Fixture, error)
	ListByLeague(ctx context.Context, leagueID uint64, month string, venueID uint64) ([]*model.Fixture, error)
}

// RateResolver converts between currencies.  Implemented by
// *exchange.Resolver.
type RateResolver interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// ComparisonResult reports how a candidate offer ranks against a fixture's
// existing available offers, all compared in the base currency.
type ComparisonResult struct {
	IsLowest        bool
	LowestInBase    decimal.Decimal // cheapest existing offer, base currency
	CandidateInBase decimal.Decimal
	TotalOffers     int // existing offers considered (candidate excluded)
}

// LowestOffer pairs the winning offer with its base-currency price.
type LowestOffer struct {
	Offer       *model.Offer
	PriceInBase decimal.Decimal
}

// Comparator ranks a fixture's offers by their base-currency price.
type Comparator struct {
	offers OfferStore
	rates  RateResolver
}

// NewComparator constructs a Comparator.
func NewComparator(offers OfferStore, rates RateResolver) *Comparator {
	return &Comparator{offers: offers, rates: rates}
}

// toBase converts one price to the base currency.  When the resolver fails
// for the offer's currency the original, unconverted amount is used as the
// comparison value, so the offer stays in the ranking rather than vanishing
// from it.
func (c *Comparator) toBase(ctx context.Context, amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == model.BaseCurrency {
		return amount
	}
	rate, err := c.rates.Rate(ctx, currency, model.BaseCurrency)
	if err != nil {
		log.Printf("comparison: conversion %s->%s failed, using unconverted price: %v",
			currency, model.BaseCurrency, err)
		return amount
	}
	return amount.Mul(decimal.NewFromFloat(rate))
}

// IsLowestOffer reports whether the candidate would be the cheapest offer on
// the fixture.  Ties favour the candidate: a converted price equal to the
// current minimum still counts as lowest.  With no existing available offers
// the candidate is trivially the lowest.
func (c *Comparator) IsLowestOffer(ctx context.Context, candidate *model.Offer, fixtureID uint64) (*ComparisonResult, error) {
	existing, err := c.offers.ListAvailableByFixture(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("list offers for fixture %d: %w", fixtureID, err)
	}

	candidateInBase := c.toBase(ctx, candidate.Price, candidate.Currency)

	if len(existing) == 0 {
		return &ComparisonResult{
			IsLowest:        true,
			LowestInBase:    candidateInBase,
			CandidateInBase: candidateInBase,
			TotalOffers:     0,
		}, nil
	}

	lowest := c.toBase(ctx, existing[0].Price, existing[0].Currency)
	for _, o := range existing[1:] {
		if p := c.toBase(ctx, o.Price, o.Currency); p.LessThan(lowest) {
			lowest = p
		}
	}

	return &ComparisonResult{
		IsLowest:        candidateInBase.LessThanOrEqual(lowest),
		LowestInBase:    lowest,
		CandidateInBase: candidateInBase,
		TotalOffers:     len(existing),
	}, nil
}

// Lowest returns the fixture's cheapest available offer after converting
// every price to the base currency, or nil when no available offers exist.
func (c *Comparator) Lowest(ctx context.Context, fixtureID uint64) (*LowestOffer, error) {
	offers, err := c.offers.ListAvailableByFixture(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("list offers for fixture %d: %w", fixtureID, err)
	}
	if len(offers) == 0 {
		return nil, nil
	}

	best := offers[0]
	bestInBase := c.toBase(ctx, best.Price, best.Currency)
	for _, o := range offers[1:] {
		if p := c.toBase(ctx, o.Price, o.Currency); p.LessThan(bestInBase) {
			best, bestInBase = o, p
		}
	}
	return &LowestOffer{Offer: best, PriceInBase: bestInBase}, nil
}

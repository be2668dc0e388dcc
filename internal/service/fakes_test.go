package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matchprice/ticket-market/internal/model"
	"github.com/matchprice/ticket-market/internal/repository"
)

// fakeRates resolves from an in-memory table keyed "FROM:TO".
type fakeRates struct {
	rates map[string]float64
	fail  map[string]bool // currencies whose lookups error
}

func (f *fakeRates) Rate(_ context.Context, from, to string) (float64, error) {
	if from == to {
		return 1.0, nil
	}
	if f.fail[from] {
		return 0, errors.New("rate unavailable")
	}
	r, ok := f.rates[from+":"+to]
	if !ok {
		return 0, fmt.Errorf("no rate for %s:%s", from, to)
	}
	return r, nil
}

// fakeOfferStore keeps offers in a map and mimics the repository's
// supersede-on-conflict and ordering behaviour.
type fakeOfferStore struct {
	offers  map[uint64]*model.Offer
	nextID  uint64
	listErr error
}

func newFakeOfferStore() *fakeOfferStore {
	return &fakeOfferStore{offers: make(map[uint64]*model.Offer)}
}

func (f *fakeOfferStore) Create(_ context.Context, o *model.Offer) error {
	for _, existing := range f.offers {
		if existing.FixtureID == o.FixtureID && existing.Owner == o.Owner && existing.TicketType == o.TicketType {
			o.ID = existing.ID
			f.offers[o.ID] = o
			return nil
		}
	}
	f.nextID++
	o.ID = f.nextID
	f.offers[o.ID] = o
	return nil
}

func (f *fakeOfferStore) GetByID(_ context.Context, id uint64) (*model.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return nil, repository.ErrOfferNotFound
	}
	return o, nil
}

func (f *fakeOfferStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.offers[id]; !ok {
		return repository.ErrOfferNotFound
	}
	delete(f.offers, id)
	return nil
}

func (f *fakeOfferStore) DeleteByOwnerAndTicketType(_ context.Context, fixtureID uint64, owner model.OwnerRef, ticketType string) (bool, error) {
	for id, o := range f.offers {
		if o.FixtureID == fixtureID && o.Owner == owner && o.TicketType == ticketType {
			delete(f.offers, id)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOfferStore) SetAvailability(_ context.Context, id uint64, available bool) error {
	o, ok := f.offers[id]
	if !ok {
		return repository.ErrOfferNotFound
	}
	o.IsAvailable = available
	return nil
}

func (f *fakeOfferStore) ListByFixture(_ context.Context, fixtureID uint64) ([]*model.Offer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Offer
	for _, o := range f.offers {
		if o.FixtureID == fixtureID {
			out = append(out, o)
		}
	}
	sortOffers(out)
	return out, nil
}

func (f *fakeOfferStore) ListAvailableByFixture(_ context.Context, fixtureID uint64) ([]*model.Offer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Offer
	for _, o := range f.offers {
		if o.FixtureID == fixtureID && o.IsAvailable {
			out = append(out, o)
		}
	}
	sortOffers(out)
	return out, nil
}

func sortOffers(offers []*model.Offer) {
	sort.Slice(offers, func(i, j int) bool {
		if !offers[i].Price.Equal(offers[j].Price) {
			return offers[i].Price.LessThan(offers[j].Price)
		}
		return offers[i].ID < offers[j].ID
	})
}

// fakeTeamStore answers existence checks; IDs in missing return not-found.
type fakeTeamStore struct{ missing map[uint64]bool }

func (f *fakeTeamStore) GetByID(_ context.Context, id uint64) (*model.Team, error) {
	if f.missing[id] {
		return nil, repository.ErrTeamNotFound
	}
	return &model.Team{ID: id}, nil
}

type fakeLeagueStore struct{ missing map[uint64]bool }

func (f *fakeLeagueStore) GetByID(_ context.Context, id uint64) (*model.League, error) {
	if f.missing[id] {
		return nil, repository.ErrLeagueNotFound
	}
	return &model.League{ID: id}, nil
}

// fakeFixtureStore records min price writes and serves canned team/league
// listings with per-team error injection and call counting.
type fakeFixtureStore struct {
	fixtures map[uint64]*model.Fixture

	setCalls   int
	clearCalls int

	teamFixtures    map[uint64][]*model.Fixture
	leagueFixtures  map[uint64][]*model.Fixture
	teamErr         map[uint64]error
	teamListCalls   map[uint64]int
	leagueListCalls int
}

func newFakeFixtureStore(fixtures ...*model.Fixture) *fakeFixtureStore {
	f := &fakeFixtureStore{
		fixtures:       make(map[uint64]*model.Fixture),
		teamFixtures:   make(map[uint64][]*model.Fixture),
		leagueFixtures: make(map[uint64][]*model.Fixture),
		teamErr:        make(map[uint64]error),
		teamListCalls:  make(map[uint64]int),
	}
	for _, fx := range fixtures {
		f.fixtures[fx.ID] = fx
	}
	return f
}

func (f *fakeFixtureStore) GetByID(_ context.Context, id uint64) (*model.Fixture, error) {
	fx, ok := f.fixtures[id]
	if !ok {
		return nil, repository.ErrFixtureNotFound
	}
	return fx, nil
}

func (f *fakeFixtureStore) SetMinPrice(_ context.Context, id uint64, amount decimal.Decimal, currency string) error {
	fx, ok := f.fixtures[id]
	if !ok {
		return repository.ErrFixtureNotFound
	}
	f.setCalls++
	fx.MinPrice = &model.MinPrice{Amount: amount, Currency: currency, UpdatedAt: time.Now()}
	return nil
}

func (f *fakeFixtureStore) ClearMinPrice(_ context.Context, id uint64) error {
	fx, ok := f.fixtures[id]
	if !ok {
		return repository.ErrFixtureNotFound
	}
	f.clearCalls++
	fx.MinPrice = nil
	return nil
}

func (f *fakeFixtureStore) ListByTeam(_ context.Context, teamID uint64) ([]*model.Fixture, error) {
	f.teamListCalls[teamID]++
	if err := f.teamErr[teamID]; err != nil {
		return nil, err
	}
	return f.teamFixtures[teamID], nil
}

func (f *fakeFixtureStore) ListByLeague(_ context.Context, leagueID uint64, _ string, _ uint64) ([]*model.Fixture, error) {
	f.leagueListCalls++
	return f.leagueFixtures[leagueID], nil
}

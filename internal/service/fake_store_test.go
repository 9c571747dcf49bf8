package service

import (
	"context"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/iliyamo/gig-scheduler/internal/model"
	"github.com/iliyamo/gig-scheduler/internal/queue"
	"github.com/iliyamo/gig-scheduler/internal/repository"
)

type priceKey struct {
	gigID     uint64
	priceType string
}

type fakeState struct {
	gigs    map[uint64]model.Gig
	prices  map[priceKey]model.TicketPrice
	perfs   []model.Performance
	tickets []model.Ticket
	nextID  uint64
}

func (s fakeState) clone() fakeState {
	return fakeState{
		gigs:    maps.Clone(s.gigs),
		prices:  maps.Clone(s.prices),
		perfs:   slices.Clone(s.perfs),
		tickets: slices.Clone(s.tickets),
		nextID:  s.nextID,
	}
}

// fakeStore is an in-memory store.  WithTx snapshots the mutable state
// and restores it when fn fails, so tests can assert that failed
// operations leave no partial writes.  fail maps a method name (or
// "commit") to the error it should return.
type fakeStore struct {
	venues map[uint64]model.Venue
	acts   map[uint64]model.Act
	fakeState

	fail    map[string]error
	txCalls int

	// afterList, when set, runs once after ListPerformances has read
	// the lineup and before it returns.
	afterList func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		venues: map[uint64]model.Venue{
			1: {ID: 1, Name: "Arts Centre Theatre", HireCost: 500, Capacity: 3},
		},
		acts: map[uint64]model.Act{
			1: {ID: 1, Name: "QLS", Genre: "Music", StandardFee: 100},
			2: {ID: 2, Name: "ViewBee 40", Genre: "Music", StandardFee: 200},
			3: {ID: 3, Name: "The Where", Genre: "Music", StandardFee: 300},
			4: {ID: 4, Name: "Scalar Swift", Genre: "rock", StandardFee: 400},
		},
		fakeState: fakeState{
			gigs:   map[uint64]model.Gig{},
			prices: map[priceKey]model.TicketPrice{},
			nextID: 100,
		},
		fail: map[string]error{},
	}
}

func (f *fakeStore) id() uint64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCalls++
	snap := f.fakeState.clone()
	if err := fn(ctx); err != nil {
		f.fakeState = snap
		return err
	}
	if err := f.fail["commit"]; err != nil {
		f.fakeState = snap
		return err
	}
	return nil
}

func (f *fakeStore) FindVenueByName(_ context.Context, name string) (model.Venue, error) {
	if err := f.fail["FindVenueByName"]; err != nil {
		return model.Venue{}, err
	}
	for _, v := range f.venues {
		if v.Name == name {
			return v, nil
		}
	}
	return model.Venue{}, repository.ErrVenueNotFound
}

func (f *fakeStore) GetVenue(_ context.Context, id uint64) (model.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return model.Venue{}, repository.ErrVenueNotFound
	}
	return v, nil
}

func (f *fakeStore) GetAct(_ context.Context, id uint64) (model.Act, error) {
	a, ok := f.acts[id]
	if !ok {
		return model.Act{}, repository.ErrActNotFound
	}
	return a, nil
}

func (f *fakeStore) FindActByName(_ context.Context, name string) (model.Act, error) {
	for _, a := range f.acts {
		if a.Name == name {
			return a, nil
		}
	}
	return model.Act{}, repository.ErrActNotFound
}

func (f *fakeStore) CreateGig(_ context.Context, g *model.Gig) error {
	if err := f.fail["CreateGig"]; err != nil {
		return err
	}
	g.ID = f.id()
	g.Status = model.GigScheduled
	f.gigs[g.ID] = *g
	return nil
}

func (f *fakeStore) GetGig(_ context.Context, id uint64) (model.Gig, error) {
	if err := f.fail["GetGig"]; err != nil {
		return model.Gig{}, err
	}
	g, ok := f.gigs[id]
	if !ok {
		return model.Gig{}, repository.ErrGigNotFound
	}
	return g, nil
}

func (f *fakeStore) GetGigForUpdate(ctx context.Context, id uint64) (model.Gig, error) {
	return f.GetGig(ctx, id)
}

func (f *fakeStore) MarkGigCancelled(_ context.Context, id uint64) error {
	if err := f.fail["MarkGigCancelled"]; err != nil {
		return err
	}
	g := f.gigs[id]
	g.Status = model.GigCancelled
	f.gigs[id] = g
	return nil
}

func (f *fakeStore) CreateTicketPrice(_ context.Context, p model.TicketPrice) error {
	if err := f.fail["CreateTicketPrice"]; err != nil {
		return err
	}
	f.prices[priceKey{p.GigID, p.PriceType}] = p
	return nil
}

func (f *fakeStore) GetTicketPrice(_ context.Context, gigID uint64, priceType string) (model.TicketPrice, error) {
	p, ok := f.prices[priceKey{gigID, priceType}]
	if !ok {
		return model.TicketPrice{}, repository.ErrPriceNotFound
	}
	return p, nil
}

func (f *fakeStore) CreatePerformance(_ context.Context, p *model.Performance) error {
	if err := f.fail["CreatePerformance"]; err != nil {
		return err
	}
	p.ID = f.id()
	stored := *p
	stored.ActName = ""
	f.perfs = append(f.perfs, stored)
	return nil
}

func (f *fakeStore) ListPerformances(_ context.Context, gigID uint64) ([]model.Performance, error) {
	if err := f.fail["ListPerformances"]; err != nil {
		return nil, err
	}
	out := []model.Performance{}
	for _, p := range f.perfs {
		if p.GigID == gigID {
			p.ActName = f.acts[p.ActID].Name
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	if hook := f.afterList; hook != nil {
		f.afterList = nil
		hook()
	}
	return out, nil
}

func (f *fakeStore) DeletePerformances(_ context.Context, gigID, actID uint64) (int64, error) {
	if err := f.fail["DeletePerformances"]; err != nil {
		return 0, err
	}
	before := len(f.perfs)
	f.perfs = slices.DeleteFunc(f.perfs, func(p model.Performance) bool {
		return p.GigID == gigID && p.ActID == actID
	})
	return int64(before - len(f.perfs)), nil
}

func (f *fakeStore) UpdatePerformanceStart(_ context.Context, id uint64, start time.Time) error {
	if err := f.fail["UpdatePerformanceStart"]; err != nil {
		return err
	}
	for i := range f.perfs {
		if f.perfs[i].ID == id {
			f.perfs[i].Start = start
		}
	}
	return nil
}

func (f *fakeStore) CreateTicket(_ context.Context, t *model.Ticket) error {
	if err := f.fail["CreateTicket"]; err != nil {
		return err
	}
	t.ID = f.id()
	f.tickets = append(f.tickets, *t)
	return nil
}

func (f *fakeStore) CountTickets(_ context.Context, gigID uint64) (int, error) {
	n := 0
	for _, t := range f.tickets {
		if t.GigID == gigID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ZeroTicketCosts(_ context.Context, gigID uint64) (int64, error) {
	if err := f.fail["ZeroTicketCosts"]; err != nil {
		return 0, err
	}
	var n int64
	for i := range f.tickets {
		if f.tickets[i].GigID == gigID {
			f.tickets[i].Cost = 0
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListTicketHolders(_ context.Context, gigID uint64) ([]model.Customer, error) {
	seen := map[model.Customer]bool{}
	out := []model.Customer{}
	for _, t := range f.tickets {
		c := model.Customer{Name: t.CustomerName, Email: t.CustomerEmail}
		if t.GigID == gigID && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

// seedGig stores a scheduled gig with the given lineup and an adult
// price of 40, bypassing validation.
func (f *fakeStore) seedGig(start time.Time, lineup ...model.Performance) model.Gig {
	g := model.Gig{ID: f.id(), VenueID: 1, Title: "Seeded", Start: start, Status: model.GigScheduled}
	f.gigs[g.ID] = g
	for _, p := range lineup {
		p.ID = f.id()
		p.GigID = g.ID
		f.perfs = append(f.perfs, p)
	}
	f.prices[priceKey{g.ID, model.PriceTypeAdult}] = model.TicketPrice{GigID: g.ID, PriceType: model.PriceTypeAdult, Price: 40}
	return g
}

func (f *fakeStore) seedTicket(gigID uint64, name, email string) {
	f.tickets = append(f.tickets, model.Ticket{
		ID: f.id(), GigID: gigID, CustomerName: name, CustomerEmail: email, PriceType: model.PriceTypeAdult, Cost: 40,
	})
}

type cacheKey struct {
	gigID, version uint64
}

// fakeCache versions entries the way the Redis cache does: Invalidate
// bumps the gig's version and Set writes under the version it is given.
type fakeCache struct {
	entries     map[cacheKey][]model.ScheduleEntry
	versions    map[uint64]uint64
	invalidated []uint64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[cacheKey][]model.ScheduleEntry{}, versions: map[uint64]uint64{}}
}

func (c *fakeCache) Get(_ context.Context, gigID uint64) ([]model.ScheduleEntry, uint64, bool) {
	v := c.versions[gigID]
	e, ok := c.entries[cacheKey{gigID, v}]
	return e, v, ok
}

func (c *fakeCache) Set(_ context.Context, gigID, version uint64, entries []model.ScheduleEntry) {
	c.entries[cacheKey{gigID, version}] = entries
}

func (c *fakeCache) Invalidate(_ context.Context, gigID uint64) {
	delete(c.entries, cacheKey{gigID, c.versions[gigID]})
	c.versions[gigID]++
	c.invalidated = append(c.invalidated, gigID)
}

func (c *fakeCache) cached(gigID uint64) bool {
	_, ok := c.entries[cacheKey{gigID, c.versions[gigID]}]
	return ok
}

type fakePublisher struct {
	cancelled []queue.GigCancelledEvent
	removed   []queue.ActRemovedEvent
	err       error
}

func (p *fakePublisher) PublishGigCancelled(_ context.Context, ev queue.GigCancelledEvent) error {
	p.cancelled = append(p.cancelled, ev)
	return p.err
}

func (p *fakePublisher) PublishActRemoved(_ context.Context, ev queue.ActRemovedEvent) error {
	p.removed = append(p.removed, ev)
	return p.err
}

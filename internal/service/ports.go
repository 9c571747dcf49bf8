package service

import (
	"context"
	"time"

	"github.com/iliyamo/gig-scheduler/internal/model"
	"github.com/iliyamo/gig-scheduler/internal/queue"
)

// Transactor runs fn in one transaction carried by the context.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// GigStore is the persistence GigService needs.
type GigStore interface {
	Transactor
	FindVenueByName(ctx context.Context, name string) (model.Venue, error)
	GetAct(ctx context.Context, id uint64) (model.Act, error)
	CreateGig(ctx context.Context, g *model.Gig) error
	GetGig(ctx context.Context, id uint64) (model.Gig, error)
	CreatePerformance(ctx context.Context, p *model.Performance) error
	ListPerformances(ctx context.Context, gigID uint64) ([]model.Performance, error)
	CreateTicketPrice(ctx context.Context, p model.TicketPrice) error
}

// CancellationStore is the persistence CancellationService needs.
type CancellationStore interface {
	Transactor
	GetGigForUpdate(ctx context.Context, id uint64) (model.Gig, error)
	FindActByName(ctx context.Context, name string) (model.Act, error)
	ListPerformances(ctx context.Context, gigID uint64) ([]model.Performance, error)
	DeletePerformances(ctx context.Context, gigID, actID uint64) (int64, error)
	UpdatePerformanceStart(ctx context.Context, id uint64, start time.Time) error
	MarkGigCancelled(ctx context.Context, id uint64) error
	ZeroTicketCosts(ctx context.Context, gigID uint64) (int64, error)
	ListTicketHolders(ctx context.Context, gigID uint64) ([]model.Customer, error)
}

// TicketStore is the persistence TicketService needs.
type TicketStore interface {
	Transactor
	GetGigForUpdate(ctx context.Context, id uint64) (model.Gig, error)
	GetVenue(ctx context.Context, id uint64) (model.Venue, error)
	GetTicketPrice(ctx context.Context, gigID uint64, priceType string) (model.TicketPrice, error)
	CountTickets(ctx context.Context, gigID uint64) (int, error)
	CreateTicket(ctx context.Context, t *model.Ticket) error
}

// ScheduleCache caches the schedule view per gig.  Every gig has a
// version that Invalidate bumps.  Get reports the version it looked
// under, and Set stores under the version it is given, so a read that
// raced a mutation can never repopulate the new version with the old
// lineup.  Implementations swallow their own errors.
type ScheduleCache interface {
	Get(ctx context.Context, gigID uint64) (entries []model.ScheduleEntry, version uint64, ok bool)
	Set(ctx context.Context, gigID, version uint64, entries []model.ScheduleEntry)
	Invalidate(ctx context.Context, gigID uint64)
}

// EventPublisher announces committed lineup changes.
type EventPublisher interface {
	PublishGigCancelled(ctx context.Context, ev queue.GigCancelledEvent) error
	PublishActRemoved(ctx context.Context, ev queue.ActRemovedEvent) error
}

type noCache struct{}

func (noCache) Get(context.Context, uint64) ([]model.ScheduleEntry, uint64, bool) {
	return nil, 0, false
}
func (noCache) Set(context.Context, uint64, uint64, []model.ScheduleEntry) {}
func (noCache) Invalidate(context.Context, uint64)                         {}

type noPublisher struct{}

func (noPublisher) PublishGigCancelled(context.Context, queue.GigCancelledEvent) error { return nil }
func (noPublisher) PublishActRemoved(context.Context, queue.ActRemovedEvent) error     { return nil }

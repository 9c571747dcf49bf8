package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/gig-scheduler/internal/model"
	"github.com/iliyamo/gig-scheduler/internal/repository"
	"github.com/iliyamo/gig-scheduler/internal/schedule"
)

// TicketService sells tickets for scheduled gigs.
type TicketService struct {
	store TicketStore
	log   *zap.Logger
}

// NewTicketService wires a TicketService.
func NewTicketService(store TicketStore, log *zap.Logger) *TicketService {
	return &TicketService{store: store, log: log.Named("tickets")}
}

// BuyTicketInput is one ticket purchase.  PriceType defaults to adult.
type BuyTicketInput struct {
	GigID     uint64
	Name      string
	Email     string
	PriceType string
}

// BuyTicket sells one ticket at the gig's current price for the price
// type.  The gig must be scheduled and below venue capacity.
func (s *TicketService) BuyTicket(ctx context.Context, in BuyTicketInput) (model.Ticket, error) {
	const op = "buy ticket"
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.PriceType == "" {
		in.PriceType = model.PriceTypeAdult
	}
	switch {
	case in.GigID == 0:
		return model.Ticket{}, invalidInput(op, "gig id is required")
	case in.Name == "":
		return model.Ticket{}, invalidInput(op, "customer name is required")
	case in.Email == "":
		return model.Ticket{}, invalidInput(op, "customer email is required")
	}

	var ticket model.Ticket
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		gig, err := s.store.GetGigForUpdate(ctx, in.GigID)
		if err != nil {
			if errors.Is(err, repository.ErrGigNotFound) {
				return notFound(op, err)
			}
			return persistenceFailure(s.log, op, "get gig", in.GigID, err)
		}
		if !gig.Active() {
			return alreadyTerminal(op, gig.ID)
		}

		price, err := s.store.GetTicketPrice(ctx, gig.ID, in.PriceType)
		if err != nil {
			if errors.Is(err, repository.ErrPriceNotFound) {
				return notFound(op, err)
			}
			return persistenceFailure(s.log, op, "get ticket price", gig.ID, err)
		}

		venue, err := s.store.GetVenue(ctx, gig.VenueID)
		if err != nil {
			return persistenceFailure(s.log, op, "get venue", gig.ID, err)
		}
		sold, err := s.store.CountTickets(ctx, gig.ID)
		if err != nil {
			return persistenceFailure(s.log, op, "count tickets", gig.ID, err)
		}
		if sold >= venue.Capacity {
			return validationFailed(op, &schedule.Violation{
				Rule:   schedule.RuleCapacity,
				Detail: "venue " + venue.Name + " is sold out",
			})
		}

		ticket = model.Ticket{
			GigID:         gig.ID,
			CustomerName:  in.Name,
			CustomerEmail: in.Email,
			PriceType:     price.PriceType,
			Cost:          price.Price,
		}
		if err := s.store.CreateTicket(ctx, &ticket); err != nil {
			return persistenceFailure(s.log, op, "insert ticket", gig.ID, err)
		}
		return nil
	})
	if err != nil {
		return model.Ticket{}, finish(s.log, op, in.GigID, err)
	}
	s.log.Debug("ticket sold", zap.Uint64("gig_id", ticket.GigID), zap.Uint64("ticket_id", ticket.ID))
	return ticket, nil
}

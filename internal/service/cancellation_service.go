package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/gig-scheduler/internal/clock"
	"github.com/iliyamo/gig-scheduler/internal/model"
	"github.com/iliyamo/gig-scheduler/internal/queue"
	"github.com/iliyamo/gig-scheduler/internal/repository"
	"github.com/iliyamo/gig-scheduler/internal/schedule"
)

// OutcomeKind tells which way a cancellation went.
type OutcomeKind string

const (
	OutcomeGigCancelled OutcomeKind = "gig_cancelled"
	OutcomeActRemoved   OutcomeKind = "act_removed"
)

// ReasonHeadline is the CancelOutcome.Reason when the act was headlining.
const ReasonHeadline = "headline"

// CancelOutcome is the result of CancelAct.  AffectedCustomers is set
// when the whole gig was cancelled; RemainingLineup when only the act
// was removed.
type CancelOutcome struct {
	Kind    OutcomeKind
	GigID   uint64
	ActName string
	// Reason is "headline" or the rule the shortened lineup would break.
	// Empty for OutcomeActRemoved.
	Reason            string
	RemovedMinutes    int
	AffectedCustomers []model.Customer
	RemainingLineup   []model.ScheduleEntry
}

// CancellationService removes acts from gigs, cancelling the gig when
// the act headlines or the remaining lineup would break the rules.
type CancellationService struct {
	store     CancellationStore
	validator *schedule.Validator
	cache     ScheduleCache
	events    EventPublisher
	clock     clock.Clock
	log       *zap.Logger
}

// NewCancellationService wires a CancellationService.  cache and events
// may be nil.
func NewCancellationService(store CancellationStore, validator *schedule.Validator, cache ScheduleCache,
	events EventPublisher, clk clock.Clock, log *zap.Logger) *CancellationService {
	if cache == nil {
		cache = noCache{}
	}
	if events == nil {
		events = noPublisher{}
	}
	return &CancellationService{
		store:     store,
		validator: validator,
		cache:     cache,
		events:    events,
		clock:     clk,
		log:       log.Named("cancellations"),
	}
}

// CancelAct removes every performance of the named act from the gig.
//
// If the act is the headline, or the shortened lineup would break the
// gap or duration rules, the whole gig is cancelled instead: its status
// becomes C, every ticket cost becomes 0 and the distinct ticket holders
// are returned.  Otherwise the act's slots are deleted, every slot that
// started after the act's last slot moves earlier by the act's total
// playing time, and the new lineup is returned.
//
// All changes happen in one transaction.  The schedule cache and the
// event queue are updated only after commit.
func (s *CancellationService) CancelAct(ctx context.Context, gigID uint64, actName string) (CancelOutcome, error) {
	const op = "cancel act"
	if gigID == 0 {
		return CancelOutcome{}, invalidInput(op, "gig id is required")
	}
	if strings.TrimSpace(actName) == "" {
		return CancelOutcome{}, invalidInput(op, "act name is required")
	}

	var out CancelOutcome
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		gig, err := s.store.GetGigForUpdate(ctx, gigID)
		if err != nil {
			if errors.Is(err, repository.ErrGigNotFound) {
				return notFound(op, err)
			}
			return persistenceFailure(s.log, op, "get gig", gigID, err)
		}
		if !gig.Active() {
			return alreadyTerminal(op, gigID)
		}

		act, err := s.store.FindActByName(ctx, actName)
		if err != nil {
			if errors.Is(err, repository.ErrActNotFound) {
				return notFound(op, err)
			}
			return persistenceFailure(s.log, op, "find act", gigID, err)
		}

		lineup, err := s.store.ListPerformances(ctx, gigID)
		if err != nil {
			return persistenceFailure(s.log, op, "list performances", gigID, err)
		}
		plan := schedule.PlanRemoval(lineup, act.ID)
		if len(plan.Removed) == 0 {
			return notFound(op, fmt.Errorf("act %q does not perform in gig %d", act.Name, gigID))
		}

		out = CancelOutcome{GigID: gigID, ActName: act.Name, RemovedMinutes: plan.TotalMinutes}
		if schedule.IsHeadline(lineup, act.ID) {
			out.Reason = ReasonHeadline
		} else if viol, ok := ViolationOf(s.validator.ValidateRemoval(gig.Start, plan)); ok {
			out.Reason = string(viol.Rule)
		}

		if out.Reason != "" {
			return s.cancelGig(ctx, op, &out)
		}
		return s.removeAct(ctx, op, lineup, plan, &out)
	})
	if err != nil {
		return CancelOutcome{}, finish(s.log, op, gigID, err)
	}

	s.afterCommit(ctx, out)
	return out, nil
}

func (s *CancellationService) cancelGig(ctx context.Context, op string, out *CancelOutcome) error {
	gigID := out.GigID
	if err := s.store.MarkGigCancelled(ctx, gigID); err != nil {
		return persistenceFailure(s.log, op, "mark gig cancelled", gigID, err)
	}
	if _, err := s.store.ZeroTicketCosts(ctx, gigID); err != nil {
		return persistenceFailure(s.log, op, "zero ticket costs", gigID, err)
	}
	holders, err := s.store.ListTicketHolders(ctx, gigID)
	if err != nil {
		return persistenceFailure(s.log, op, "list ticket holders", gigID, err)
	}
	out.Kind = OutcomeGigCancelled
	out.AffectedCustomers = holders
	return nil
}

func (s *CancellationService) removeAct(ctx context.Context, op string, lineup []model.Performance,
	plan schedule.Removal, out *CancelOutcome) error {
	gigID := out.GigID
	if _, err := s.store.DeletePerformances(ctx, gigID, plan.ActID); err != nil {
		return persistenceFailure(s.log, op, "delete performances", gigID, err)
	}

	before := make(map[uint64]model.Performance, len(lineup))
	for _, p := range lineup {
		before[p.ID] = p
	}
	for _, p := range plan.Remaining {
		if p.Start.Equal(before[p.ID].Start) {
			continue
		}
		if err := s.store.UpdatePerformanceStart(ctx, p.ID, p.Start); err != nil {
			return persistenceFailure(s.log, op, "shift performance", gigID, err)
		}
	}
	out.Kind = OutcomeActRemoved
	out.RemainingLineup = scheduleEntries(plan.Remaining)
	return nil
}

// afterCommit refreshes the cache and announces the change.  Failures
// are logged; the committed change stands.
func (s *CancellationService) afterCommit(ctx context.Context, out CancelOutcome) {
	s.cache.Invalidate(ctx, out.GigID)

	fields := []zap.Field{
		zap.Uint64("gig_id", out.GigID),
		zap.String("act", out.ActName),
		zap.String("outcome", string(out.Kind)),
	}
	var err error
	switch out.Kind {
	case OutcomeGigCancelled:
		s.log.Info("gig cancelled", append(fields,
			zap.String("reason", out.Reason), zap.Int("customers", len(out.AffectedCustomers)))...)
		err = s.events.PublishGigCancelled(ctx,
			queue.NewGigCancelledEvent(out.GigID, out.ActName, out.Reason, out.AffectedCustomers, s.clock.Now()))
	case OutcomeActRemoved:
		s.log.Info("act removed", append(fields, zap.Int("removed_minutes", out.RemovedMinutes))...)
		err = s.events.PublishActRemoved(ctx,
			queue.NewActRemovedEvent(out.GigID, out.ActName, out.RemovedMinutes, out.RemainingLineup, s.clock.Now()))
	}
	if err != nil {
		s.log.Warn("event not published", append(fields, zap.Error(err))...)
	}
}

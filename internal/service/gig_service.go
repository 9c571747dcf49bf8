package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/gig-scheduler/internal/model"
	"github.com/iliyamo/gig-scheduler/internal/repository"
	"github.com/iliyamo/gig-scheduler/internal/schedule"
)

// GigService creates gigs and serves their schedule.
type GigService struct {
	store     GigStore
	validator *schedule.Validator
	cache     ScheduleCache
	log       *zap.Logger
}

// NewGigService wires a GigService.  cache may be nil.
func NewGigService(store GigStore, validator *schedule.Validator, cache ScheduleCache, log *zap.Logger) *GigService {
	if cache == nil {
		cache = noCache{}
	}
	return &GigService{store: store, validator: validator, cache: cache, log: log.Named("gigs")}
}

// PerformanceInput is one requested slot of a new gig.
type PerformanceInput struct {
	ActID    uint64
	Fee      int
	Start    time.Time
	Duration int // minutes
}

// CreateGigInput describes a gig to create.  Venue is matched by exact
// name.  AdultPrice becomes the gig's price for type "A".
type CreateGigInput struct {
	Venue        string
	Title        string
	Start        time.Time
	AdultPrice   int
	Performances []PerformanceInput
}

// CreateGig validates the lineup and stores the gig, its performances
// and its adult price in one transaction.  Nothing is written unless
// every rule holds.
func (s *GigService) CreateGig(ctx context.Context, in CreateGigInput) (model.Gig, error) {
	const op = "create gig"
	if err := checkCreateInput(op, in); err != nil {
		return model.Gig{}, err
	}
	start := model.WallClock(in.Start)

	var gig model.Gig
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		venue, err := s.findVenue(ctx, op, in.Venue)
		if err != nil {
			return err
		}
		// the start hour is judged before any act is looked up
		if err := s.validator.CheckStartWindow(start); err != nil {
			return validationFailed(op, err)
		}
		lineup, genres, err := s.resolveActs(ctx, op, in.Performances)
		if err != nil {
			return err
		}
		if err := s.validator.Validate(start, lineup, genres); err != nil {
			return validationFailed(op, err)
		}

		gig = model.Gig{VenueID: venue.ID, Title: in.Title, Start: start}
		if err := s.store.CreateGig(ctx, &gig); err != nil {
			return persistenceFailure(s.log, op, "insert gig", 0, err)
		}
		for i := range lineup {
			lineup[i].GigID = gig.ID
			if err := s.store.CreatePerformance(ctx, &lineup[i]); err != nil {
				return persistenceFailure(s.log, op, "insert performance", gig.ID, err)
			}
		}
		price := model.TicketPrice{GigID: gig.ID, PriceType: model.PriceTypeAdult, Price: in.AdultPrice}
		if err := s.store.CreateTicketPrice(ctx, price); err != nil {
			return persistenceFailure(s.log, op, "insert ticket price", gig.ID, err)
		}
		return nil
	})
	if err != nil {
		return model.Gig{}, finish(s.log, op, gig.ID, err)
	}

	s.log.Info("gig created",
		zap.Uint64("gig_id", gig.ID), zap.String("title", gig.Title), zap.Int("performances", len(in.Performances)))
	return gig, nil
}

// ValidateLineup runs every lineup rule against a proposed gig without
// writing anything and returns all broken rules.  Unknown venue or act
// and malformed input are still reported as errors.
func (s *GigService) ValidateLineup(ctx context.Context, in CreateGigInput) ([]*schedule.Violation, error) {
	const op = "validate lineup"
	if err := checkCreateInput(op, in); err != nil {
		return nil, err
	}
	if _, err := s.findVenue(ctx, op, in.Venue); err != nil {
		return nil, finish(s.log, op, 0, err)
	}
	lineup, genres, err := s.resolveActs(ctx, op, in.Performances)
	if err != nil {
		return nil, finish(s.log, op, 0, err)
	}
	return s.validator.ValidateAll(model.WallClock(in.Start), lineup, genres), nil
}

func (s *GigService) findVenue(ctx context.Context, op, name string) (model.Venue, error) {
	venue, err := s.store.FindVenueByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return model.Venue{}, notFound(op, err)
		}
		return model.Venue{}, persistenceFailure(s.log, op, "find venue", 0, err)
	}
	return venue, nil
}

// resolveActs looks up every act of perfs and returns the lineup sorted
// by start, with the genres of its acts.
func (s *GigService) resolveActs(ctx context.Context, op string, perfs []PerformanceInput) ([]model.Performance, []string, error) {
	lineup := make([]model.Performance, 0, len(perfs))
	for _, p := range perfs {
		lineup = append(lineup, model.Performance{
			ActID:    p.ActID,
			Fee:      p.Fee,
			Start:    model.WallClock(p.Start),
			Duration: p.Duration,
		})
	}
	lineup = schedule.Sorted(lineup)

	var genres []string
	seen := make(map[uint64]bool, len(lineup))
	for i := range lineup {
		id := lineup[i].ActID
		act, err := s.store.GetAct(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrActNotFound) {
				return nil, nil, notFound(op, err)
			}
			return nil, nil, persistenceFailure(s.log, op, "get act", 0, err)
		}
		lineup[i].ActName = act.Name
		if !seen[id] {
			seen[id] = true
			genres = append(genres, act.Genre)
		}
	}
	return lineup, genres, nil
}

// maxSlotMinutes caps a single slot at 25 hours, the latest curfew
// offset; no valid lineup holds a longer slot.
const maxSlotMinutes = 25 * 60

func checkCreateInput(op string, in CreateGigInput) error {
	switch {
	case strings.TrimSpace(in.Venue) == "":
		return invalidInput(op, "venue is required")
	case strings.TrimSpace(in.Title) == "":
		return invalidInput(op, "title is required")
	case in.Start.IsZero():
		return invalidInput(op, "start is required")
	case in.AdultPrice < 0:
		return invalidInput(op, "adult price must not be negative")
	case len(in.Performances) == 0:
		return invalidInput(op, "at least one performance is required")
	}
	for i, p := range in.Performances {
		switch {
		case p.ActID == 0:
			return invalidInput(op, "performance %d: act id is required", i)
		case p.Fee < 0:
			return invalidInput(op, "performance %d: fee must not be negative", i)
		case p.Duration <= 0:
			return invalidInput(op, "performance %d: duration must be positive", i)
		case p.Duration > maxSlotMinutes:
			return invalidInput(op, "performance %d: duration exceeds %d minutes", i, maxSlotMinutes)
		case p.Start.IsZero():
			return invalidInput(op, "performance %d: start is required", i)
		}
	}
	return nil
}

// GetSchedule returns the lineup of a gig as act name with start and
// end clock times, earliest first.
func (s *GigService) GetSchedule(ctx context.Context, gigID uint64) ([]model.ScheduleEntry, error) {
	const op = "get schedule"
	entries, version, ok := s.cache.Get(ctx, gigID)
	if ok {
		return entries, nil
	}

	if _, err := s.store.GetGig(ctx, gigID); err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, notFound(op, err)
		}
		return nil, persistenceFailure(s.log, op, "get gig", gigID, err)
	}
	lineup, err := s.store.ListPerformances(ctx, gigID)
	if err != nil {
		return nil, persistenceFailure(s.log, op, "list performances", gigID, err)
	}

	entries = scheduleEntries(lineup)
	s.cache.Set(ctx, gigID, version, entries)
	return entries, nil
}

func scheduleEntries(lineup []model.Performance) []model.ScheduleEntry {
	sorted := schedule.Sorted(lineup)
	out := make([]model.ScheduleEntry, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, model.NewScheduleEntry(p))
	}
	return out
}

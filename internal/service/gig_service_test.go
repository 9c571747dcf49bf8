package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/gig-scheduler/internal/clock"
	"github.com/iliyamo/gig-scheduler/internal/model"
	"github.com/iliyamo/gig-scheduler/internal/schedule"
)

var gigDay = time.Date(2021, time.November, 2, 0, 0, 0, 0, time.UTC)

func at(hh, mm int) time.Time {
	return gigDay.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

func newGigService(store *fakeStore, cache ScheduleCache) *GigService {
	return NewGigService(store, schedule.NewValidator(schedule.DefaultRules()), cache, zap.NewNop())
}

// validInput is the three act lineup 18:00-18:50, 19:00-20:10, 20:25-21:25.
func validInput() CreateGigInput {
	return CreateGigInput{
		Venue:      "Arts Centre Theatre",
		Title:      "Scalar Night",
		Start:      at(18, 0),
		AdultPrice: 40,
		Performances: []PerformanceInput{
			{ActID: 3, Fee: 300, Start: at(20, 25), Duration: 60},
			{ActID: 1, Fee: 100, Start: at(18, 0), Duration: 50},
			{ActID: 2, Fee: 200, Start: at(19, 0), Duration: 70},
		},
	}
}

func ruleOf(t *testing.T, err error) schedule.Rule {
	t.Helper()
	viol, ok := ViolationOf(err)
	require.True(t, ok, "expected a rule violation, got %v", err)
	return viol.Rule
}

func TestGigService_CreateGig(t *testing.T) {
	t.Parallel()

	t.Run("stores a valid lineup", func(t *testing.T) {
		store := newFakeStore()
		svc := newGigService(store, nil)

		gig, err := svc.CreateGig(context.Background(), validInput())
		require.NoError(t, err)
		assert.NotZero(t, gig.ID)
		assert.Equal(t, model.GigScheduled, gig.Status)
		assert.Equal(t, uint64(1), gig.VenueID)

		lineup, err := store.ListPerformances(context.Background(), gig.ID)
		require.NoError(t, err)
		require.Len(t, lineup, 3)
		assert.Equal(t, "QLS", lineup[0].ActName)
		assert.Equal(t, at(19, 0), lineup[1].Start)

		price, err := store.GetTicketPrice(context.Background(), gig.ID, model.PriceTypeAdult)
		require.NoError(t, err)
		assert.Equal(t, 40, price.Price)
	})

	t.Run("keeps the declared wall clock", func(t *testing.T) {
		store := newFakeStore()
		svc := newGigService(store, nil)
		zone := time.FixedZone("UTC+3", 3*60*60)

		in := validInput()
		in.Start = time.Date(2021, time.November, 2, 18, 0, 0, 0, zone)
		for i := range in.Performances {
			p := in.Performances[i].Start
			in.Performances[i].Start = time.Date(p.Year(), p.Month(), p.Day(), p.Hour(), p.Minute(), 0, 0, zone)
		}

		gig, err := svc.CreateGig(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, at(18, 0), gig.Start)
		assert.Equal(t, time.UTC, gig.Start.Location())
	})

	t.Run("rejected lineups write nothing", func(t *testing.T) {
		tests := []struct {
			name     string
			mutate   func(*CreateGigInput)
			wantKind Kind
			wantRule schedule.Rule
		}{
			{
				name:     "first act after gig start",
				mutate:   func(in *CreateGigInput) { in.Performances[1].Start = at(18, 5) },
				wantKind: KindValidation,
				wantRule: schedule.RuleFirstAct,
			},
			{
				name: "same act at two fees",
				mutate: func(in *CreateGigInput) {
					in.Performances = append(in.Performances, PerformanceInput{ActID: 1, Fee: 150, Start: at(21, 35), Duration: 20})
				},
				wantKind: KindValidation,
				wantRule: schedule.RuleFeeConsistency,
			},
			{
				name:     "gap too long",
				mutate:   func(in *CreateGigInput) { in.Performances[0].Start = at(20, 45) },
				wantKind: KindValidation,
				wantRule: schedule.RuleIntervalGap,
			},
			{
				name:     "start before nine",
				mutate:   func(in *CreateGigInput) { in.Start = at(8, 0) },
				wantKind: KindValidation,
				wantRule: schedule.RuleStartWindow,
			},
			{
				name: "rock act past eleven",
				mutate: func(in *CreateGigInput) {
					in.Start = at(21, 0)
					in.Performances = []PerformanceInput{
						{ActID: 4, Fee: 400, Start: at(21, 0), Duration: 60},
						{ActID: 1, Fee: 100, Start: at(22, 10), Duration: 60},
					}
				},
				wantKind: KindValidation,
				wantRule: schedule.RuleFinishTime,
			},
			{
				name: "start hour judged before unknown act",
				mutate: func(in *CreateGigInput) {
					in.Start = at(8, 0)
					in.Performances[2].ActID = 99
				},
				wantKind: KindValidation,
				wantRule: schedule.RuleStartWindow,
			},
			{
				name:     "slot longer than a day",
				mutate:   func(in *CreateGigInput) { in.Performances[0].Duration = maxSlotMinutes + 1 },
				wantKind: KindInvalidInput,
			},
			{
				name:     "unknown venue",
				mutate:   func(in *CreateGigInput) { in.Venue = "Nowhere" },
				wantKind: KindNotFound,
			},
			{
				name:     "unknown act",
				mutate:   func(in *CreateGigInput) { in.Performances[2].ActID = 99 },
				wantKind: KindNotFound,
			},
			{
				name:     "empty title",
				mutate:   func(in *CreateGigInput) { in.Title = " " },
				wantKind: KindInvalidInput,
			},
			{
				name:     "empty lineup",
				mutate:   func(in *CreateGigInput) { in.Performances = nil },
				wantKind: KindInvalidInput,
			},
			{
				name:     "negative price",
				mutate:   func(in *CreateGigInput) { in.AdultPrice = -1 },
				wantKind: KindInvalidInput,
			},
			{
				name:     "zero duration",
				mutate:   func(in *CreateGigInput) { in.Performances[0].Duration = 0 },
				wantKind: KindInvalidInput,
			},
			{
				name:     "negative fee",
				mutate:   func(in *CreateGigInput) { in.Performances[0].Fee = -5 },
				wantKind: KindInvalidInput,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := newFakeStore()
				svc := newGigService(store, nil)
				in := validInput()
				tt.mutate(&in)

				_, err := svc.CreateGig(context.Background(), in)
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				if tt.wantRule != "" {
					assert.Equal(t, tt.wantRule, ruleOf(t, err))
				}
				assert.Empty(t, store.gigs)
				assert.Empty(t, store.perfs)
				assert.Empty(t, store.prices)
			})
		}
	})

	t.Run("storage failure rolls back", func(t *testing.T) {
		for _, step := range []string{"CreatePerformance", "CreateTicketPrice", "commit"} {
			t.Run(step, func(t *testing.T) {
				store := newFakeStore()
				store.fail[step] = errors.New("disk on fire")
				svc := newGigService(store, nil)

				_, err := svc.CreateGig(context.Background(), validInput())
				require.Error(t, err)
				assert.Equal(t, KindPersistence, KindOf(err))
				assert.Empty(t, store.gigs)
				assert.Empty(t, store.perfs)
				assert.Empty(t, store.prices)
			})
		}
	})
}

func TestGigService_ValidateLineup(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := newGigService(store, nil)

	in := validInput()
	in.Performances[1].Start = at(18, 5)
	in.Performances = append(in.Performances, PerformanceInput{ActID: 1, Fee: 150, Start: at(21, 35), Duration: 20})

	violations, err := svc.ValidateLineup(context.Background(), in)
	require.NoError(t, err)
	rules := make([]schedule.Rule, 0, len(violations))
	for _, v := range violations {
		rules = append(rules, v.Rule)
	}
	assert.Contains(t, rules, schedule.RuleFirstAct)
	assert.Contains(t, rules, schedule.RuleFeeConsistency)
	assert.Empty(t, store.gigs)

	violations, err = svc.ValidateLineup(context.Background(), validInput())
	require.NoError(t, err)
	assert.Empty(t, violations)

	bad := validInput()
	bad.Venue = "Nowhere"
	_, err = svc.ValidateLineup(context.Background(), bad)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGigService_GetSchedule(t *testing.T) {
	t.Parallel()

	t.Run("formats and orders the lineup", func(t *testing.T) {
		store := newFakeStore()
		gig := store.seedGig(at(18, 0),
			model.Performance{ActID: 3, Fee: 1, Start: at(20, 25), Duration: 60},
			model.Performance{ActID: 1, Fee: 1, Start: at(18, 0), Duration: 50},
			model.Performance{ActID: 2, Fee: 1, Start: at(19, 0), Duration: 70},
		)
		svc := newGigService(store, nil)

		got, err := svc.GetSchedule(context.Background(), gig.ID)
		require.NoError(t, err)
		assert.Equal(t, []model.ScheduleEntry{
			{ActName: "QLS", Start: "18:00", End: "18:50"},
			{ActName: "ViewBee 40", Start: "19:00", End: "20:10"},
			{ActName: "The Where", Start: "20:25", End: "21:25"},
		}, got)

		again, err := svc.GetSchedule(context.Background(), gig.ID)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})

	t.Run("pads early hours and crosses midnight", func(t *testing.T) {
		store := newFakeStore()
		gig := store.seedGig(at(23, 30), model.Performance{ActID: 1, Fee: 1, Start: at(23, 30), Duration: 95})
		svc := newGigService(store, nil)

		got, err := svc.GetSchedule(context.Background(), gig.ID)
		require.NoError(t, err)
		assert.Equal(t, []model.ScheduleEntry{{ActName: "QLS", Start: "23:30", End: "01:05"}}, got)
	})

	t.Run("unknown gig", func(t *testing.T) {
		svc := newGigService(newFakeStore(), nil)
		_, err := svc.GetSchedule(context.Background(), 404)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		store := newFakeStore()
		gig := store.seedGig(at(18, 0), model.Performance{ActID: 1, Fee: 1, Start: at(18, 0), Duration: 60})
		store.fail["ListPerformances"] = errors.New("connection reset")
		svc := newGigService(store, nil)

		_, err := svc.GetSchedule(context.Background(), gig.ID)
		assert.Equal(t, KindPersistence, KindOf(err))
	})

	t.Run("served from cache after first read", func(t *testing.T) {
		store := newFakeStore()
		gig := store.seedGig(at(18, 0), model.Performance{ActID: 1, Fee: 1, Start: at(18, 0), Duration: 60})
		cache := newFakeCache()
		svc := newGigService(store, cache)

		first, err := svc.GetSchedule(context.Background(), gig.ID)
		require.NoError(t, err)
		require.True(t, cache.cached(gig.ID))

		store.fail["GetGig"] = errors.New("should not be called")
		second, err := svc.GetSchedule(context.Background(), gig.ID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("cancellation during a read is not masked by the cache", func(t *testing.T) {
		store := newFakeStore()
		gig := store.seedGig(at(18, 0),
			model.Performance{ActID: 1, Fee: 100, Start: at(18, 0), Duration: 50},
			model.Performance{ActID: 2, Fee: 200, Start: at(19, 0), Duration: 70},
			model.Performance{ActID: 3, Fee: 300, Start: at(20, 25), Duration: 60},
		)
		cache := newFakeCache()
		svc := newGigService(store, cache)
		cancels := NewCancellationService(store, schedule.NewValidator(schedule.DefaultRules()),
			cache, &fakePublisher{}, clock.NewFixed(now), zap.NewNop())

		store.afterList = func() {
			out, err := cancels.CancelAct(context.Background(), gig.ID, "ViewBee 40")
			require.NoError(t, err)
			require.Equal(t, OutcomeActRemoved, out.Kind)
		}
		during, err := svc.GetSchedule(context.Background(), gig.ID)
		require.NoError(t, err)
		assert.Len(t, during, 3)

		after, err := svc.GetSchedule(context.Background(), gig.ID)
		require.NoError(t, err)
		assert.Equal(t, []model.ScheduleEntry{
			{ActName: "QLS", Start: "18:00", End: "18:50"},
			{ActName: "The Where", Start: "19:15", End: "20:15"},
		}, after)
	})
}

package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gig-scheduler/internal/model"
)

var gigDay = time.Date(2021, time.November, 2, 0, 0, 0, 0, time.UTC)

// at returns gigDay at hh:mm; hours past 23 roll into the next day.
func at(hh, mm int) time.Time {
	return gigDay.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

func slot(actID uint64, start time.Time, minutes int) model.Performance {
	return model.Performance{ActID: actID, Fee: 1000, Start: start, Duration: minutes}
}

// threeActs is the lineup 18:00-18:50, 19:00-20:10, 20:25-21:25.
func threeActs() []model.Performance {
	return []model.Performance{
		slot(1, at(18, 0), 50),
		slot(2, at(19, 0), 70),
		slot(3, at(20, 25), 60),
	}
}

func ruleOf(t *testing.T, err error) Rule {
	t.Helper()
	var v *Violation
	require.True(t, errors.As(err, &v), "expected *Violation, got %v", err)
	return v.Rule
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()
	v := NewValidator(DefaultRules())

	tests := []struct {
		name     string
		gigStart time.Time
		lineup   []model.Performance
		genres   []string
		wantRule Rule
	}{
		{
			name:     "valid three act lineup",
			gigStart: at(18, 0),
			lineup:   threeActs(),
			genres:   []string{"Music"},
		},
		{
			name:     "unsorted input is sorted before checking",
			gigStart: at(18, 0),
			lineup:   []model.Performance{slot(3, at(20, 25), 60), slot(1, at(18, 0), 50), slot(2, at(19, 0), 70)},
		},
		{
			name:     "first act later than gig start",
			gigStart: at(18, 0),
			lineup:   []model.Performance{slot(1, at(18, 5), 50), slot(2, at(19, 5), 70)},
			wantRule: RuleFirstAct,
		},
		{
			name:     "gig starts before nine",
			gigStart: at(8, 30),
			lineup:   []model.Performance{slot(1, at(8, 30), 90)},
			wantRule: RuleStartWindow,
		},
		{
			name:     "shorter than an hour",
			gigStart: at(18, 0),
			lineup:   []model.Performance{slot(1, at(18, 0), 40)},
			wantRule: RuleMinDuration,
		},
		{
			name:     "exactly an hour",
			gigStart: at(18, 0),
			lineup:   []model.Performance{slot(1, at(18, 0), 20), slot(2, at(18, 30), 30)},
		},
		{
			name:     "rock gig past eleven",
			gigStart: at(21, 0),
			lineup:   []model.Performance{slot(1, at(21, 0), 60), slot(2, at(22, 10), 60)},
			genres:   []string{"jazz", "rock"},
			wantRule: RuleFinishTime,
		},
		{
			name:     "pop gig ending at eleven",
			gigStart: at(21, 0),
			lineup:   []model.Performance{slot(1, at(21, 0), 60), slot(2, at(22, 10), 50)},
			genres:   []string{"pop"},
		},
		{
			name:     "genre match is case sensitive",
			gigStart: at(21, 0),
			lineup:   []model.Performance{slot(1, at(21, 0), 60), slot(2, at(22, 10), 60)},
			genres:   []string{"Rock"},
		},
		{
			name:     "other genres may run to one am",
			gigStart: at(23, 0),
			lineup:   []model.Performance{slot(1, at(23, 0), 120)},
			genres:   []string{"jazz"},
		},
		{
			name:     "other genres past one am",
			gigStart: at(23, 0),
			lineup:   []model.Performance{slot(1, at(23, 0), 125)},
			genres:   []string{"jazz"},
			wantRule: RuleFinishTime,
		},
		{
			name:     "returning act at a different fee",
			gigStart: at(18, 0),
			lineup: []model.Performance{
				{ActID: 1, Fee: 100, Start: at(18, 0), Duration: 30},
				{ActID: 2, Fee: 500, Start: at(18, 40), Duration: 30},
				{ActID: 1, Fee: 150, Start: at(19, 20), Duration: 30},
			},
			wantRule: RuleFeeConsistency,
		},
		{
			name:     "returning act at the same fee",
			gigStart: at(18, 0),
			lineup: []model.Performance{
				{ActID: 1, Fee: 100, Start: at(18, 0), Duration: 30},
				{ActID: 2, Fee: 500, Start: at(18, 40), Duration: 30},
				{ActID: 1, Fee: 100, Start: at(19, 20), Duration: 30},
			},
		},
		{
			name:     "gap longer than thirty minutes",
			gigStart: at(20, 0),
			lineup:   []model.Performance{slot(3, at(20, 0), 30), slot(4, at(20, 40), 35), slot(6, at(21, 50), 20)},
			wantRule: RuleIntervalGap,
		},
		{
			name:     "gap shorter than ten minutes",
			gigStart: at(20, 0),
			lineup:   []model.Performance{slot(3, at(20, 0), 30), slot(4, at(20, 35), 40), slot(6, at(21, 20), 20)},
			wantRule: RuleIntervalGap,
		},
		{
			name:     "overlapping slots",
			gigStart: at(20, 0),
			lineup:   []model.Performance{slot(3, at(20, 0), 60), slot(4, at(20, 30), 60)},
			wantRule: RuleIntervalGap,
		},
		{
			name:     "gaps on both bounds",
			gigStart: at(20, 0),
			lineup:   []model.Performance{slot(3, at(20, 0), 30), slot(4, at(20, 40), 30), slot(6, at(21, 40), 20)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.gigStart, tt.lineup, tt.genres)
			if tt.wantRule == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantRule, ruleOf(t, err))
		})
	}
}

func TestValidator_ValidateAllReportsEveryRule(t *testing.T) {
	t.Parallel()
	v := NewValidator(DefaultRules())

	lineup := []model.Performance{
		{ActID: 1, Fee: 100, Start: at(18, 5), Duration: 10},
		{ActID: 1, Fee: 200, Start: at(18, 20), Duration: 10},
	}
	got := v.ValidateAll(at(18, 0), lineup, nil)

	rules := make([]Rule, 0, len(got))
	for _, viol := range got {
		rules = append(rules, viol.Rule)
	}
	assert.ElementsMatch(t, []Rule{RuleFirstAct, RuleMinDuration, RuleFeeConsistency, RuleIntervalGap}, rules)
}

func TestValidator_CheckStartWindow(t *testing.T) {
	t.Parallel()
	v := NewValidator(DefaultRules())

	assert.Error(t, v.CheckStartWindow(at(8, 59)))
	assert.NoError(t, v.CheckStartWindow(at(9, 0)))
	assert.NoError(t, v.CheckStartWindow(at(23, 59)))
	assert.Error(t, v.CheckStartWindow(at(24, 0)))
}

func TestValidator_EmptyLineup(t *testing.T) {
	t.Parallel()
	v := NewValidator(DefaultRules())

	err := v.Validate(at(18, 0), nil, nil)
	require.Error(t, err)
	assert.Equal(t, RuleEmptyLineup, ruleOf(t, err))
}

func TestIsHeadline(t *testing.T) {
	t.Parallel()

	lineup := threeActs()
	assert.True(t, IsHeadline(lineup, 3))
	assert.False(t, IsHeadline(lineup, 1))
	assert.False(t, IsHeadline(lineup, 2))
	assert.False(t, IsHeadline(lineup, 99), "absent act")
	assert.False(t, IsHeadline(nil, 1))

	t.Run("only act", func(t *testing.T) {
		solo := []model.Performance{slot(7, at(18, 0), 30), slot(7, at(18, 45), 30)}
		assert.True(t, IsHeadline(solo, 7))
	})

	t.Run("ties are shared", func(t *testing.T) {
		tied := []model.Performance{
			slot(1, at(18, 0), 60),
			slot(2, at(19, 10), 50),
			slot(3, at(19, 30), 30),
		}
		assert.True(t, IsHeadline(tied, 2))
		assert.True(t, IsHeadline(tied, 3))
		assert.False(t, IsHeadline(tied, 1))
	})

	t.Run("returning act closing the night", func(t *testing.T) {
		back := []model.Performance{
			slot(1, at(18, 0), 30),
			slot(2, at(18, 40), 30),
			slot(1, at(19, 20), 30),
		}
		assert.True(t, IsHeadline(back, 1))
		assert.False(t, IsHeadline(back, 2))
	})
}

func TestPlanRemoval_ShiftsOnlyLaterSlots(t *testing.T) {
	t.Parallel()

	lineup := []model.Performance{
		slot(1, at(18, 0), 30),
		slot(2, at(18, 40), 20),
		slot(3, at(19, 10), 40),
		slot(2, at(20, 0), 25),
		slot(4, at(20, 40), 60),
	}
	plan := PlanRemoval(lineup, 2)

	assert.Equal(t, 45, plan.TotalMinutes)
	assert.Equal(t, at(20, 25), plan.LatestEnd)
	assert.False(t, plan.OpenedLineup)
	require.Len(t, plan.Removed, 2)
	require.Len(t, plan.Remaining, 3)

	// Act 3 starts before the removed act's latest end and stays put.
	assert.Equal(t, at(18, 0), plan.Remaining[0].Start)
	assert.Equal(t, at(19, 10), plan.Remaining[1].Start)
	// Act 4 moves earlier by exactly the removed minutes.
	assert.Equal(t, at(19, 55), plan.Remaining[2].Start)

	// The input lineup is not modified.
	assert.Equal(t, at(20, 40), lineup[4].Start)
}

func TestValidator_ValidateRemoval(t *testing.T) {
	t.Parallel()
	v := NewValidator(DefaultRules())

	t.Run("middle act leaves valid gap", func(t *testing.T) {
		plan := PlanRemoval(threeActs(), 2)
		require.NoError(t, v.ValidateRemoval(at(18, 0), plan))
		require.Len(t, plan.Remaining, 2)
		assert.Equal(t, at(19, 15), plan.Remaining[1].Start)
	})

	t.Run("middle act leaves a forty five minute gap", func(t *testing.T) {
		lineup := []model.Performance{
			slot(1, at(18, 0), 50),
			slot(2, at(19, 10), 60),
			slot(3, at(20, 35), 60),
		}
		err := v.ValidateRemoval(at(18, 0), PlanRemoval(lineup, 2))
		require.Error(t, err)
		assert.Equal(t, RuleIntervalGap, ruleOf(t, err))
	})

	t.Run("opening act leaves an in-bounds front gap", func(t *testing.T) {
		plan := PlanRemoval(threeActs(), 1)
		assert.True(t, plan.OpenedLineup)
		require.NoError(t, v.ValidateRemoval(at(18, 0), plan))
		assert.Equal(t, at(18, 10), plan.Remaining[0].Start)
	})

	t.Run("opening act with next act already at gig start", func(t *testing.T) {
		lineup := []model.Performance{
			slot(1, at(18, 0), 30),
			slot(2, at(18, 0), 60),
		}
		plan := PlanRemoval(lineup, 1)
		err := v.ValidateRemoval(at(18, 0), plan)
		require.Error(t, err)
		assert.Equal(t, RuleIntervalGap, ruleOf(t, err))

		lenient := DefaultRules()
		lenient.RejectZeroFrontGap = false
		assert.NoError(t, NewValidator(lenient).ValidateRemoval(at(18, 0), plan))
	})

	t.Run("lineup drops under an hour", func(t *testing.T) {
		lineup := []model.Performance{
			slot(1, at(18, 0), 30),
			slot(2, at(18, 40), 20),
			slot(3, at(19, 10), 5),
		}
		err := v.ValidateRemoval(at(18, 0), PlanRemoval(lineup, 2))
		require.Error(t, err)
		assert.Equal(t, RuleMinDuration, ruleOf(t, err))
	})

	t.Run("act between two slots of another act", func(t *testing.T) {
		lineup := []model.Performance{
			slot(1, at(18, 0), 70),
			slot(2, at(19, 20), 20),
			slot(1, at(19, 50), 20),
		}
		plan := PlanRemoval(lineup, 2)
		require.Len(t, plan.Remaining, 2)
		assert.Equal(t, at(19, 30), plan.Remaining[1].Start)
		assert.NoError(t, v.ValidateRemoval(at(18, 0), plan))
	})

	t.Run("nothing left", func(t *testing.T) {
		err := v.ValidateRemoval(at(18, 0), PlanRemoval([]model.Performance{slot(1, at(18, 0), 90)}, 1))
		require.Error(t, err)
		assert.Equal(t, RuleEmptyLineup, ruleOf(t, err))
	})
}

func TestValidator_WouldViolateAfterRemoval(t *testing.T) {
	t.Parallel()
	v := NewValidator(DefaultRules())

	assert.NoError(t, v.WouldViolateAfterRemoval(at(18, 0), threeActs(), 2))
	assert.Error(t, v.WouldViolateAfterRemoval(at(18, 0), threeActs()[:1], 1))
}

package schedule

import (
	"time"

	"github.com/iliyamo/gig-scheduler/internal/model"
)

// Validator checks lineups against a Rules set.  It is safe for
// concurrent use.
type Validator struct {
	rules Rules
}

// NewValidator returns a Validator enforcing rules.
func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// Rules returns the rule set in force.
func (v *Validator) Rules() Rules { return v.rules }

// Validate runs every creation rule against a proposed lineup and
// returns the first *Violation found, or nil.  genres are the genres
// of the acts in the lineup.
func (v *Validator) Validate(gigStart time.Time, lineup []model.Performance, genres []string) error {
	for _, check := range v.creationChecks(gigStart, Sorted(lineup), genres) {
		if viol := check(); viol != nil {
			return viol
		}
	}
	return nil
}

// ValidateAll is like Validate but reports every broken rule.
func (v *Validator) ValidateAll(gigStart time.Time, lineup []model.Performance, genres []string) []*Violation {
	var out []*Violation
	for _, check := range v.creationChecks(gigStart, Sorted(lineup), genres) {
		if viol := check(); viol != nil {
			out = append(out, viol)
		}
	}
	return out
}

func (v *Validator) creationChecks(gigStart time.Time, sorted []model.Performance, genres []string) []func() *Violation {
	return []func() *Violation{
		func() *Violation { return v.startWindow(gigStart) },
		func() *Violation { return v.firstAct(gigStart, sorted) },
		func() *Violation { return v.minDuration(gigStart, sorted) },
		func() *Violation { return v.finishTime(gigStart, sorted, genres) },
		func() *Violation { return v.feeConsistency(sorted) },
		func() *Violation { return v.intervalGaps(sorted) },
	}
}

// CheckStartWindow verifies the gig start hour.
func (v *Validator) CheckStartWindow(gigStart time.Time) error {
	return asError(v.startWindow(gigStart))
}

// CheckMinDuration verifies the lineup runs for at least Rules.MinTotal.
func (v *Validator) CheckMinDuration(gigStart time.Time, lineup []model.Performance) error {
	return asError(v.minDuration(gigStart, lineup))
}

// CheckIntervalGaps verifies the silence between adjacent slots.
func (v *Validator) CheckIntervalGaps(lineup []model.Performance) error {
	return asError(v.intervalGaps(lineup))
}

// ValidateRemoval judges the lineup a Removal would leave behind.  Only
// the gap and minimum-duration rules are re-checked; the first-act and
// curfew rules are not, since removal only shortens or pulls the tail
// forward.  A nil result means the act can be dropped without
// cancelling the gig.
func (v *Validator) ValidateRemoval(gigStart time.Time, plan Removal) error {
	if len(plan.Remaining) == 0 {
		return violationf(RuleEmptyLineup, "no performances would remain")
	}
	if plan.OpenedLineup {
		if viol := v.frontGap(gigStart, plan.Remaining[0]); viol != nil {
			return viol
		}
	}
	if viol := v.intervalGaps(plan.Remaining); viol != nil {
		return viol
	}
	return asError(v.minDuration(gigStart, plan.Remaining))
}

// WouldViolateAfterRemoval plans the removal of actID from lineup and
// judges the result.
func (v *Validator) WouldViolateAfterRemoval(gigStart time.Time, lineup []model.Performance, actID uint64) error {
	return v.ValidateRemoval(gigStart, PlanRemoval(lineup, actID))
}

func (v *Validator) startWindow(gigStart time.Time) *Violation {
	h := gigStart.Hour()
	if h < v.rules.EarliestStartHour || h > v.rules.LatestStartHour {
		return violationf(RuleStartWindow, "gig starts at %s, allowed start hours are %02d:00 to %02d:59",
			gigStart.Format(model.ClockFormat), v.rules.EarliestStartHour, v.rules.LatestStartHour)
	}
	return nil
}

func (v *Validator) firstAct(gigStart time.Time, sorted []model.Performance) *Violation {
	if len(sorted) == 0 {
		return violationf(RuleEmptyLineup, "lineup has no performances")
	}
	if first := sorted[0]; !first.Start.Equal(gigStart) {
		return violationf(RuleFirstAct, "first act starts at %s but the gig starts at %s",
			first.Start.Format(model.ClockFormat), gigStart.Format(model.ClockFormat))
	}
	return nil
}

func (v *Validator) minDuration(gigStart time.Time, lineup []model.Performance) *Violation {
	if len(lineup) == 0 {
		return violationf(RuleEmptyLineup, "lineup has no performances")
	}
	if end := LastEnd(lineup); end.Before(gigStart.Add(v.rules.MinTotal)) {
		return violationf(RuleMinDuration, "gig ends at %s, less than %d minutes after it starts",
			end.Format(model.ClockFormat), int(v.rules.MinTotal/time.Minute))
	}
	return nil
}

func (v *Validator) finishTime(gigStart time.Time, lineup []model.Performance, genres []string) *Violation {
	if len(lineup) == 0 {
		return nil
	}
	day := time.Date(gigStart.Year(), gigStart.Month(), gigStart.Day(), 0, 0, 0, 0, gigStart.Location())
	curfew := day.Add(v.rules.LateCurfew)
	for _, g := range genres {
		if v.rules.isLoud(g) {
			curfew = day.Add(v.rules.LoudCurfew)
			break
		}
	}
	if end := LastEnd(lineup); end.After(curfew) {
		return violationf(RuleFinishTime, "gig ends at %s, after the %s curfew",
			end.Format("2006-01-02 15:04"), curfew.Format("2006-01-02 15:04"))
	}
	return nil
}

func (v *Validator) feeConsistency(lineup []model.Performance) *Violation {
	fees := make(map[uint64]int, len(lineup))
	for _, p := range lineup {
		fee, seen := fees[p.ActID]
		if !seen {
			fees[p.ActID] = p.Fee
			continue
		}
		if fee != p.Fee {
			return violationf(RuleFeeConsistency, "act %d is booked at fees %d and %d", p.ActID, fee, p.Fee)
		}
	}
	return nil
}

func (v *Validator) intervalGaps(lineup []model.Performance) *Violation {
	ordered := byEnd(lineup)
	for i := 1; i < len(ordered); i++ {
		prev, next := ordered[i-1], ordered[i]
		if viol := v.gap(prev.End(), next.Start); viol != nil {
			return viol
		}
	}
	return nil
}

func (v *Validator) frontGap(gigStart time.Time, first model.Performance) *Violation {
	if first.Start.Equal(gigStart) {
		if v.rules.RejectZeroFrontGap {
			return violationf(RuleIntervalGap, "next act would start exactly at the gig start %s",
				gigStart.Format(model.ClockFormat))
		}
		return nil
	}
	return v.gap(gigStart, first.Start)
}

func (v *Validator) gap(from, to time.Time) *Violation {
	g := to.Sub(from)
	if g <= 0 || g < v.rules.MinGap || g > v.rules.MaxGap {
		return violationf(RuleIntervalGap, "%d minute gap between %s and %s, allowed %d to %d",
			int(g/time.Minute), from.Format(model.ClockFormat), to.Format(model.ClockFormat),
			int(v.rules.MinGap/time.Minute), int(v.rules.MaxGap/time.Minute))
	}
	return nil
}

func asError(v *Violation) error {
	if v == nil {
		return nil
	}
	return v
}

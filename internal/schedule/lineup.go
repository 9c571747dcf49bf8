package schedule

import (
	"slices"
	"time"

	"github.com/iliyamo/gig-scheduler/internal/model"
)

// Sorted returns a copy of lineup ordered by start time, ties broken by
// end time.  This is the canonical lineup order used for validation and
// persistence.
func Sorted(lineup []model.Performance) []model.Performance {
	out := slices.Clone(lineup)
	slices.SortStableFunc(out, func(a, b model.Performance) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End().Compare(b.End())
	})
	return out
}

// byEnd returns a copy of lineup ordered by end time, then start time.
// Adjacent entries in this order are the pairs whose gaps are checked.
func byEnd(lineup []model.Performance) []model.Performance {
	out := slices.Clone(lineup)
	slices.SortStableFunc(out, func(a, b model.Performance) int {
		if c := a.End().Compare(b.End()); c != 0 {
			return c
		}
		return a.Start.Compare(b.Start)
	})
	return out
}

// LastEnd returns the latest end time in lineup, or the zero time for
// an empty lineup.
func LastEnd(lineup []model.Performance) time.Time {
	var last time.Time
	for i, p := range lineup {
		if e := p.End(); i == 0 || e.After(last) {
			last = e
		}
	}
	return last
}

// Removal is the effect of deleting every slot an act holds in a gig.
type Removal struct {
	ActID uint64
	// Removed holds the act's slots in start order.
	Removed []model.Performance
	// TotalMinutes is the summed duration of Removed.
	TotalMinutes int
	// LatestEnd is the latest end among Removed.
	LatestEnd time.Time
	// Remaining is the lineup after deletion, with every slot that
	// started strictly after LatestEnd moved earlier by TotalMinutes.
	Remaining []model.Performance
	// OpenedLineup is set when the act held the earliest slot.
	OpenedLineup bool
}

// PlanRemoval computes the lineup left when actID is removed.  It does
// not judge whether the result is acceptable; see Validator.ValidateRemoval.
func PlanRemoval(lineup []model.Performance, actID uint64) Removal {
	sorted := Sorted(lineup)
	plan := Removal{ActID: actID}
	if len(sorted) > 0 && sorted[0].ActID == actID {
		plan.OpenedLineup = true
	}

	kept := make([]model.Performance, 0, len(sorted))
	for _, p := range sorted {
		if p.ActID != actID {
			kept = append(kept, p)
			continue
		}
		plan.Removed = append(plan.Removed, p)
		plan.TotalMinutes += p.Duration
	}
	plan.LatestEnd = LastEnd(plan.Removed)

	shift := time.Duration(plan.TotalMinutes) * time.Minute
	for i := range kept {
		if kept[i].Start.After(plan.LatestEnd) {
			kept[i].Start = kept[i].Start.Add(-shift)
		}
	}
	plan.Remaining = Sorted(kept)
	return plan
}

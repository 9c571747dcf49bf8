// Package schedule holds the pure lineup rules of a gig: interval
// validation, headline detection and the hypothetical lineup left
// behind when an act is removed.  Nothing in this package performs
// I/O; callers pass lineups in and get verdicts out.
package schedule

import "time"

// Rule names a single lineup rule.  The string value is stable and is
// returned to API clients.
type Rule string

const (
	RuleStartWindow    Rule = "start_window"
	RuleFirstAct       Rule = "first_act"
	RuleMinDuration    Rule = "min_duration"
	RuleFinishTime     Rule = "finish_time"
	RuleFeeConsistency Rule = "fee_consistency"
	RuleIntervalGap    Rule = "interval_gap"
	RuleEmptyLineup    Rule = "empty_lineup"
	// RuleCapacity is reported by ticket sales, not by the Validator.
	RuleCapacity Rule = "capacity"
)

// Rules carries every bound the validator enforces.
type Rules struct {
	// MinGap and MaxGap bound the silence between two adjacent slots.
	MinGap time.Duration
	MaxGap time.Duration
	// MinTotal is the shortest allowed span from gig start to last end.
	MinTotal time.Duration
	// EarliestStartHour and LatestStartHour bound the gig start hour, inclusive.
	EarliestStartHour int
	LatestStartHour   int
	// LoudGenres finish by LoudCurfew on the gig date; every other
	// lineup finishes by LateCurfew on the following date.
	LoudGenres []string
	LoudCurfew time.Duration
	LateCurfew time.Duration
	// RejectZeroFrontGap makes removal of the opening act a violation
	// when the next act would start exactly at the gig start.
	RejectZeroFrontGap bool
}

// DefaultRules returns the production rule set.
func DefaultRules() Rules {
	return Rules{
		MinGap:             10 * time.Minute,
		MaxGap:             30 * time.Minute,
		MinTotal:           60 * time.Minute,
		EarliestStartHour:  9,
		LatestStartHour:    23,
		LoudGenres:         []string{"rock", "pop"},
		LoudCurfew:         23 * time.Hour,
		LateCurfew:         25 * time.Hour,
		RejectZeroFrontGap: true,
	}
}

func (r Rules) isLoud(genre string) bool {
	for _, g := range r.LoudGenres {
		if g == genre {
			return true
		}
	}
	return false
}

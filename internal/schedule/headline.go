package schedule

import "github.com/iliyamo/gig-scheduler/internal/model"

// IsHeadline reports whether actID holds the headline slot of lineup.
// The headline is the act whose slot ends last.  A lone act is always
// the headline, and when several slots share the latest end every act
// among them counts as headline.  An act absent from the lineup is
// never the headline.
func IsHeadline(lineup []model.Performance, actID uint64) bool {
	present, alone := false, true
	for _, p := range lineup {
		if p.ActID == actID {
			present = true
		} else {
			alone = false
		}
	}
	if !present {
		return false
	}
	if alone {
		return true
	}

	last := LastEnd(lineup)
	for _, p := range lineup {
		if p.ActID == actID && p.End().Equal(last) {
			return true
		}
	}
	return false
}

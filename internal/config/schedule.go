package config

import "github.com/iliyamo/gig-scheduler/internal/schedule"

// LoadScheduleRules overlays SCHEDULE_* variables on schedule.DefaultRules.
//   SCHEDULE_MIN_GAP, SCHEDULE_MAX_GAP, SCHEDULE_MIN_TOTAL   durations ("10m")
//   SCHEDULE_EARLIEST_HOUR, SCHEDULE_LATEST_HOUR             start hours, inclusive
//   SCHEDULE_LOUD_GENRES                                     comma separated, case-sensitive
//   SCHEDULE_LOUD_CURFEW, SCHEDULE_LATE_CURFEW               offsets from midnight of the gig date ("23h", "25h")
//   SCHEDULE_REJECT_ZERO_FRONT_GAP                           bool
func LoadScheduleRules() schedule.Rules {
    r := schedule.DefaultRules()
    r.MinGap = envDur("SCHEDULE_MIN_GAP", r.MinGap)
    r.MaxGap = envDur("SCHEDULE_MAX_GAP", r.MaxGap)
    r.MinTotal = envDur("SCHEDULE_MIN_TOTAL", r.MinTotal)
    r.EarliestStartHour = envInt("SCHEDULE_EARLIEST_HOUR", r.EarliestStartHour)
    r.LatestStartHour = envInt("SCHEDULE_LATEST_HOUR", r.LatestStartHour)
    r.LoudGenres = envList("SCHEDULE_LOUD_GENRES", r.LoudGenres)
    r.LoudCurfew = envDur("SCHEDULE_LOUD_CURFEW", r.LoudCurfew)
    r.LateCurfew = envDur("SCHEDULE_LATE_CURFEW", r.LateCurfew)
    r.RejectZeroFrontGap = envBool("SCHEDULE_REJECT_ZERO_FRONT_GAP", r.RejectZeroFrontGap)
    if r.MaxGap < r.MinGap {
        r.MaxGap = r.MinGap
    }
    return r
}

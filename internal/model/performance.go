package model

import "time"

// Performance is one timed slot of an act inside a gig (an act_gig
// row).  The end of a slot is always derived from Start and Duration
// and never stored.  An act may hold several slots in the same gig,
// all at the same Fee.
//
// Fields:
//  ID       – primary key of the act_gig row (zero before insert).
//  GigID    – gig the slot belongs to.
//  ActID    – act performing.
//  ActName  – act name, filled by reads that join the act table.
//  Fee      – fee agreed for the act in this gig.
//  Start    – slot start (wall clock, UTC-labelled).
//  Duration – length of the slot in minutes.
type Performance struct {
    ID       uint64    // act_gig.act_gig_id
    GigID    uint64    // act_gig.gig_id
    ActID    uint64    // act_gig.act_id
    ActName  string    // act.act_name (joined)
    Fee      int       // act_gig.act_gig_fee
    Start    time.Time // act_gig.on_time
    Duration int       // act_gig.duration (minutes)
}

// End returns the time the slot finishes.
func (p Performance) End() time.Time {
    return p.Start.Add(time.Duration(p.Duration) * time.Minute)
}

// ScheduleEntry is one row of the public schedule view.  Start and
// End are formatted as zero-padded 24-hour "HH:MM".
type ScheduleEntry struct {
    ActName string `json:"act_name"`
    Start   string `json:"start"`
    End     string `json:"end"`
}

// ClockFormat is the layout used for ScheduleEntry times.
const ClockFormat = "15:04"

// NewScheduleEntry formats a performance for the schedule view.
func NewScheduleEntry(p Performance) ScheduleEntry {
    return ScheduleEntry{
        ActName: p.ActName,
        Start:   p.Start.Format(ClockFormat),
        End:     p.End().Format(ClockFormat),
    }
}

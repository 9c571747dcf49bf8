package model

import "time"

// GigStatus is the lifecycle state of a gig.  The single-letter codes
// are the values stored in gig.gig_status.
type GigStatus string

const (
    GigScheduled GigStatus = "G"
    GigCancelled GigStatus = "C"
)

// PriceTypeAdult is the price-type code populated when a gig is created.
const PriceTypeAdult = "A"

// Gig is a live-music event at a venue.  Once Status is GigCancelled
// the gig is terminal and no further schedule changes are allowed.
//
// Fields:
//  ID      – primary key identifier, assigned on insert.
//  VenueID – venue hosting the gig.
//  Title   – display title.
//  Start   – declared start (wall clock, UTC-labelled).
//  Status  – GigScheduled or GigCancelled.
type Gig struct {
    ID      uint64    // gig.gig_id
    VenueID uint64    // gig.venue_id
    Title   string    // gig.gig_title
    Start   time.Time // gig.gig_start
    Status  GigStatus // gig.gig_status
}

// Active reports whether the gig can still be changed.
func (g Gig) Active() bool { return g.Status == GigScheduled }

// TicketPrice is the price of one price type for a gig.
type TicketPrice struct {
    GigID     uint64 // gig_ticket.gig_id
    PriceType string // gig_ticket.price_type
    Price     int    // gig_ticket.price
}

// WallClock relabels t as UTC without moving its clock reading, so a
// gig declared for 18:00 stays 18:00 on the declared date whatever zone
// the caller or the driver attached.
func WallClock(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

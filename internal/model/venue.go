package model

// Venue is a place that hosts gigs.  Venues are created outside of
// the scheduling flow and are only ever read here.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – unique venue name.
//  HireCost – cost of hiring the venue, same unit as act fees.
//  Capacity – maximum number of tickets sellable per gig.
type Venue struct {
    ID       uint64 // venue.venue_id
    Name     string // venue.venue_name
    HireCost int    // venue.hire_cost
    Capacity int    // venue.capacity
}

// Package repository contains the SQL data access for venues, acts, gigs,
// performances and tickets.  Every repo method runs on the transaction
// carried in its context when there is one, so a service can group calls
// across repos with Store.WithTx.
//
// The sentinel errors below let services tell a missing row apart from a
// storage failure.
package repository

import "errors"

// ErrVenueNotFound is returned when no venue matches the lookup.
var ErrVenueNotFound = errors.New("venue not found")

// ErrActNotFound is returned when no act matches the lookup.
var ErrActNotFound = errors.New("act not found")

// ErrGigNotFound is returned when no gig matches the lookup.
var ErrGigNotFound = errors.New("gig not found")

// ErrPriceNotFound is returned when a gig has no price for the
// requested price type.
var ErrPriceNotFound = errors.New("ticket price not found")

package model

// Ticket is a purchased ticket for a gig.  Cost is copied from the
// gig's price table at purchase time and reset to zero when the whole
// gig is cancelled.  Tickets are never deleted.
//
// Fields:
//  ID            – primary key identifier.
//  GigID         – gig the ticket admits to.
//  CustomerName  – name of the holder.
//  CustomerEmail – email of the holder.
//  PriceType     – price-type code (e.g. "A").
//  Cost          – amount charged.
type Ticket struct {
    ID            uint64 // ticket.ticket_id
    GigID         uint64 // ticket.gig_id
    CustomerName  string // ticket.customer_name
    CustomerEmail string // ticket.customer_email
    PriceType     string // ticket.price_type
    Cost          int    // ticket.cost
}

// Customer identifies a ticket holder.  Two customers are the same
// only when both name and email match.
type Customer struct {
    Name  string `json:"name"`
    Email string `json:"email"`
}

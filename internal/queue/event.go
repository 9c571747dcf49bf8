// Package queue carries gig change events over RabbitMQ: the publisher
// used by the cancellation service and the consumer that turns
// cancellations into customer notification lines.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/gig-scheduler/internal/model"
)

// Queue names.  Messages go through the default exchange, so each name
// is also the routing key.
const (
    GigCancelledQueue = "gig.cancelled"
    ActRemovedQueue   = "gig.act_removed"
)

// GigCancelledEvent is published after a whole gig was cancelled.
// Customers lists every distinct ticket holder, already refunded, so
// the consumer can notify them without reading the database.
type GigCancelledEvent struct {
    EventID    string           `json:"event_id"`
    GigID      uint64           `json:"gig_id"`
    ActName    string           `json:"act_name"` // act whose cancellation triggered it
    Reason     string           `json:"reason"`   // "headline" or the broken rule name
    Customers  []model.Customer `json:"customers"`
    OccurredAt string           `json:"occurred_at"`
}

// ActRemovedEvent is published after an act was dropped from a gig that
// stays scheduled.
type ActRemovedEvent struct {
    EventID        string                `json:"event_id"`
    GigID          uint64                `json:"gig_id"`
    ActName        string                `json:"act_name"`
    RemovedMinutes int                   `json:"removed_minutes"`
    Lineup         []model.ScheduleEntry `json:"lineup"`
    OccurredAt     string                `json:"occurred_at"`
}

// NewGigCancelledEvent stamps a fresh event id and time.
func NewGigCancelledEvent(gigID uint64, actName, reason string, customers []model.Customer, at time.Time) GigCancelledEvent {
    return GigCancelledEvent{
        EventID:    uuid.NewString(),
        GigID:      gigID,
        ActName:    actName,
        Reason:     reason,
        Customers:  customers,
        OccurredAt: at.UTC().Format(time.RFC3339),
    }
}

// NewActRemovedEvent stamps a fresh event id and time.
func NewActRemovedEvent(gigID uint64, actName string, removedMinutes int, lineup []model.ScheduleEntry, at time.Time) ActRemovedEvent {
    return ActRemovedEvent{
        EventID:        uuid.NewString(),
        GigID:          gigID,
        ActName:        actName,
        RemovedMinutes: removedMinutes,
        Lineup:         lineup,
        OccurredAt:     at.UTC().Format(time.RFC3339),
    }
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gig-scheduler/internal/model"
)

// VenueRepo reads venues.  Venues are reference data; the API never
// writes them.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `venue_id, venue_name, hire_cost, capacity`

// FindVenueByName returns the venue with the exact name, or
// ErrVenueNotFound.
func (r *VenueRepo) FindVenueByName(ctx context.Context, name string) (model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venue WHERE venue_name = ?`
	return scanVenue(conn(ctx, r.db).QueryRowContext(ctx, q, name))
}

// GetVenue returns the venue by id, or ErrVenueNotFound.
func (r *VenueRepo) GetVenue(ctx context.Context, id uint64) (model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venue WHERE venue_id = ?`
	return scanVenue(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func scanVenue(row *sql.Row) (model.Venue, error) {
	var v model.Venue
	if err := row.Scan(&v.ID, &v.Name, &v.HireCost, &v.Capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Venue{}, ErrVenueNotFound
		}
		return model.Venue{}, err
	}
	return v, nil
}

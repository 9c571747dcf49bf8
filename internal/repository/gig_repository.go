package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/gig-scheduler/internal/model"
)

// GigRepo manages gigs and their price table.
type GigRepo struct {
	db *sql.DB
	// lockSuffix is appended to GetGigForUpdate; empty for SQLite, whose
	// immediate transactions already hold the write lock.
	lockSuffix string
}

// NewGigRepo constructs a GigRepo.  forUpdate enables row locking on
// GetGigForUpdate and should be set for MySQL.
func NewGigRepo(db *sql.DB, forUpdate bool) *GigRepo {
	r := &GigRepo{db: db}
	if forUpdate {
		r.lockSuffix = " FOR UPDATE"
	}
	return r
}

const gigColumns = `gig_id, venue_id, gig_title, gig_start, gig_status`

// CreateGig inserts g with status G and assigns the generated ID and
// status back to g.
func (r *GigRepo) CreateGig(ctx context.Context, g *model.Gig) error {
	const q = `INSERT INTO gig (venue_id, gig_title, gig_start, gig_status) VALUES (?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, g.VenueID, g.Title, g.Start, string(model.GigScheduled))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	g.Status = model.GigScheduled
	return nil
}

// GetGig returns the gig by id, or ErrGigNotFound.
func (r *GigRepo) GetGig(ctx context.Context, id uint64) (model.Gig, error) {
	const q = `SELECT ` + gigColumns + ` FROM gig WHERE gig_id = ?`
	return scanGig(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// GetGigForUpdate is GetGig that also locks the row until the
// surrounding transaction ends.  Two cancellations of the same gig are
// serialised on this lock.
func (r *GigRepo) GetGigForUpdate(ctx context.Context, id uint64) (model.Gig, error) {
	q := `SELECT ` + gigColumns + ` FROM gig WHERE gig_id = ?` + r.lockSuffix
	return scanGig(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// MarkGigCancelled sets the gig status to C.
func (r *GigRepo) MarkGigCancelled(ctx context.Context, id uint64) error {
	const q = `UPDATE gig SET gig_status = ? WHERE gig_id = ?`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, string(model.GigCancelled), id)
	return err
}

// CreateTicketPrice inserts one row of the gig's price table.
func (r *GigRepo) CreateTicketPrice(ctx context.Context, p model.TicketPrice) error {
	const q = `INSERT INTO gig_ticket (gig_id, price_type, price) VALUES (?, ?, ?)`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, p.GigID, p.PriceType, p.Price)
	return err
}

// GetTicketPrice returns the price of priceType for the gig, or
// ErrPriceNotFound.
func (r *GigRepo) GetTicketPrice(ctx context.Context, gigID uint64, priceType string) (model.TicketPrice, error) {
	const q = `SELECT gig_id, price_type, price FROM gig_ticket WHERE gig_id = ? AND price_type = ?`
	var p model.TicketPrice
	err := conn(ctx, r.db).QueryRowContext(ctx, q, gigID, priceType).Scan(&p.GigID, &p.PriceType, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TicketPrice{}, ErrPriceNotFound
	}
	return p, err
}

func scanGig(row *sql.Row) (model.Gig, error) {
	var (
		g      model.Gig
		start  time.Time
		status string
	)
	if err := row.Scan(&g.ID, &g.VenueID, &g.Title, &start, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Gig{}, ErrGigNotFound
		}
		return model.Gig{}, err
	}
	g.Start = model.WallClock(start)
	g.Status = model.GigStatus(status)
	return g, nil
}

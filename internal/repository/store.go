package repository

import (
	"context"
	"database/sql"
)

// Store bundles the repos over one database so services can run
// several of them in a single transaction.
type Store struct {
	*VenueRepo
	*ActRepo
	*GigRepo
	*PerformanceRepo
	*TicketRepo

	db *sql.DB
}

// NewStore builds a Store.  rowLocks enables SELECT ... FOR UPDATE and
// must be false for SQLite.
func NewStore(db *sql.DB, rowLocks bool) *Store {
	return &Store{
		VenueRepo:       NewVenueRepo(db),
		ActRepo:         NewActRepo(db),
		GigRepo:         NewGigRepo(db, rowLocks),
		PerformanceRepo: NewPerformanceRepo(db),
		TicketRepo:      NewTicketRepo(db),
		db:              db,
	}
}

// WithTx runs fn in a transaction; see withTx.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, s.db, fn)
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

package repository

import (
	"cmp"
	"context"
	"database/sql"
	"slices"

	"github.com/iliyamo/gig-scheduler/internal/model"
)

// TicketRepo manages purchased tickets.  Tickets are never deleted.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// CreateTicket inserts t and assigns the generated ID.
func (r *TicketRepo) CreateTicket(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO ticket (gig_id, customer_name, customer_email, price_type, cost) VALUES (?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, t.GigID, t.CustomerName, t.CustomerEmail, t.PriceType, t.Cost)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// CountTickets returns the number of tickets sold for the gig.
func (r *TicketRepo) CountTickets(ctx context.Context, gigID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM ticket WHERE gig_id = ?`
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx, q, gigID).Scan(&n)
	return n, err
}

// ZeroTicketCosts sets the cost of every ticket of the gig to 0.
func (r *TicketRepo) ZeroTicketCosts(ctx context.Context, gigID uint64) (int64, error) {
	const q = `UPDATE ticket SET cost = 0 WHERE gig_id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, gigID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListTicketHolders returns the distinct (name, email) pairs holding a
// ticket for the gig, ordered byte-wise by name then email.  The order is
// applied here because MySQL and SQLite collate names differently.
func (r *TicketRepo) ListTicketHolders(ctx context.Context, gigID uint64) ([]model.Customer, error) {
	const q = `SELECT DISTINCT customer_name, customer_email FROM ticket
               WHERE gig_id = ?`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.Name, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortCustomers(out)
	return out, nil
}

func sortCustomers(cs []model.Customer) {
	slices.SortFunc(cs, func(a, b model.Customer) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Email, b.Email))
	})
}

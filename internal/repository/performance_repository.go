package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/gig-scheduler/internal/model"
)

// PerformanceRepo manages act_gig rows, the timed slots of a lineup.
type PerformanceRepo struct {
	db *sql.DB
}

// NewPerformanceRepo constructs a PerformanceRepo with the given DB handle.
func NewPerformanceRepo(db *sql.DB) *PerformanceRepo { return &PerformanceRepo{db: db} }

// CreatePerformance inserts p and assigns the generated ID.
func (r *PerformanceRepo) CreatePerformance(ctx context.Context, p *model.Performance) error {
	const q = `INSERT INTO act_gig (act_id, gig_id, act_gig_fee, on_time, duration) VALUES (?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, p.ActID, p.GigID, p.Fee, p.Start, p.Duration)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ListPerformances returns the lineup of a gig with act names filled,
// ordered by start time.  A gig without slots yields an empty slice.
func (r *PerformanceRepo) ListPerformances(ctx context.Context, gigID uint64) ([]model.Performance, error) {
	const q = `SELECT ag.act_gig_id, ag.gig_id, ag.act_id, a.act_name, ag.act_gig_fee, ag.on_time, ag.duration
               FROM act_gig ag JOIN act a ON a.act_id = ag.act_id
               WHERE ag.gig_id = ?
               ORDER BY ag.on_time, ag.act_gig_id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Performance{}
	for rows.Next() {
		var (
			p     model.Performance
			start time.Time
		)
		if err := rows.Scan(&p.ID, &p.GigID, &p.ActID, &p.ActName, &p.Fee, &start, &p.Duration); err != nil {
			return nil, err
		}
		p.Start = model.WallClock(start)
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePerformances removes every slot the act holds in the gig and
// returns how many were removed.
func (r *PerformanceRepo) DeletePerformances(ctx context.Context, gigID, actID uint64) (int64, error) {
	const q = `DELETE FROM act_gig WHERE gig_id = ? AND act_id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, gigID, actID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdatePerformanceStart moves one slot to a new start time.
func (r *PerformanceRepo) UpdatePerformanceStart(ctx context.Context, id uint64, start time.Time) error {
	const q = `UPDATE act_gig SET on_time = ? WHERE act_gig_id = ?`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, start, id)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/gig-scheduler/internal/model"
)

// ActRepo reads acts.
type ActRepo struct {
	db *sql.DB
}

// NewActRepo constructs an ActRepo with the given DB handle.
func NewActRepo(db *sql.DB) *ActRepo { return &ActRepo{db: db} }

const actColumns = `act_id, act_name, genre, standard_fee`

// GetAct returns the act by id, or ErrActNotFound.
func (r *ActRepo) GetAct(ctx context.Context, id uint64) (model.Act, error) {
	const q = `SELECT ` + actColumns + ` FROM act WHERE act_id = ?`
	return scanAct(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// FindActByName returns the act with the exact name, or ErrActNotFound.
func (r *ActRepo) FindActByName(ctx context.Context, name string) (model.Act, error) {
	const q = `SELECT ` + actColumns + ` FROM act WHERE act_name = ?`
	return scanAct(conn(ctx, r.db).QueryRowContext(ctx, q, name))
}

func scanAct(row *sql.Row) (model.Act, error) {
	var a model.Act
	if err := row.Scan(&a.ID, &a.Name, &a.Genre, &a.StandardFee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Act{}, ErrActNotFound
		}
		return model.Act{}, err
	}
	return a, nil
}

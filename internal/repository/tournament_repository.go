package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// TournamentRepo provides read access to the tournaments table.  The
// engine never creates or edits tournaments (setup forms live in a
// separate admin service), so only lookups are exposed here.
type TournamentRepo struct {
	db *sql.DB
}

// NewTournamentRepo returns a TournamentRepo bound to the provided
// database.
func NewTournamentRepo(db *sql.DB) *TournamentRepo { return &TournamentRepo{db: db} }

// GetByID loads one tournament.  Returns ErrTournamentNotFound when no
// row exists.
func (r *TournamentRepo) GetByID(ctx context.Context, id uint64) (*model.Tournament, error) {
	var t model.Tournament
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, course_id, net_allowance_percent, skins_pot_cents, created_at, updated_at
		 FROM tournaments WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.CourseID, &t.NetAllowancePercent, &t.SkinsPotCents, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// Conflict persistence for ScoreRepo.  Rejected edits land in
// score_conflicts and stay there until an operator resolves or clears
// them; nothing in the engine deletes them implicitly.

// AddConflict persists one rejection and returns it with its assigned
// ID.
func (r *ScoreRepo) AddConflict(ctx context.Context, rec model.ConflictRecord) (*model.ConflictRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO score_conflicts
		   (tournament_id, entry_id, hole, rejected_strokes, rejected_client_at, rejected_by,
		    stored_strokes, stored_updated_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TournamentID, rec.EntryID, rec.Hole, rec.RejectedStrokes, rec.RejectedClientAt.UTC(),
		rec.RejectedBy, rec.StoredStrokes, rec.StoredUpdatedAt.UTC(), rec.CreatedAt.UTC())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	rec.ID = uint64(id)
	return &rec, nil
}

const conflictColumns = `id, tournament_id, entry_id, hole, rejected_strokes, rejected_client_at,
	rejected_by, stored_strokes, stored_updated_at, created_at`

func scanConflict(scanner interface{ Scan(...any) error }) (model.ConflictRecord, error) {
	var rec model.ConflictRecord
	err := scanner.Scan(&rec.ID, &rec.TournamentID, &rec.EntryID, &rec.Hole,
		&rec.RejectedStrokes, &rec.RejectedClientAt, &rec.RejectedBy,
		&rec.StoredStrokes, &rec.StoredUpdatedAt, &rec.CreatedAt)
	return rec, err
}

// GetConflict returns one pending conflict, or nil when it does not
// exist in the given tournament.
func (r *ScoreRepo) GetConflict(ctx context.Context, tournamentID, conflictID uint64) (*model.ConflictRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+conflictColumns+` FROM score_conflicts WHERE id = ? AND tournament_id = ?`,
		conflictID, tournamentID)
	rec, err := scanConflict(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListConflicts returns a tournament's pending conflicts, oldest
// first, for the operator review queue.
func (r *ScoreRepo) ListConflicts(ctx context.Context, tournamentID uint64) ([]model.ConflictRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+conflictColumns+` FROM score_conflicts WHERE tournament_id = ? ORDER BY id`,
		tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.ConflictRecord
	for rows.Next() {
		rec, err := scanConflict(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteConflict removes one resolved conflict from the review queue.
func (r *ScoreRepo) DeleteConflict(ctx context.Context, tournamentID, conflictID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM score_conflicts WHERE id = ? AND tournament_id = ?`, conflictID, tournamentID)
	return err
}

// ClearConflicts empties a tournament's review queue.
func (r *ScoreRepo) ClearConflicts(ctx context.Context, tournamentID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM score_conflicts WHERE tournament_id = ?`, tournamentID)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// ScoreRepo persists hole scores and their conflict records.  Together
// the two tables are the durable state of the reconciliation protocol,
// so one repository owns both; it implements reconcile.Store.  The
// reconcile service serializes access per (entry, hole) key, so the
// methods here are plain reads and writes.
type ScoreRepo struct {
	db *sql.DB
}

// NewScoreRepo returns a ScoreRepo bound to the provided database.
func NewScoreRepo(db *sql.DB) *ScoreRepo { return &ScoreRepo{db: db} }

// GetScore returns the stored score for one (entry, hole) key, or nil
// when no row exists yet.
func (r *ScoreRepo) GetScore(ctx context.Context, entryID uint64, hole int) (*model.HoleScore, error) {
	var s model.HoleScore
	err := r.db.QueryRowContext(ctx,
		`SELECT id, entry_id, hole, strokes, recorded_by, client_updated_at, updated_at
		 FROM hole_scores WHERE entry_id = ? AND hole = ?`, entryID, hole,
	).Scan(&s.ID, &s.EntryID, &s.Hole, &s.Strokes, &s.RecordedBy, &s.ClientUpdatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PutScore creates or overwrites the row for one key.  The
// (entry_id, hole) pair carries a unique index, so the upsert is a
// single statement; the fresh row is read back for the caller.
func (r *ScoreRepo) PutScore(ctx context.Context, entryID uint64, hole, strokes int, deviceID string, clientAt, now time.Time) (*model.HoleScore, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hole_scores (entry_id, hole, strokes, recorded_by, client_updated_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   strokes = VALUES(strokes),
		   recorded_by = VALUES(recorded_by),
		   client_updated_at = VALUES(client_updated_at),
		   updated_at = VALUES(updated_at)`,
		entryID, hole, strokes, deviceID, clientAt.UTC(), now.UTC())
	if err != nil {
		return nil, err
	}
	return r.GetScore(ctx, entryID, hole)
}

// ListByEntry returns all recorded scores for one entry ordered by
// hole, used by clients resynchronizing after a stale rejection.
func (r *ScoreRepo) ListByEntry(ctx context.Context, entryID uint64) ([]model.HoleScore, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entry_id, hole, strokes, recorded_by, client_updated_at, updated_at
		 FROM hole_scores WHERE entry_id = ? ORDER BY hole`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScores(rows)
}

// ListByTournament returns every recorded score in a tournament as an
// entryID -> (hole -> strokes) map, the shape the scoring engine
// consumes, plus the most recent server write time for cache headers.
func (r *ScoreRepo) ListByTournament(ctx context.Context, tournamentID uint64) (map[uint64]map[int]int, time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.entry_id, s.hole, s.strokes, s.updated_at
		 FROM hole_scores s JOIN entries e ON e.id = s.entry_id
		 WHERE e.tournament_id = ?`, tournamentID)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	scores := make(map[uint64]map[int]int)
	var latest time.Time
	for rows.Next() {
		var entryID uint64
		var hole, strokes int
		var updatedAt time.Time
		if err := rows.Scan(&entryID, &hole, &strokes, &updatedAt); err != nil {
			return nil, time.Time{}, err
		}
		if scores[entryID] == nil {
			scores[entryID] = make(map[int]int)
		}
		scores[entryID][hole] = strokes
		if updatedAt.After(latest) {
			latest = updatedAt
		}
	}
	return scores, latest, rows.Err()
}

func collectScores(rows *sql.Rows) ([]model.HoleScore, error) {
	var scores []model.HoleScore
	for rows.Next() {
		var s model.HoleScore
		if err := rows.Scan(&s.ID, &s.EntryID, &s.Hole, &s.Strokes, &s.RecordedBy, &s.ClientUpdatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

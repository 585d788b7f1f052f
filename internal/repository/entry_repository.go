package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// EntryRepo provides access to tournament entries.  Creating and
// deleting entries happens in the external admin service; the engine
// reads them for ranking and rewrites the two handicap columns when a
// recompute is requested after a course or allowance change.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo returns an EntryRepo bound to the provided database.
func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

const entryColumns = `e.id, e.tournament_id, e.player_id, p.name, e.course_handicap, e.playing_ch, e.group_id, e.created_at`

func scanEntry(scanner interface{ Scan(...any) error }) (model.Entry, error) {
	var e model.Entry
	var groupID sql.NullInt64
	err := scanner.Scan(&e.ID, &e.TournamentID, &e.PlayerID, &e.PlayerName,
		&e.CourseHandicap, &e.PlayingCH, &groupID, &e.CreatedAt)
	if err != nil {
		return e, err
	}
	if groupID.Valid {
		gid := uint64(groupID.Int64)
		e.GroupID = &gid
	}
	return e, nil
}

// GetByID loads one entry with its player name.  Returns
// ErrEntryNotFound when no row exists in the given tournament.
func (r *EntryRepo) GetByID(ctx context.Context, tournamentID, entryID uint64) (*model.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+`
		 FROM entries e JOIN players p ON p.id = e.player_id
		 WHERE e.id = ? AND e.tournament_id = ?`, entryID, tournamentID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByTournament returns every entry in a tournament with player
// names attached, ordered by entry ID for stable output.
func (r *EntryRepo) ListByTournament(ctx context.Context, tournamentID uint64) ([]model.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM entries e JOIN players p ON p.id = e.player_id
		 WHERE e.tournament_id = ? ORDER BY e.id`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListByGroup returns the entries assigned to one scoring group.
func (r *EntryRepo) ListByGroup(ctx context.Context, tournamentID, groupID uint64) ([]model.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM entries e JOIN players p ON p.id = e.player_id
		 WHERE e.tournament_id = ? AND e.group_id = ? ORDER BY e.id`, tournamentID, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PlayerIndex returns the stored handicap index for an entry's player,
// used when recomputing entry handicaps.
func (r *EntryRepo) PlayerIndex(ctx context.Context, playerID uint64) (float64, error) {
	var idx float64
	err := r.db.QueryRowContext(ctx,
		`SELECT handicap_index FROM players WHERE id = ?`, playerID).Scan(&idx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrEntryNotFound
	}
	return idx, err
}

// UpdateHandicaps overwrites an entry's computed handicap columns.
func (r *EntryRepo) UpdateHandicaps(ctx context.Context, entryID uint64, courseHandicap, playingCH int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET course_handicap = ?, playing_ch = ? WHERE id = ?`,
		courseHandicap, playingCH, entryID)
	return err
}

// Package syncqueue implements the device side of the score
// reconciliation protocol: a durable, append-only queue of pending
// hole-score edits plus a single-writer flusher that drains it to the
// server whenever the device is online.  Edits survive restarts and
// network loss; an edit leaves the queue only after the server returns
// a terminal outcome for it (accepted or stale), never on a failed
// send.
package syncqueue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// PendingEdit is one queued hole-score edit.  Seq is the append-only
// log position; EditID is a stable identifier assigned when the edit
// is queued so retries are recognizable server-side in logs.
type PendingEdit struct {
	Seq             int64
	EditID          string
	TournamentID    uint64
	EntryID         uint64
	Hole            int
	Strokes         int
	ClientUpdatedAt time.Time
}

// Queue is a durable pending-edit log in a device-local SQLite file.
// Rows are never rewritten; a single cursor row marks how far the
// flusher has drained, so a crash between send and acknowledgement
// replays the edit rather than losing it.
type Queue struct {
	db *sql.DB
}

const queueSchema = `
CREATE TABLE IF NOT EXISTS pending_edits (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    edit_id TEXT NOT NULL UNIQUE,
    tournament_id INTEGER NOT NULL,
    entry_id INTEGER NOT NULL,
    hole INTEGER NOT NULL,
    strokes INTEGER NOT NULL,
    client_updated_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS queue_cursor (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    flushed_seq INTEGER NOT NULL
);

INSERT OR IGNORE INTO queue_cursor (id, flushed_seq) VALUES (1, 0);
`

// Open opens (or creates) the queue database at path.  Use ":memory:"
// for tests.
func Open(path string) (*Queue, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open queue db: %w", err)
	}
	// The queue has exactly one writer goroutine plus the enqueue
	// path; a single connection avoids table-lock races in SQLite.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(queueSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create queue schema: %w", err)
	}
	return &Queue{db: db}, nil
}

// Close releases the underlying database.
func (q *Queue) Close() error { return q.db.Close() }

// Enqueue appends an edit to the log with a fresh edit ID and returns
// the stored record.  The caller should apply the edit to its local
// view before or immediately after queueing; the optimistic UI update
// never waits for the network.
func (q *Queue) Enqueue(ctx context.Context, tournamentID, entryID uint64, hole, strokes int, clientAt time.Time) (PendingEdit, error) {
	editID := uuid.NewString()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO pending_edits (edit_id, tournament_id, entry_id, hole, strokes, client_updated_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		editID, tournamentID, entryID, hole, strokes, clientAt.UnixNano(), time.Now().UnixNano(),
	)
	if err != nil {
		return PendingEdit{}, fmt.Errorf("enqueue edit: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return PendingEdit{}, err
	}
	return PendingEdit{
		Seq:             seq,
		EditID:          editID,
		TournamentID:    tournamentID,
		EntryID:         entryID,
		Hole:            hole,
		Strokes:         strokes,
		ClientUpdatedAt: clientAt,
	}, nil
}

// Pending returns up to limit unflushed edits in queue order.
func (q *Queue) Pending(ctx context.Context, limit int) ([]PendingEdit, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT seq, edit_id, tournament_id, entry_id, hole, strokes, client_updated_at
		 FROM pending_edits
		 WHERE seq > (SELECT flushed_seq FROM queue_cursor WHERE id = 1)
		 ORDER BY seq
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending edits: %w", err)
	}
	defer rows.Close()

	var out []PendingEdit
	for rows.Next() {
		var e PendingEdit
		var clientNanos int64
		if err := rows.Scan(&e.Seq, &e.EditID, &e.TournamentID, &e.EntryID, &e.Hole, &e.Strokes, &clientNanos); err != nil {
			return nil, err
		}
		e.ClientUpdatedAt = time.Unix(0, clientNanos).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// PendingCount reports how many edits are still waiting to flush.
func (q *Queue) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_edits
		 WHERE seq > (SELECT flushed_seq FROM queue_cursor WHERE id = 1)`).Scan(&n)
	return n, err
}

// Advance moves the cursor past seq, marking that edit terminally
// resolved by the server.  The cursor never moves backwards.
func (q *Queue) Advance(ctx context.Context, seq int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE queue_cursor SET flushed_seq = ? WHERE id = 1 AND flushed_seq < ?`, seq, seq)
	if err != nil {
		return fmt.Errorf("advance queue cursor: %w", err)
	}
	return nil
}

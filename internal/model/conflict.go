package model

import "time"

// ConflictRecord is produced when an incoming edit loses the
// last-write-wins comparison.  It preserves both sides, the rejected
// incoming value and the value that was stored at the time, so an
// operator can review the disagreement and either keep the server
// value or force the local one.  Records sit in the review queue until
// resolved or cleared; resolving never happens implicitly.
//
// Fields:
//  ID               – primary key identifier.
//  TournamentID     – tournament the scores belong to.
//  EntryID          – entry whose hole was contested.
//  Hole             – contested hole number.
//  RejectedStrokes  – stroke count of the losing edit.
//  RejectedClientAt – client timestamp of the losing edit.
//  RejectedBy       – device that submitted the losing edit.
//  StoredStrokes    – stroke count that was stored when the edit lost.
//  StoredUpdatedAt  – server timestamp of the stored value at that time.
//  CreatedAt        – when the rejection happened.
type ConflictRecord struct {
	ID               uint64    // score_conflicts.id
	TournamentID     uint64    // score_conflicts.tournament_id
	EntryID          uint64    // score_conflicts.entry_id
	Hole             int       // score_conflicts.hole
	RejectedStrokes  int       // score_conflicts.rejected_strokes
	RejectedClientAt time.Time // score_conflicts.rejected_client_at
	RejectedBy       string    // score_conflicts.rejected_by
	StoredStrokes    int       // score_conflicts.stored_strokes
	StoredUpdatedAt  time.Time // score_conflicts.stored_updated_at
	CreatedAt        time.Time // score_conflicts.created_at
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// ScoreConflictEvent is published when an incoming edit is rejected as
// stale.  It carries both sides of the disagreement so downstream
// consumers can log or alert without querying the primary database.
type ScoreConflictEvent struct {
	ConflictID       uint64 `json:"conflict_id"`
	TournamentID     uint64 `json:"tournament_id"`
	EntryID          uint64 `json:"entry_id"`
	Hole             int    `json:"hole"`
	RejectedStrokes  int    `json:"rejected_strokes"`
	RejectedClientAt string `json:"rejected_client_at"`
	RejectedBy       string `json:"rejected_by"`
	StoredStrokes    int    `json:"stored_strokes"`
	StoredUpdatedAt  string `json:"stored_updated_at"`
	CreatedAt        string `json:"created_at"`
}

// ScoreOverrideEvent is published when an operator force-resolves a
// conflict, replacing the stored value outside the timestamp check.
type ScoreOverrideEvent struct {
	TournamentID uint64 `json:"tournament_id"`
	EntryID      uint64 `json:"entry_id"`
	Hole         int    `json:"hole"`
	Strokes      int    `json:"strokes"`
	ResolvedBy   string `json:"resolved_by"`
	ResolvedAt   string `json:"resolved_at"`
}

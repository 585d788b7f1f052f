package model

import "time"

// Score bounds enforced at the HTTP boundary.  The engine assumes
// validated input (holes 1–18, strokes 1–15).
const (
	MinHole    = 1
	MaxHole    = 18
	MinStrokes = 1
	MaxStrokes = 15
)

// HoleScore is the stroke count for one entry on one hole.  The pair
// (EntryID, Hole) is unique; rows are only ever mutated through the
// reconciliation protocol.  UpdatedAt is the server time of the last
// accepted write and is the value incoming client timestamps are
// compared against; ClientUpdatedAt is the wall-clock time on the
// device that made the winning edit.
//
// Fields:
//  ID              – primary key identifier.
//  EntryID         – entry this score belongs to.
//  Hole            – hole number, 1–18.
//  Strokes         – gross strokes, 1–15.
//  RecordedBy      – device identifier of the last accepted writer.
//  ClientUpdatedAt – device wall-clock time of the winning edit.
//  UpdatedAt       – server time of the last accepted write.
type HoleScore struct {
	ID              uint64    // hole_scores.id
	EntryID         uint64    // hole_scores.entry_id
	Hole            int       // hole_scores.hole
	Strokes         int       // hole_scores.strokes
	RecordedBy      string    // hole_scores.recorded_by
	ClientUpdatedAt time.Time // hole_scores.client_updated_at
	UpdatedAt       time.Time // hole_scores.updated_at
}

// ValidHole reports whether h is a playable hole number.
func ValidHole(h int) bool { return h >= MinHole && h <= MaxHole }

// ValidStrokes reports whether s is an acceptable stroke count.
func ValidStrokes(s int) bool { return s >= MinStrokes && s <= MaxStrokes }

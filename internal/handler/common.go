// Package handler implements the HTTP boundary of the scoring engine:
// score submission, leaderboard/skins reads, conflict review and the
// handicap recompute.  Request validation happens here (hole numbers
// 1–18, strokes 1–15, money in integer cents) so the engine below can
// assume well-formed input.
package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylabs/scorecard-server/internal/model"
	"github.com/fairwaylabs/scorecard-server/internal/reconcile"
)

// Narrow read interfaces over the repository layer.  Handlers accept
// these instead of concrete repos so tests can drive them with
// in-memory fakes.

// TournamentStore looks up tournament configuration.
type TournamentStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Tournament, error)
}

// CourseStore looks up course data and hole tables.
type CourseStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Course, error)
	ListHoles(ctx context.Context, courseID uint64) ([]model.CourseHole, error)
}

// EntryStore looks up tournament entries and rewrites their computed
// handicap columns.
type EntryStore interface {
	GetByID(ctx context.Context, tournamentID, entryID uint64) (*model.Entry, error)
	ListByTournament(ctx context.Context, tournamentID uint64) ([]model.Entry, error)
	ListByGroup(ctx context.Context, tournamentID, groupID uint64) ([]model.Entry, error)
	PlayerIndex(ctx context.Context, playerID uint64) (float64, error)
	UpdateHandicaps(ctx context.Context, entryID uint64, courseHandicap, playingCH int) error
}

// ScoreReader reads recorded hole scores.
type ScoreReader interface {
	ListByEntry(ctx context.Context, entryID uint64) ([]model.HoleScore, error)
	ListByTournament(ctx context.Context, tournamentID uint64) (map[uint64]map[int]int, time.Time, error)
}

// Reconciler is the server side of the reconciliation protocol;
// reconcile.Service implements it.
type Reconciler interface {
	ApplyEdit(ctx context.Context, edit reconcile.Edit) (reconcile.Outcome, error)
	ListConflicts(ctx context.Context, tournamentID uint64) ([]model.ConflictRecord, error)
	ResolveConflict(ctx context.Context, tournamentID, conflictID uint64, action string, forceValue int) (*model.HoleScore, error)
	ClearConflicts(ctx context.Context, tournamentID uint64) error
}

// errBadParam is returned by the param helpers when a path parameter is
// missing or not a positive integer; callers translate it into a 400.
var errBadParam = errors.New("invalid path parameter")

// tournamentIDParam parses the :id path parameter.
func tournamentIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errBadParam
	}
	return id, nil
}

// uintParam parses an arbitrary positive integer path parameter.
func uintParam(c echo.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errBadParam
	}
	return v, nil
}

// scoreJSON is the wire shape of one stored hole score.
type scoreJSON struct {
	EntryID         uint64    `json:"entryId"`
	Hole            int       `json:"hole"`
	Strokes         int       `json:"strokes"`
	RecordedBy      string    `json:"recordedBy"`
	ClientUpdatedAt time.Time `json:"clientUpdatedAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toScoreJSON(s *model.HoleScore) scoreJSON {
	return scoreJSON{
		EntryID:         s.EntryID,
		Hole:            s.Hole,
		Strokes:         s.Strokes,
		RecordedBy:      s.RecordedBy,
		ClientUpdatedAt: s.ClientUpdatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// conflictJSON is the wire shape of one pending conflict.
type conflictJSON struct {
	ID               uint64    `json:"id"`
	EntryID          uint64    `json:"entryId"`
	Hole             int       `json:"hole"`
	RejectedStrokes  int       `json:"rejectedStrokes"`
	RejectedClientAt time.Time `json:"rejectedClientAt"`
	RejectedBy       string    `json:"rejectedBy"`
	StoredStrokes    int       `json:"storedStrokes"`
	StoredUpdatedAt  time.Time `json:"storedUpdatedAt"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toConflictJSON(rec model.ConflictRecord) conflictJSON {
	return conflictJSON{
		ID:               rec.ID,
		EntryID:          rec.EntryID,
		Hole:             rec.Hole,
		RejectedStrokes:  rec.RejectedStrokes,
		RejectedClientAt: rec.RejectedClientAt,
		RejectedBy:       rec.RejectedBy,
		StoredStrokes:    rec.StoredStrokes,
		StoredUpdatedAt:  rec.StoredUpdatedAt,
		CreatedAt:        rec.CreatedAt,
	}
}

// Package reconcile implements the server side of the score
// reconciliation protocol: a last-write-wins merge of hole-score edits
// arriving out of order from multiple scorekeeper devices.  An edit
// whose client timestamp is not strictly newer than the stored row's
// server write time is rejected as stale and surfaced as a
// ConflictRecord for operator review; it is never applied and never
// silently dropped.
package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// Status is the terminal outcome of one submitted edit.  Both values
// are terminal for the submitting client: an accepted edit is stored,
// a stale edit is resolved (against the submitter) and queued for
// operator review.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusStale    Status = "stale"
)

// Resolution actions an operator can take on a pending conflict.
const (
	ActionApplyServer = "apply-server"
	ActionForceLocal  = "force-local"
)

var (
	// ErrConflictNotFound is returned when a resolution targets a
	// conflict that does not exist or was already cleared.
	ErrConflictNotFound = errors.New("conflict not found")
	// ErrInvalidForceValue is returned when force-local is attempted
	// with a stroke count outside 1–15.  The stored score is left
	// untouched.
	ErrInvalidForceValue = errors.New("force value out of range")
	// ErrUnknownAction is returned for resolution actions other than
	// apply-server and force-local.
	ErrUnknownAction = errors.New("unknown resolution action")
)

// Edit is one incoming hole-score edit.  Hole and Strokes are assumed
// to have been range-checked at the HTTP boundary.
type Edit struct {
	TournamentID    uint64
	EntryID         uint64
	Hole            int
	Strokes         int
	DeviceID        string
	ClientUpdatedAt time.Time
}

// Outcome reports what happened to an edit.  Score is the stored row
// after the operation (the new row when accepted, the untouched stored
// row when stale); Conflict is set only on a stale rejection.
type Outcome struct {
	Status   Status
	Score    *model.HoleScore
	Conflict *model.ConflictRecord
}

// Store is the persistence surface the merge runs over.  The Service
// serializes all access to a given (entryID, hole) key, so
// implementations only need plain reads and writes; they do not need
// their own compare-and-swap.
type Store interface {
	// GetScore returns the stored score for a key, or nil when no row
	// exists yet.
	GetScore(ctx context.Context, entryID uint64, hole int) (*model.HoleScore, error)
	// PutScore creates or overwrites the row for a key, setting
	// UpdatedAt to now, and returns the stored row.
	PutScore(ctx context.Context, entryID uint64, hole, strokes int, deviceID string, clientAt, now time.Time) (*model.HoleScore, error)
	// AddConflict persists a rejection for operator review and returns
	// it with its assigned ID.
	AddConflict(ctx context.Context, rec model.ConflictRecord) (*model.ConflictRecord, error)
	// GetConflict returns a pending conflict by ID, or nil when absent.
	GetConflict(ctx context.Context, tournamentID, conflictID uint64) (*model.ConflictRecord, error)
	// ListConflicts returns all pending conflicts for a tournament,
	// oldest first.
	ListConflicts(ctx context.Context, tournamentID uint64) ([]model.ConflictRecord, error)
	// DeleteConflict removes one pending conflict.
	DeleteConflict(ctx context.Context, tournamentID, conflictID uint64) error
	// ClearConflicts removes every pending conflict for a tournament.
	ClearConflicts(ctx context.Context, tournamentID uint64) error
}

// Service applies the reconciliation protocol over a Store.  Each
// (entryID, hole) key is an independent conflict domain; the service
// holds a per-key mutex across the read-compare-write so concurrent
// edits to the same key cannot interleave.  Edits to different keys
// never contend.
type Service struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[scoreKey]*sync.Mutex
}

type scoreKey struct {
	entryID uint64
	hole    int
}

// NewService builds a Service over the given store.  The now function
// is the server clock; pass nil for time.Now.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: store,
		now:   now,
		locks: make(map[scoreKey]*sync.Mutex),
	}
}

// keyLock returns the mutex guarding one (entryID, hole) key, creating
// it on first use.
func (s *Service) keyLock(entryID uint64, hole int) *sync.Mutex {
	k := scoreKey{entryID: entryID, hole: hole}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[k]
	if !ok {
		l = &sync.Mutex{}
		s.locks[k] = l
	}
	return l
}

// ApplyEdit runs the last-write-wins merge for one edit:
//
//   - no stored row: accept unconditionally.
//   - stored row exists: accept only when the edit's client timestamp
//     is strictly greater than the stored row's UpdatedAt, the server
//     time of the last accepted write, not the stored client time.
//   - otherwise reject as stale, leave the stored row untouched, and
//     record a ConflictRecord carrying both sides.
//
// Both outcomes are returned with a nil error; a non-nil error means
// the store failed and nothing can be said about the edit.
func (s *Service) ApplyEdit(ctx context.Context, edit Edit) (Outcome, error) {
	l := s.keyLock(edit.EntryID, edit.Hole)
	l.Lock()
	defer l.Unlock()

	stored, err := s.store.GetScore(ctx, edit.EntryID, edit.Hole)
	if err != nil {
		return Outcome{}, err
	}

	if stored != nil && !edit.ClientUpdatedAt.After(stored.UpdatedAt) {
		rec, err := s.store.AddConflict(ctx, model.ConflictRecord{
			TournamentID:     edit.TournamentID,
			EntryID:          edit.EntryID,
			Hole:             edit.Hole,
			RejectedStrokes:  edit.Strokes,
			RejectedClientAt: edit.ClientUpdatedAt,
			RejectedBy:       edit.DeviceID,
			StoredStrokes:    stored.Strokes,
			StoredUpdatedAt:  stored.UpdatedAt,
			CreatedAt:        s.now(),
		})
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: StatusStale, Score: stored, Conflict: rec}, nil
	}

	score, err := s.store.PutScore(ctx, edit.EntryID, edit.Hole, edit.Strokes, edit.DeviceID, edit.ClientUpdatedAt, s.now())
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: StatusAccepted, Score: score}, nil
}

// ListConflicts returns the pending review queue for a tournament.
func (s *Service) ListConflicts(ctx context.Context, tournamentID uint64) ([]model.ConflictRecord, error) {
	return s.store.ListConflicts(ctx, tournamentID)
}

// ResolveConflict settles one pending conflict.  apply-server keeps
// the stored value and just dismisses the record; force-local
// overwrites the stored score with the operator's chosen stroke count,
// bypassing the timestamp check.  An out-of-range force value is
// rejected before anything is mutated.  The resolved score is returned
// for force-local, nil for apply-server.
func (s *Service) ResolveConflict(ctx context.Context, tournamentID, conflictID uint64, action string, forceValue int) (*model.HoleScore, error) {
	rec, err := s.store.GetConflict(ctx, tournamentID, conflictID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrConflictNotFound
	}

	switch action {
	case ActionApplyServer:
		return nil, s.store.DeleteConflict(ctx, tournamentID, conflictID)
	case ActionForceLocal:
		if !model.ValidStrokes(forceValue) {
			return nil, ErrInvalidForceValue
		}
		l := s.keyLock(rec.EntryID, rec.Hole)
		l.Lock()
		defer l.Unlock()
		now := s.now()
		score, err := s.store.PutScore(ctx, rec.EntryID, rec.Hole, forceValue, rec.RejectedBy, now, now)
		if err != nil {
			return nil, err
		}
		if err := s.store.DeleteConflict(ctx, tournamentID, conflictID); err != nil {
			return nil, err
		}
		return score, nil
	default:
		return nil, ErrUnknownAction
	}
}

// ClearConflicts empties a tournament's review queue without touching
// any stored score.
func (s *Service) ClearConflicts(ctx context.Context, tournamentID uint64) error {
	return s.store.ClearConflicts(ctx, tournamentID)
}

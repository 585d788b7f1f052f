package handler

import (
	"context"
	"sort"
	"time"

	"github.com/fairwaylabs/scorecard-server/internal/model"
	"github.com/fairwaylabs/scorecard-server/internal/reconcile"
	"github.com/fairwaylabs/scorecard-server/internal/repository"
)

// In-memory fakes for the handler dependency interfaces.  They hold
// fixture data directly; tests mutate the fields instead of stubbing
// per-call expectations.

type fakeTournaments struct {
	tournament *model.Tournament
}

func (f *fakeTournaments) GetByID(_ context.Context, id uint64) (*model.Tournament, error) {
	if f.tournament == nil || f.tournament.ID != id {
		return nil, repository.ErrTournamentNotFound
	}
	t := *f.tournament
	return &t, nil
}

type fakeCourses struct {
	course *model.Course
	holes  []model.CourseHole
}

func (f *fakeCourses) GetByID(_ context.Context, id uint64) (*model.Course, error) {
	if f.course == nil || f.course.ID != id {
		return nil, repository.ErrCourseNotFound
	}
	c := *f.course
	return &c, nil
}

func (f *fakeCourses) ListHoles(_ context.Context, _ uint64) ([]model.CourseHole, error) {
	return f.holes, nil
}

type handicapUpdate struct {
	courseHandicap int
	playingCH      int
}

type fakeEntries struct {
	entries map[uint64]model.Entry
	indexes map[uint64]float64
	updated map[uint64]handicapUpdate
}

func newFakeEntries(entries ...model.Entry) *fakeEntries {
	f := &fakeEntries{
		entries: make(map[uint64]model.Entry),
		indexes: make(map[uint64]float64),
		updated: make(map[uint64]handicapUpdate),
	}
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return f
}

func (f *fakeEntries) GetByID(_ context.Context, tournamentID, entryID uint64) (*model.Entry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.TournamentID != tournamentID {
		return nil, repository.ErrEntryNotFound
	}
	return &e, nil
}

func (f *fakeEntries) ListByTournament(_ context.Context, tournamentID uint64) ([]model.Entry, error) {
	return f.list(func(e model.Entry) bool { return e.TournamentID == tournamentID }), nil
}

func (f *fakeEntries) ListByGroup(_ context.Context, tournamentID, groupID uint64) ([]model.Entry, error) {
	return f.list(func(e model.Entry) bool {
		return e.TournamentID == tournamentID && e.GroupID != nil && *e.GroupID == groupID
	}), nil
}

func (f *fakeEntries) list(keep func(model.Entry) bool) []model.Entry {
	out := make([]model.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeEntries) PlayerIndex(_ context.Context, playerID uint64) (float64, error) {
	return f.indexes[playerID], nil
}

func (f *fakeEntries) UpdateHandicaps(_ context.Context, entryID uint64, courseHandicap, playingCH int) error {
	f.updated[entryID] = handicapUpdate{courseHandicap: courseHandicap, playingCH: playingCH}
	return nil
}

type fakeScores struct {
	byEntry   map[uint64][]model.HoleScore
	updatedAt time.Time
}

func (f *fakeScores) ListByEntry(_ context.Context, entryID uint64) ([]model.HoleScore, error) {
	return f.byEntry[entryID], nil
}

func (f *fakeScores) ListByTournament(_ context.Context, _ uint64) (map[uint64]map[int]int, time.Time, error) {
	out := make(map[uint64]map[int]int, len(f.byEntry))
	for entryID, scores := range f.byEntry {
		m := make(map[int]int, len(scores))
		for _, s := range scores {
			m[s.Hole] = s.Strokes
		}
		out[entryID] = m
	}
	return out, f.updatedAt, nil
}

// fakeEngine scripts the reconcile engine.  apply and resolve are
// invoked per call when set; otherwise edits are accepted verbatim.
type fakeEngine struct {
	apply   func(reconcile.Edit) (reconcile.Outcome, error)
	resolve func(conflictID uint64, action string, forceValue int) (*model.HoleScore, error)

	edits     []reconcile.Edit
	conflicts []model.ConflictRecord
	cleared   bool
}

func (f *fakeEngine) ApplyEdit(_ context.Context, edit reconcile.Edit) (reconcile.Outcome, error) {
	f.edits = append(f.edits, edit)
	if f.apply != nil {
		return f.apply(edit)
	}
	return reconcile.Outcome{
		Status: reconcile.StatusAccepted,
		Score: &model.HoleScore{
			EntryID:         edit.EntryID,
			Hole:            edit.Hole,
			Strokes:         edit.Strokes,
			RecordedBy:      edit.DeviceID,
			ClientUpdatedAt: edit.ClientUpdatedAt,
			UpdatedAt:       edit.ClientUpdatedAt,
		},
	}, nil
}

func (f *fakeEngine) ListConflicts(_ context.Context, _ uint64) ([]model.ConflictRecord, error) {
	return f.conflicts, nil
}

func (f *fakeEngine) ResolveConflict(_ context.Context, _, conflictID uint64, action string, forceValue int) (*model.HoleScore, error) {
	if f.resolve != nil {
		return f.resolve(conflictID, action, forceValue)
	}
	return nil, reconcile.ErrConflictNotFound
}

func (f *fakeEngine) ClearConflicts(_ context.Context, _ uint64) error {
	f.cleared = true
	return nil
}

package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// memStore is an in-memory Store used by the tests.  It mimics the
// MySQL repository's behavior (auto-incremented IDs, copies on read)
// without needing a database.
type memStore struct {
	mu        sync.Mutex
	scores    map[scoreKey]model.HoleScore
	conflicts map[uint64]model.ConflictRecord
	nextID    uint64
}

func newMemStore() *memStore {
	return &memStore{
		scores:    make(map[scoreKey]model.HoleScore),
		conflicts: make(map[uint64]model.ConflictRecord),
		nextID:    1,
	}
}

func (m *memStore) GetScore(_ context.Context, entryID uint64, hole int) (*model.HoleScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scores[scoreKey{entryID, hole}]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

func (m *memStore) PutScore(_ context.Context, entryID uint64, hole, strokes int, deviceID string, clientAt, now time.Time) (*model.HoleScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := scoreKey{entryID, hole}
	s, ok := m.scores[k]
	if !ok {
		s = model.HoleScore{ID: m.nextID, EntryID: entryID, Hole: hole}
		m.nextID++
	}
	s.Strokes = strokes
	s.RecordedBy = deviceID
	s.ClientUpdatedAt = clientAt
	s.UpdatedAt = now
	m.scores[k] = s
	cp := s
	return &cp, nil
}

func (m *memStore) AddConflict(_ context.Context, rec model.ConflictRecord) (*model.ConflictRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.nextID
	m.nextID++
	m.conflicts[rec.ID] = rec
	cp := rec
	return &cp, nil
}

func (m *memStore) GetConflict(_ context.Context, tournamentID, conflictID uint64) (*model.ConflictRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.conflicts[conflictID]
	if !ok || rec.TournamentID != tournamentID {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (m *memStore) ListConflicts(_ context.Context, tournamentID uint64) ([]model.ConflictRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ConflictRecord, 0, len(m.conflicts))
	for _, rec := range m.conflicts {
		if rec.TournamentID == tournamentID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeleteConflict(_ context.Context, tournamentID, conflictID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.conflicts[conflictID]
	if ok && rec.TournamentID == tournamentID {
		delete(m.conflicts, conflictID)
	}
	return nil
}

func (m *memStore) ClearConflicts(_ context.Context, tournamentID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rec := range m.conflicts {
		if rec.TournamentID == tournamentID {
			delete(m.conflicts, id)
		}
	}
	return nil
}

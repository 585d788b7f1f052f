package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, time.June, 6, 9, 0, 0, 0, time.UTC)

// fixedClock returns a clock that advances one second per call, so
// every accepted write gets a distinct, increasing server time.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func edit(entryID uint64, hole, strokes int, device string, clientAt time.Time) Edit {
	return Edit{
		TournamentID:    7,
		EntryID:         entryID,
		Hole:            hole,
		Strokes:         strokes,
		DeviceID:        device,
		ClientUpdatedAt: clientAt,
	}
}

func TestApplyEditCreatesAbsentRow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	out, err := svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base))
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
	require.NotNil(t, out.Score)
	assert.Equal(t, 5, out.Score.Strokes)
	assert.Equal(t, "dev-a", out.Score.RecordedBy)
	assert.Nil(t, out.Conflict)
}

func TestApplyEditNewerClientTimeWins(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	_, err := svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base))
	require.NoError(t, err)

	// The second edit's client time is after the stored row's server
	// UpdatedAt (base+1s), so it overwrites.
	out, err := svc.ApplyEdit(ctx, edit(1, 4, 4, "dev-b", base.Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
	assert.Equal(t, 4, out.Score.Strokes)
	assert.Equal(t, "dev-b", out.Score.RecordedBy)

	stored, err := store.GetScore(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Strokes)
}

func TestApplyEditStaleIsRejectedWithConflict(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	_, err := svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base.Add(time.Hour)))
	require.NoError(t, err)

	// Client time earlier than the stored UpdatedAt: rejected, stored
	// value untouched, exactly one conflict queued.
	out, err := svc.ApplyEdit(ctx, edit(1, 4, 9, "dev-b", base))
	require.NoError(t, err)
	assert.Equal(t, StatusStale, out.Status)
	require.NotNil(t, out.Conflict)
	assert.Equal(t, 9, out.Conflict.RejectedStrokes)
	assert.Equal(t, "dev-b", out.Conflict.RejectedBy)
	assert.Equal(t, 5, out.Conflict.StoredStrokes)
	assert.Equal(t, 5, out.Score.Strokes, "stale outcome carries the surviving stored row")

	stored, err := store.GetScore(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Strokes)
	assert.Equal(t, "dev-a", stored.RecordedBy)

	conflicts, err := svc.ListConflicts(ctx, 7)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
}

func TestApplyEditEqualTimestampIsStale(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	clock := fixedClock(base)
	svc := NewService(store, clock)

	first, err := svc.ApplyEdit(ctx, edit(1, 9, 4, "dev-a", base))
	require.NoError(t, err)

	// Not strictly greater than the stored UpdatedAt: stale.
	out, err := svc.ApplyEdit(ctx, edit(1, 9, 3, "dev-b", first.Score.UpdatedAt))
	require.NoError(t, err)
	assert.Equal(t, StatusStale, out.Status)
}

func TestApplyEditIndependentKeysDoNotInteract(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	_, err := svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base.Add(time.Hour)))
	require.NoError(t, err)

	// Same entry, different hole: the old client time is irrelevant.
	out, err := svc.ApplyEdit(ctx, edit(1, 5, 4, "dev-b", base))
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)

	// Different entry, same hole likewise.
	out, err = svc.ApplyEdit(ctx, edit(2, 4, 6, "dev-b", base))
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
}

func TestApplyEditConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	// Seed the row, then race many edits with client times in the
	// past.  Every one must resolve to a terminal outcome and the
	// stored value must survive untouched.
	_, err := svc.ApplyEdit(ctx, edit(1, 1, 4, "seed", base.Add(24*time.Hour)))
	require.NoError(t, err)

	const n = 32
	var wg sync.WaitGroup
	outcomes := make([]Status, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := svc.ApplyEdit(ctx, edit(1, 1, 9, "racer", base.Add(time.Duration(i)*time.Millisecond)))
			if err != nil {
				t.Error(err)
				return
			}
			outcomes[i] = out.Status
		}(i)
	}
	wg.Wait()

	for i, st := range outcomes {
		assert.Equal(t, StatusStale, st, "edit %d", i)
	}
	stored, err := store.GetScore(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Strokes)

	conflicts, err := svc.ListConflicts(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, conflicts, n, "every stale edit leaves exactly one conflict")
}

func TestResolveConflictApplyServer(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	_, err := svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base.Add(time.Hour)))
	require.NoError(t, err)
	out, err := svc.ApplyEdit(ctx, edit(1, 4, 9, "dev-b", base))
	require.NoError(t, err)
	require.NotNil(t, out.Conflict)

	score, err := svc.ResolveConflict(ctx, 7, out.Conflict.ID, ActionApplyServer, 0)
	require.NoError(t, err)
	assert.Nil(t, score, "apply-server is a dismissal, not a write")

	stored, err := store.GetScore(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Strokes)

	conflicts, err := svc.ListConflicts(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestResolveConflictForceLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	_, err := svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base.Add(time.Hour)))
	require.NoError(t, err)
	out, err := svc.ApplyEdit(ctx, edit(1, 4, 9, "dev-b", base))
	require.NoError(t, err)
	require.NotNil(t, out.Conflict)

	score, err := svc.ResolveConflict(ctx, 7, out.Conflict.ID, ActionForceLocal, 9)
	require.NoError(t, err)
	require.NotNil(t, score)
	assert.Equal(t, 9, score.Strokes)

	// Re-fetch reflects the forced value; the conflict is gone.
	stored, err := store.GetScore(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 9, stored.Strokes)

	conflicts, err := svc.ListConflicts(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestResolveConflictForceLocalValidatesRange(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	_, err := svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base.Add(time.Hour)))
	require.NoError(t, err)
	out, err := svc.ApplyEdit(ctx, edit(1, 4, 9, "dev-b", base))
	require.NoError(t, err)

	for _, bad := range []int{0, -1, 16, 99} {
		_, err := svc.ResolveConflict(ctx, 7, out.Conflict.ID, ActionForceLocal, bad)
		assert.ErrorIs(t, err, ErrInvalidForceValue)
	}

	// Nothing was mutated and the conflict is still pending.
	stored, err := store.GetScore(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Strokes)
	conflicts, err := svc.ListConflicts(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
}

func TestResolveConflictErrors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	_, err := svc.ResolveConflict(ctx, 7, 12345, ActionApplyServer, 0)
	assert.ErrorIs(t, err, ErrConflictNotFound)

	_, err = svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base.Add(time.Hour)))
	require.NoError(t, err)
	out, err := svc.ApplyEdit(ctx, edit(1, 4, 9, "dev-b", base))
	require.NoError(t, err)

	_, err = svc.ResolveConflict(ctx, 7, out.Conflict.ID, "merge", 0)
	assert.ErrorIs(t, err, ErrUnknownAction)

	// Wrong tournament cannot see the conflict.
	_, err = svc.ResolveConflict(ctx, 8, out.Conflict.ID, ActionApplyServer, 0)
	assert.ErrorIs(t, err, ErrConflictNotFound)
}

func TestClearConflicts(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, fixedClock(base))

	_, err := svc.ApplyEdit(ctx, edit(1, 4, 5, "dev-a", base.Add(time.Hour)))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := svc.ApplyEdit(ctx, edit(1, 4, 9, "dev-b", base))
		require.NoError(t, err)
	}
	conflicts, err := svc.ListConflicts(ctx, 7)
	require.NoError(t, err)
	require.Len(t, conflicts, 3)

	require.NoError(t, svc.ClearConflicts(ctx, 7))
	conflicts, err = svc.ListConflicts(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	// Clearing never touches stored scores.
	stored, err := store.GetScore(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Strokes)
}

package syncqueue

import (
	"context"
	"log"
	"sync"
	"time"
)

// SubmitStatus is the server's terminal verdict on one edit.
type SubmitStatus string

const (
	// SubmitAccepted means the server stored the edit.
	SubmitAccepted SubmitStatus = "accepted"
	// SubmitStale means the server rejected the edit as older than
	// its stored value.  Stale is still terminal for the queue (the
	// edit is resolved, just not applied) and the device's local
	// view of that score can no longer be trusted until it refetches.
	SubmitStale SubmitStatus = "stale"
)

// Submitter sends one edit to the server.  A non-nil error means the
// send itself failed (network loss, server unreachable) and the edit
// must stay queued; a returned status is terminal.
type Submitter interface {
	Submit(ctx context.Context, edit PendingEdit) (SubmitStatus, error)
}

// ResyncFunc is invoked after a stale rejection so the device can
// refetch and replace its local view of the affected entry's scores
// instead of trusting the optimistic state indefinitely.
type ResyncFunc func(ctx context.Context, edit PendingEdit)

// State is a snapshot of the flusher for UI display.
type State struct {
	Online   bool
	Flushing bool
	Pending  int
	LastErr  error
}

// Flusher drains the queue to the server.  It is the single writer
// over the queue cursor: flush passes run one at a time on one
// goroutine, triggered by coming online, by a periodic timer while
// edits are pending, or by a new edit queued while online.
type Flusher struct {
	queue     *Queue
	submitter Submitter
	resync    ResyncFunc
	interval  time.Duration

	kick chan struct{}

	mu       sync.Mutex
	online   bool
	flushing bool
	lastErr  error
}

// NewFlusher builds a Flusher over the queue.  interval is the
// periodic retry cadence while edits are pending; resync may be nil
// when the device has no local view to repair.
func NewFlusher(queue *Queue, submitter Submitter, interval time.Duration, resync ResyncFunc) *Flusher {
	return &Flusher{
		queue:     queue,
		submitter: submitter,
		resync:    resync,
		interval:  interval,
		kick:      make(chan struct{}, 1),
		online:    true,
	}
}

// SetOnline records a connectivity transition.  Coming online triggers
// an immediate flush pass.
func (f *Flusher) SetOnline(online bool) {
	f.mu.Lock()
	was := f.online
	f.online = online
	f.mu.Unlock()
	if online && !was {
		f.Kick()
	}
}

// Kick requests a flush pass.  Called after enqueueing a new edit
// while online; cheap and non-blocking, extra kicks coalesce.
func (f *Flusher) Kick() {
	select {
	case f.kick <- struct{}{}:
	default:
	}
}

// State returns a snapshot for the UI, including whether a flush pass
// is currently running so callers can avoid issuing a second one.
func (f *Flusher) State(ctx context.Context) State {
	pending, err := f.queue.PendingCount(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	st := State{Online: f.online, Flushing: f.flushing, Pending: pending, LastErr: f.lastErr}
	if err != nil && st.LastErr == nil {
		st.LastErr = err
	}
	return st
}

// Run is the flush loop.  It blocks until ctx is cancelled.  There is
// deliberately exactly one of these per device; the loop itself is the
// serialization point for cursor advances.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.kick:
		case <-ticker.C:
		}
		f.flushOnce(ctx)
	}
}

// flushOnce drains the queue in order until it is empty, the device is
// offline, or a send fails.  The cursor advances only after the server
// returns a terminal outcome, so an edit whose acknowledgement was
// lost is re-sent on the next pass rather than dropped.
func (f *Flusher) flushOnce(ctx context.Context) {
	f.mu.Lock()
	if !f.online || f.flushing {
		f.mu.Unlock()
		return
	}
	f.flushing = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.flushing = false
		f.mu.Unlock()
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		edits, err := f.queue.Pending(ctx, 1)
		if err != nil {
			f.setErr(err)
			log.Printf("flusher: read queue: %v", err)
			return
		}
		if len(edits) == 0 {
			f.setErr(nil)
			return
		}
		edit := edits[0]

		status, err := f.submitter.Submit(ctx, edit)
		if err != nil {
			// Network failure: the edit stays queued exactly as it
			// was; the next trigger retries it.
			f.setErr(err)
			log.Printf("flusher: submit edit %s: %v", edit.EditID, err)
			return
		}

		if err := f.queue.Advance(ctx, edit.Seq); err != nil {
			f.setErr(err)
			log.Printf("flusher: advance cursor: %v", err)
			return
		}
		f.setErr(nil)

		if status == SubmitStale {
			log.Printf("flusher: edit %s rejected as stale (entry %d hole %d)", edit.EditID, edit.EntryID, edit.Hole)
			if f.resync != nil {
				f.resync(ctx, edit)
			}
		}
	}
}

func (f *Flusher) setErr(err error) {
	f.mu.Lock()
	f.lastErr = err
	f.mu.Unlock()
}

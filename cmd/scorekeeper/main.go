// Command scorekeeper is the on-course companion used to test the
// offline sync path end to end.  It keeps a durable local queue of
// hole-score edits in SQLite and flushes them to the server in
// recorded order whenever connectivity allows, exactly as the mobile
// scorekeeper app does.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/fairwaylabs/scorecard-server/internal/model"
	"github.com/fairwaylabs/scorecard-server/internal/syncqueue"
)

func main() {
	_ = godotenv.Load()

	var (
		server   = flag.String("server", envOr("SCOREKEEPER_SERVER", "http://localhost:8080"), "base URL of the scoring server")
		deviceID = flag.String("device", envOr("SCOREKEEPER_DEVICE_ID", ""), "stable device identifier (generated when empty)")
		dbPath   = flag.String("queue", envOr("SCOREKEEPER_QUEUE", "scorekeeper.db"), "path of the local queue database")
		interval = flag.Duration("interval", 15*time.Second, "background flush interval")
	)
	flag.Parse()

	if *deviceID == "" {
		*deviceID = uuid.NewString()
		log.Printf("generated device id %s (pass -device to keep a stable identity)", *deviceID)
	}

	q, err := syncqueue.Open(*dbPath)
	if err != nil {
		log.Fatalf("open queue: %v", err)
	}
	defer q.Close()

	switch flag.Arg(0) {
	case "enqueue":
		runEnqueue(q, flag.Args()[1:])
	case "sync":
		runSync(q, *dbPath, *server, *deviceID, *interval)
	case "status":
		runStatus(q)
	default:
		fmt.Fprintln(os.Stderr, "usage: scorekeeper [flags] enqueue|sync|status")
		os.Exit(2)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// runEnqueue records one hole score into the local queue.  The edit is
// timestamped now; it will carry that timestamp to the server whenever
// the queue next flushes, however long the device stays offline.
func runEnqueue(q *syncqueue.Queue, args []string) {
	fs := flag.NewFlagSet("enqueue", flag.ExitOnError)
	tournament := fs.Uint64("tournament", 0, "tournament id")
	entry := fs.Uint64("entry", 0, "entry id")
	hole := fs.Int("hole", 0, "hole number, 1-18")
	strokes := fs.Int("strokes", 0, "gross strokes, 1-15")
	_ = fs.Parse(args)

	if *tournament == 0 || *entry == 0 {
		log.Fatal("enqueue: -tournament and -entry are required")
	}
	if !model.ValidHole(*hole) {
		log.Fatalf("enqueue: hole %d out of range 1-18", *hole)
	}
	if !model.ValidStrokes(*strokes) {
		log.Fatalf("enqueue: strokes %d out of range 1-15", *strokes)
	}

	edit, err := q.Enqueue(context.Background(), *tournament, *entry, *hole, *strokes, time.Now().UTC())
	if err != nil {
		log.Fatalf("enqueue: %v", err)
	}
	log.Printf("queued edit %s: entry %d hole %d strokes %d (seq %d)",
		edit.EditID, edit.EntryID, edit.Hole, edit.Strokes, edit.Seq)
}

// runSync drains the queue against the server until interrupted.  A
// stale rejection is terminal for that edit; the resync callback then
// pulls the authoritative card so the operator can see what survived.
func runSync(q *syncqueue.Queue, dbPath, server, deviceID string, interval time.Duration) {
	submitter := syncqueue.NewHTTPSubmitter(server, deviceID)

	resync := func(ctx context.Context, edit syncqueue.PendingEdit) {
		scores, err := submitter.FetchEntryScores(ctx, edit.TournamentID, edit.EntryID)
		if err != nil {
			log.Printf("resync entry %d: %v", edit.EntryID, err)
			return
		}
		holes := make([]int, 0, len(scores))
		for h := range scores {
			holes = append(holes, h)
		}
		sort.Ints(holes)
		log.Printf("entry %d authoritative card after stale edit on hole %d:", edit.EntryID, edit.Hole)
		for _, h := range holes {
			log.Printf("  hole %2d: %d", h, scores[h])
		}
	}

	f := syncqueue.NewFlusher(q, submitter, interval, resync)
	f.SetOnline(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("syncing queue %s to %s as device %s", dbPath, server, deviceID)
	f.Run(ctx)

	st := f.State(context.Background())
	log.Printf("stopped: %d edits still pending", st.Pending)
}

// runStatus prints how many edits are waiting to be flushed.
func runStatus(q *syncqueue.Queue) {
	n, err := q.PendingCount(context.Background())
	if err != nil {
		log.Fatalf("status: %v", err)
	}
	fmt.Printf("%d pending edits\n", n)
}

package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/fairwaylabs/scorecard-server/internal/config"                  // Internal config loader
	"github.com/fairwaylabs/scorecard-server/internal/database"                // MySQL connection pool
	"github.com/fairwaylabs/scorecard-server/internal/handler"                 // HTTP handlers
	"github.com/fairwaylabs/scorecard-server/internal/queue"                   // RabbitMQ audit consumer
	"github.com/fairwaylabs/scorecard-server/internal/reconcile"               // Last-write-wins merge engine
	"github.com/fairwaylabs/scorecard-server/internal/repository"              // Data access layer
	"github.com/fairwaylabs/scorecard-server/internal/router"                  // Route registration
	queue_publisher "github.com/fairwaylabs/scorecard-server/internal/service" // RabbitMQ event publisher
)

func main() {
	if err := godotenv.Load(); err != nil { // Load .env when present
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; cache and rate limit pass through

	// Repositories over the shared pool.  ScoreRepo doubles as the
	// reconcile engine's store.
	tournaments := repository.NewTournamentRepo(db)
	courses := repository.NewCourseRepo(db)
	entries := repository.NewEntryRepo(db)
	scores := repository.NewScoreRepo(db)

	engine := reconcile.NewService(scores, nil)

	scoreHandler := handler.NewScoreHandler(tournaments, entries, scores, engine)
	scoreHandler.PublishConflict = queue_publisher.PublishScoreConflict
	boardHandler := handler.NewLeaderboardHandler(tournaments, courses, entries, scores)
	conflictHandler := handler.NewConflictHandler(tournaments, engine)
	conflictHandler.PublishOverride = queue_publisher.PublishScoreOverride
	handicapHandler := handler.NewHandicapHandler(tournaments, courses, entries)

	// Audit consumer drains conflict and override events into the
	// audit log.  It maintains its own connection and retries, so a
	// broker outage never blocks score ingestion.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterTournament(e, scoreHandler, boardHandler, conflictHandler, handicapHandler, rdb, cfg.DeviceTokenSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

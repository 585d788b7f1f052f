// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/fairwaylabs/scorecard-server/internal/config"
	"github.com/fairwaylabs/scorecard-server/internal/handler"
	"github.com/fairwaylabs/scorecard-server/internal/middleware"
)

// RegisterRoutes registers routes that live outside any tournament.
// Currently it exposes only a health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterTournament registers the tournament scoring API under
// /v1/tournaments/:id.  Every route runs the device identity
// middleware so writes are attributed to a scorekeeper device.  Write
// routes additionally pass the Redis token bucket, and read routes the
// Redis response cache; both degrade to pass-through when rdb is nil.
func RegisterTournament(e *echo.Echo, scores *handler.ScoreHandler, boards *handler.LeaderboardHandler, conflicts *handler.ConflictHandler, handicaps *handler.HandicapHandler, rdb *redis.Client, deviceSecret string) {
	g := e.Group("/v1/tournaments/:id")
	g.Use(middleware.DeviceIdentity(deviceSecret))

	// Write path: score edits, conflict resolution and the handicap
	// recompute.  Rate limited per device so one misbehaving
	// scorekeeper cannot starve the rest of the field.
	writes := g.Group("")
	writes.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	writes.POST("/scores", scores.SubmitScore)
	writes.POST("/scores/batch", scores.SubmitScoreBatch)
	writes.POST("/conflicts/:conflictId/resolve", conflicts.ResolveConflict)
	writes.DELETE("/conflicts", conflicts.ClearConflicts)
	writes.POST("/handicaps/recompute", handicaps.RecomputeHandicaps)

	// Read path: device resync fetches plus the spectator-facing
	// leaderboard and skins views.  Cached briefly in Redis; the TTL
	// is short enough that boards stay live during play.
	reads := g.Group("")
	reads.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	reads.GET("/scores", scores.GetEntryScores)
	reads.GET("/groups/:groupId/scores", scores.GetGroupScores)
	reads.GET("/leaderboards", boards.GetLeaderboards)
	reads.GET("/skins", boards.GetSkins)
	reads.GET("/conflicts", conflicts.ListConflicts)
}

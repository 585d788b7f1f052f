package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylabs/scorecard-server/internal/model"
	"github.com/fairwaylabs/scorecard-server/internal/repository"
	"github.com/fairwaylabs/scorecard-server/internal/scoring"
)

// LeaderboardHandler serves the computed gross and net standings and
// the skins game summary.  Standings are recomputed from stored scores
// on every request; the Redis response cache in front of these routes
// keeps that cheap under spectator load.
type LeaderboardHandler struct {
	Tournaments TournamentStore
	Courses     CourseStore
	Entries     EntryStore
	Scores      ScoreReader
}

// NewLeaderboardHandler constructs a LeaderboardHandler.  All
// dependencies must be non-nil.
func NewLeaderboardHandler(tournaments TournamentStore, courses CourseStore, entries EntryStore, scores ScoreReader) *LeaderboardHandler {
	if tournaments == nil || courses == nil || entries == nil || scores == nil {
		panic("nil dependency passed to NewLeaderboardHandler")
	}
	return &LeaderboardHandler{
		Tournaments: tournaments,
		Courses:     courses,
		Entries:     entries,
		Scores:      scores,
	}
}

// tournamentField collects everything needed to compute standings for
// one tournament: its configuration, the course hole table, and every
// entry joined with its recorded scores.  updatedAt is the newest
// server write time across all scores, zero when no scores exist.
type tournamentField struct {
	tournament *model.Tournament
	holes      []model.CourseHole
	entries    []scoring.EntryScores
	updatedAt  time.Time
}

// loadField fetches the field for a tournament.  The returned error is
// one of the repository sentinels or a driver error; callers map it to
// an HTTP status.
func (h *LeaderboardHandler) loadField(ctx context.Context, tournamentID uint64) (*tournamentField, error) {
	t, err := h.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	holes, err := h.Courses.ListHoles(ctx, t.CourseID)
	if err != nil {
		return nil, err
	}
	entries, err := h.Entries.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	scores, updatedAt, err := h.Scores.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	field := make([]scoring.EntryScores, 0, len(entries))
	for _, e := range entries {
		field = append(field, scoring.EntryScores{Entry: e, Scores: scores[e.ID]})
	}
	return &tournamentField{
		tournament: t,
		holes:      holes,
		entries:    field,
		updatedAt:  updatedAt,
	}, nil
}

// fieldError writes the HTTP response for a loadField failure.
func fieldError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrTournamentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tournament not found"})
	case errors.Is(err, repository.ErrCourseNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// GetLeaderboards handles GET /v1/tournaments/:id/leaderboards.  It
// returns the gross and net boards side by side.  When the course hole
// data fails validation the net board silently falls back to gross
// ordering and the netFallback flag is set so clients can badge it.
func (h *LeaderboardHandler) GetLeaderboards(c echo.Context) error {
	tournamentID, err := tournamentIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	field, err := h.loadField(c.Request().Context(), tournamentID)
	if err != nil {
		return fieldError(c, err)
	}
	boards := scoring.BuildLeaderboards(field.entries, field.holes)
	return c.JSON(http.StatusOK, echo.Map{
		"gross":       boards.Gross,
		"net":         boards.Net,
		"coursePar":   boards.CoursePar,
		"netFallback": boards.NetFallback,
		"updatedAt":   field.updatedAt,
	})
}

// GetSkins handles GET /v1/tournaments/:id/skins.  It returns the
// per-hole skins results (winner or push), the per-player skins
// leaderboard, and the cents-exact payout split of the configured pot.
func (h *LeaderboardHandler) GetSkins(c echo.Context) error {
	tournamentID, err := tournamentIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	field, err := h.loadField(c.Request().Context(), tournamentID)
	if err != nil {
		return fieldError(c, err)
	}
	summary := scoring.ComputeSkins(field.entries, field.holes, field.tournament.SkinsPotCents)
	return c.JSON(http.StatusOK, echo.Map{
		"results":            summary.Results,
		"leaderboard":        summary.Leaderboard,
		"totalSkins":         summary.TotalSkins,
		"potCents":           summary.PotCents,
		"payoutPerSkinCents": summary.PayoutPerSkin,
		"updatedAt":          field.updatedAt,
	})
}

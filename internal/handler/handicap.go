package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylabs/scorecard-server/internal/repository"
	"github.com/fairwaylabs/scorecard-server/internal/scoring"
)

// HandicapHandler recomputes and persists the course and playing
// handicaps for every entry in a tournament.  The committee runs this
// after registration closes or after changing the net allowance.
type HandicapHandler struct {
	Tournaments TournamentStore
	Courses     CourseStore
	Entries     EntryStore
}

// NewHandicapHandler constructs a HandicapHandler.  All dependencies
// must be non-nil.
func NewHandicapHandler(tournaments TournamentStore, courses CourseStore, entries EntryStore) *HandicapHandler {
	if tournaments == nil || courses == nil || entries == nil {
		panic("nil dependency passed to NewHandicapHandler")
	}
	return &HandicapHandler{
		Tournaments: tournaments,
		Courses:     courses,
		Entries:     entries,
	}
}

// RecomputeHandicaps handles POST /v1/tournaments/:id/handicaps/recompute.
// For each entry it derives the course handicap from the player's
// current index and the course rating/slope, applies the tournament's
// net allowance, and writes both values back.  The response lists the
// updated entries so the caller can verify the new stroke allocation.
func (h *HandicapHandler) RecomputeHandicaps(c echo.Context) error {
	tournamentID, err := tournamentIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	ctx := c.Request().Context()
	t, err := h.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repository.ErrTournamentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tournament not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	course, err := h.Courses.GetByID(ctx, t.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	holes, err := h.Courses.ListHoles(ctx, t.CourseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	par := scoring.TotalPar(holes)
	entries, err := h.Entries.ListByTournament(ctx, tournamentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type entryResult struct {
		EntryID        uint64 `json:"entryId"`
		PlayerName     string `json:"playerName"`
		CourseHandicap int    `json:"courseHandicap"`
		PlayingCH      int    `json:"playingCH"`
	}
	results := make([]entryResult, 0, len(entries))
	for _, e := range entries {
		index, err := h.Entries.PlayerIndex(ctx, e.PlayerID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		hc := scoring.ComputeEntryHandicaps(index, course.Slope, course.Rating, par, t.NetAllowancePercent)
		if err := h.Entries.UpdateHandicaps(ctx, e.ID, hc.CourseHandicap, hc.PlayingCH); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		results = append(results, entryResult{
			EntryID:        e.ID,
			PlayerName:     e.PlayerName,
			CourseHandicap: hc.CourseHandicap,
			PlayingCH:      hc.PlayingCH,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": results})
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylabs/scorecard-server/internal/middleware"
	"github.com/fairwaylabs/scorecard-server/internal/queue"
	"github.com/fairwaylabs/scorecard-server/internal/reconcile"
	"github.com/fairwaylabs/scorecard-server/internal/repository"
)

// ConflictHandler exposes the operator review queue: listing pending
// conflicts, resolving one, and clearing the queue after review.
type ConflictHandler struct {
	Tournaments TournamentStore
	Engine      Reconciler

	// PublishOverride, when set, is called after a force-local
	// resolution replaces a stored score outside the timestamp check.
	// Overrides are the one write path that bypasses last-write-wins,
	// so they always leave an audit trail.
	PublishOverride func(ctx context.Context, ev queue.ScoreOverrideEvent) error
}

// NewConflictHandler constructs a ConflictHandler.  Both dependencies
// must be non-nil; the publisher is optional.
func NewConflictHandler(tournaments TournamentStore, engine Reconciler) *ConflictHandler {
	if tournaments == nil || engine == nil {
		panic("nil dependency passed to NewConflictHandler")
	}
	return &ConflictHandler{
		Tournaments: tournaments,
		Engine:      engine,
	}
}

// requireTournament verifies the :id tournament exists, writing the
// response itself on failure.  The bool reports whether to proceed.
func (h *ConflictHandler) requireTournament(c echo.Context) (uint64, bool) {
	tournamentID, err := tournamentIDParam(c)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
		return 0, false
	}
	if _, err := h.Tournaments.GetByID(c.Request().Context(), tournamentID); err != nil {
		if errors.Is(err, repository.ErrTournamentNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "tournament not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return 0, false
	}
	return tournamentID, true
}

// ListConflicts handles GET /v1/tournaments/:id/conflicts.  Pending
// conflicts are returned oldest first with both the rejected and the
// surviving value, so an operator can judge each one.
func (h *ConflictHandler) ListConflicts(c echo.Context) error {
	tournamentID, ok := h.requireTournament(c)
	if !ok {
		return nil
	}
	recs, err := h.Engine.ListConflicts(c.Request().Context(), tournamentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list conflicts"})
	}
	out := make([]conflictJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toConflictJSON(rec))
	}
	return c.JSON(http.StatusOK, echo.Map{"conflicts": out})
}

// ResolveConflict handles POST /v1/tournaments/:id/conflicts/:conflictId/resolve.
// The body carries an action: "apply-server" dismisses the conflict and
// keeps the stored value, "force-local" overwrites the stored value
// with the body's forceValue (1–15) despite losing the timestamp
// comparison.  Either way the conflict is removed from the queue.
func (h *ConflictHandler) ResolveConflict(c echo.Context) error {
	tournamentID, ok := h.requireTournament(c)
	if !ok {
		return nil
	}
	conflictID, err := uintParam(c, "conflictId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conflict id"})
	}
	var body struct {
		Action     string `json:"action"`
		ForceValue int    `json:"forceValue"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	score, err := h.Engine.ResolveConflict(ctx, tournamentID, conflictID, body.Action, body.ForceValue)
	switch {
	case errors.Is(err, reconcile.ErrConflictNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "conflict not found"})
	case errors.Is(err, reconcile.ErrUnknownAction):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be apply-server or force-local"})
	case errors.Is(err, reconcile.ErrInvalidForceValue):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "forceValue must be between 1 and 15"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve conflict"})
	}
	resp := echo.Map{"status": "resolved", "action": body.Action}
	if score != nil {
		resp["score"] = toScoreJSON(score)
		if body.Action == reconcile.ActionForceLocal && h.PublishOverride != nil {
			_ = h.PublishOverride(ctx, queue.ScoreOverrideEvent{
				TournamentID: tournamentID,
				EntryID:      score.EntryID,
				Hole:         score.Hole,
				Strokes:      score.Strokes,
				ResolvedBy:   middleware.DeviceID(c),
				ResolvedAt:   score.UpdatedAt.UTC().Format(time.RFC3339Nano),
			})
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// ClearConflicts handles DELETE /v1/tournaments/:id/conflicts.  It
// drops every pending conflict without touching stored scores, for the
// end-of-round case where the committee has reviewed the queue out of
// band.
func (h *ConflictHandler) ClearConflicts(c echo.Context) error {
	tournamentID, ok := h.requireTournament(c)
	if !ok {
		return nil
	}
	if err := h.Engine.ClearConflicts(c.Request().Context(), tournamentID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear conflicts"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cleared"})
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fairwaylabs/scorecard-server/internal/middleware"
	"github.com/fairwaylabs/scorecard-server/internal/model"
	"github.com/fairwaylabs/scorecard-server/internal/queue"
	"github.com/fairwaylabs/scorecard-server/internal/reconcile"
	"github.com/fairwaylabs/scorecard-server/internal/repository"
)

// ScoreHandler accepts hole-score edits from scorekeeper devices and
// serves score reads used by devices to resynchronize.  All timestamp
// comparison and conflict recording lives in the reconcile engine; the
// handler only validates the boundary and shapes responses.
type ScoreHandler struct {
	Tournaments TournamentStore
	Entries     EntryStore
	Scores      ScoreReader
	Engine      Reconciler

	// PublishConflict, when set, is called after a stale rejection so
	// the audit pipeline sees both sides of the disagreement.  Publish
	// failures are logged by the publisher and never affect the HTTP
	// response.
	PublishConflict func(ctx context.Context, ev queue.ScoreConflictEvent) error
}

// NewScoreHandler constructs a ScoreHandler.  All repositories and the
// engine must be non-nil; the publisher is optional.
func NewScoreHandler(tournaments TournamentStore, entries EntryStore, scores ScoreReader, engine Reconciler) *ScoreHandler {
	if tournaments == nil || entries == nil || scores == nil || engine == nil {
		panic("nil dependency passed to NewScoreHandler")
	}
	return &ScoreHandler{
		Tournaments: tournaments,
		Entries:     entries,
		Scores:      scores,
		Engine:      engine,
	}
}

// scoreEditBody is the request shape for one hole-score edit.
type scoreEditBody struct {
	EntryID         uint64    `json:"entryId"`
	Hole            int       `json:"hole"`
	Strokes         int       `json:"strokes"`
	ClientUpdatedAt time.Time `json:"clientUpdatedAt"`
}

// validate range-checks the edit.  It returns a human-readable reason
// when the edit cannot be accepted at the boundary.
func (b scoreEditBody) validate() string {
	if b.EntryID == 0 {
		return "entryId is required"
	}
	if !model.ValidHole(b.Hole) {
		return "hole must be between 1 and 18"
	}
	if !model.ValidStrokes(b.Strokes) {
		return "strokes must be between 1 and 15"
	}
	if b.ClientUpdatedAt.IsZero() {
		return "clientUpdatedAt is required"
	}
	return ""
}

// SubmitScore handles POST /v1/tournaments/:id/scores.  It applies one
// edit through the reconciliation engine.  Both outcomes are 200s: an
// accepted edit returns the stored row, a stale edit returns
// status "ignored" with reason "stale" plus the surviving stored row
// and the ID of the conflict queued for operator review.  Stale is a
// terminal outcome for the submitting device, never an error.
func (h *ScoreHandler) SubmitScore(c echo.Context) error {
	tournamentID, err := tournamentIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	var body scoreEditBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if reason := body.validate(); reason != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": reason})
	}
	ctx := c.Request().Context()
	if _, err := h.Tournaments.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repository.ErrTournamentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tournament not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Entries.GetByID(ctx, tournamentID, body.EntryID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	outcome, err := h.Engine.ApplyEdit(ctx, reconcile.Edit{
		TournamentID:    tournamentID,
		EntryID:         body.EntryID,
		Hole:            body.Hole,
		Strokes:         body.Strokes,
		DeviceID:        middleware.DeviceID(c),
		ClientUpdatedAt: body.ClientUpdatedAt,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply edit"})
	}
	return c.JSON(http.StatusOK, h.editOutcomeJSON(ctx, outcome))
}

// editOutcomeJSON shapes one engine outcome for the wire, publishing a
// conflict event on stale rejections.
func (h *ScoreHandler) editOutcomeJSON(ctx context.Context, outcome reconcile.Outcome) echo.Map {
	if outcome.Status == reconcile.StatusAccepted {
		return echo.Map{
			"status": "accepted",
			"score":  toScoreJSON(outcome.Score),
		}
	}
	rec := outcome.Conflict
	if h.PublishConflict != nil && rec != nil {
		_ = h.PublishConflict(ctx, queue.ScoreConflictEvent{
			ConflictID:       rec.ID,
			TournamentID:     rec.TournamentID,
			EntryID:          rec.EntryID,
			Hole:             rec.Hole,
			RejectedStrokes:  rec.RejectedStrokes,
			RejectedClientAt: rec.RejectedClientAt.UTC().Format(time.RFC3339Nano),
			RejectedBy:       rec.RejectedBy,
			StoredStrokes:    rec.StoredStrokes,
			StoredUpdatedAt:  rec.StoredUpdatedAt.UTC().Format(time.RFC3339Nano),
			CreatedAt:        rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	resp := echo.Map{
		"status": "ignored",
		"reason": "stale",
	}
	if outcome.Score != nil {
		resp["stored"] = toScoreJSON(outcome.Score)
	}
	if rec != nil {
		resp["conflictId"] = rec.ID
	}
	return resp
}

// SubmitScoreBatch handles POST /v1/tournaments/:id/scores/batch.  A
// device flushing its offline queue can send up to 18 edits in one
// request; they are applied strictly in order and each gets its own
// independent accepted/ignored outcome.  One stale edit never blocks
// the edits behind it.
func (h *ScoreHandler) SubmitScoreBatch(c echo.Context) error {
	tournamentID, err := tournamentIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	var body struct {
		Edits []scoreEditBody `json:"edits"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Edits) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "edits is required"})
	}
	if len(body.Edits) > model.MaxHole {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at most 18 edits per batch"})
	}
	for i, e := range body.Edits {
		if reason := e.validate(); reason != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "edit " + strconv.Itoa(i) + ": " + reason})
		}
	}
	ctx := c.Request().Context()
	if _, err := h.Tournaments.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repository.ErrTournamentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tournament not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	deviceID := middleware.DeviceID(c)
	results := make([]echo.Map, 0, len(body.Edits))
	for _, e := range body.Edits {
		if _, err := h.Entries.GetByID(ctx, tournamentID, e.EntryID); err != nil {
			if errors.Is(err, repository.ErrEntryNotFound) {
				results = append(results, echo.Map{
					"status": "rejected",
					"reason": "entry not found",
				})
				continue
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		outcome, err := h.Engine.ApplyEdit(ctx, reconcile.Edit{
			TournamentID:    tournamentID,
			EntryID:         e.EntryID,
			Hole:            e.Hole,
			Strokes:         e.Strokes,
			DeviceID:        deviceID,
			ClientUpdatedAt: e.ClientUpdatedAt,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply edit"})
		}
		results = append(results, h.editOutcomeJSON(ctx, outcome))
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results})
}

// GetEntryScores handles GET /v1/tournaments/:id/scores?entryId=N.  A
// device that had an edit rejected as stale calls this to refetch the
// authoritative card for the entry and replace its local copy.
func (h *ScoreHandler) GetEntryScores(c echo.Context) error {
	tournamentID, err := tournamentIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	entryID, err := strconv.ParseUint(c.QueryParam("entryId"), 10, 64)
	if err != nil || entryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "entryId is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Entries.GetByID(ctx, tournamentID, entryID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	scores, err := h.Scores.ListByEntry(ctx, entryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"entryId": entryID,
		"scores":  scoresJSON(scores),
	})
}

// GetGroupScores handles GET /v1/tournaments/:id/groups/:groupId/scores.
// A scorekeeper device records for a whole playing group, so it pulls
// every card in the group in one round trip.
func (h *ScoreHandler) GetGroupScores(c echo.Context) error {
	tournamentID, err := tournamentIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	groupID, err := uintParam(c, "groupId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid group id"})
	}
	ctx := c.Request().Context()
	entries, err := h.Entries.ListByGroup(ctx, tournamentID, groupID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(entries) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
	}
	cards := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		scores, err := h.Scores.ListByEntry(ctx, e.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		cards = append(cards, echo.Map{
			"entryId":    e.ID,
			"playerName": e.PlayerName,
			"playingCH":  e.PlayingCH,
			"scores":     scoresJSON(scores),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"groupId": groupID,
		"cards":   cards,
	})
}

func scoresJSON(scores []model.HoleScore) []scoreJSON {
	out := make([]scoreJSON, 0, len(scores))
	for i := range scores {
		out = append(out, toScoreJSON(&scores[i]))
	}
	return out
}

package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// courseHoles18 returns a valid 18-hole table: stroke index equals the
// hole number, par 4 everywhere except two par 3s and two par 5s, for
// a total par of 72.
func courseHoles18() []model.CourseHole {
	holes := make([]model.CourseHole, 0, 18)
	for h := 1; h <= 18; h++ {
		par := 4
		switch h {
		case 3, 12:
			par = 3
		case 6, 15:
			par = 5
		}
		holes = append(holes, model.CourseHole{CourseID: 7, Hole: h, Par: par, StrokeIndex: h})
	}
	return holes
}

// fullCard fills all 18 holes with the same stroke count, then applies
// overrides.
func fullCard(entryID uint64, strokes int, overrides map[int]int) []model.HoleScore {
	card := make([]model.HoleScore, 0, 18)
	for h := 1; h <= 18; h++ {
		s := strokes
		if v, ok := overrides[h]; ok {
			s = v
		}
		card = append(card, model.HoleScore{EntryID: entryID, Hole: h, Strokes: s})
	}
	return card
}

func newBoardTestHandler(potCents int64, byEntry map[uint64][]model.HoleScore, entries ...model.Entry) *LeaderboardHandler {
	return NewLeaderboardHandler(
		&fakeTournaments{tournament: &model.Tournament{ID: 1, CourseID: 7, SkinsPotCents: potCents}},
		&fakeCourses{course: &model.Course{ID: 7, Slope: 125, Rating: 71.3, Par: 72}, holes: courseHoles18()},
		newFakeEntries(entries...),
		&fakeScores{byEntry: byEntry, updatedAt: time.Date(2026, 6, 6, 11, 0, 0, 0, time.UTC)},
	)
}

func TestGetLeaderboards(t *testing.T) {
	alice := model.Entry{ID: 10, TournamentID: 1, PlayerID: 110, PlayerName: "alice", PlayingCH: 9}
	bob := model.Entry{ID: 11, TournamentID: 1, PlayerID: 111, PlayerName: "bob", PlayingCH: 0}
	h := newBoardTestHandler(0, map[uint64][]model.HoleScore{
		10: fullCard(10, 5, nil),               // gross 90, net 81
		11: fullCard(11, 5, map[int]int{1: 4}), // gross 89, net 89
	}, alice, bob)

	c, rec := newTestContext(http.MethodGet, "/v1/tournaments/1/leaderboards", "")
	require.NoError(t, h.GetLeaderboards(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, float64(72), resp["coursePar"])
	assert.Equal(t, false, resp["netFallback"])
	assert.Equal(t, "2026-06-06T11:00:00Z", resp["updatedAt"])

	gross := resp["gross"].([]any)
	require.Len(t, gross, 2)
	assert.Equal(t, "bob", gross[0].(map[string]any)["playerName"])
	assert.Equal(t, float64(89), gross[0].(map[string]any)["grossTotal"])

	// playing handicap flips the order on the net board
	net := resp["net"].([]any)
	require.Len(t, net, 2)
	assert.Equal(t, "alice", net[0].(map[string]any)["playerName"])
	assert.Equal(t, float64(81), net[0].(map[string]any)["netTotal"])
}

func TestGetLeaderboardsUnknownTournament(t *testing.T) {
	h := newBoardTestHandler(0, nil)
	c, rec := newTestContext(http.MethodGet, "/v1/tournaments/9/leaderboards", "")
	c.SetParamValues("9")
	require.NoError(t, h.GetLeaderboards(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSkins(t *testing.T) {
	alice := model.Entry{ID: 10, TournamentID: 1, PlayerID: 110, PlayerName: "alice"}
	bob := model.Entry{ID: 11, TournamentID: 1, PlayerID: 111, PlayerName: "bob"}
	// alice wins holes 1 and 2 outright, everything else pushes
	h := newBoardTestHandler(18000, map[uint64][]model.HoleScore{
		10: fullCard(10, 4, map[int]int{1: 3, 2: 3}),
		11: fullCard(11, 4, nil),
	}, alice, bob)

	c, rec := newTestContext(http.MethodGet, "/v1/tournaments/1/skins", "")
	require.NoError(t, h.GetSkins(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, float64(2), resp["totalSkins"])
	assert.Equal(t, float64(18000), resp["potCents"])
	assert.Equal(t, float64(9000), resp["payoutPerSkinCents"])

	results := resp["results"].([]any)
	require.Len(t, results, 18)
	first := results[0].(map[string]any)
	assert.Equal(t, "alice", first["winnerName"])
	assert.Equal(t, float64(3), first["lowScore"])
	pushed := results[2].(map[string]any)
	assert.Equal(t, true, pushed["push"])

	board := resp["leaderboard"].([]any)
	require.Len(t, board, 1)
	assert.Equal(t, float64(18000), board[0].(map[string]any)["payoutCents"])
}

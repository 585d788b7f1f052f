package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSkinsWinnersAndPushes(t *testing.T) {
	holes := testCourseHoles()
	entries := []EntryScores{
		// alice birdies hole 1 outright; everyone ties hole 2; holes
		// 3+ only alice and bob have scores and they tie except hole 4
		// where bob wins.
		entryScores(1, "alice", 0, map[int]int{1: 3, 2: 4, 3: 3, 4: 5}),
		entryScores(2, "bob", 0, map[int]int{1: 4, 2: 4, 3: 3, 4: 4}),
		entryScores(3, "carol", 0, map[int]int{1: 5, 2: 4}),
	}

	sum := ComputeSkins(entries, holes, 18000)
	require.Len(t, sum.Results, 18)

	h1 := sum.Results[0]
	assert.True(t, h1.Played)
	assert.False(t, h1.Push)
	assert.Equal(t, uint64(1), h1.WinnerEntryID)
	assert.Equal(t, "alice", h1.WinnerName)
	assert.Equal(t, 3, h1.LowScore)

	h2 := sum.Results[1]
	assert.True(t, h2.Played)
	assert.True(t, h2.Push, "three-way tie pushes")
	assert.Zero(t, h2.WinnerEntryID)

	h3 := sum.Results[2]
	assert.True(t, h3.Push, "two-way tie pushes; the skin does not carry")

	h4 := sum.Results[3]
	assert.Equal(t, uint64(2), h4.WinnerEntryID)

	h5 := sum.Results[4]
	assert.False(t, h5.Played, "no recorded scores means no result")
	assert.False(t, h5.Push)

	assert.Equal(t, 2, sum.TotalSkins)
}

func TestComputeSkinsPayoutsEvenSplit(t *testing.T) {
	// $180 pot, 9 skins: $20 per skin, cents-exact.
	wonHoles := map[uint64][]int{1: {2, 5}, 2: {1, 7, 9}, 3: {3, 4, 6, 8}}
	names := map[uint64]string{1: "A", 2: "B", 3: "C"}

	rows := skinsLeaderboard(wonHoles, names, 9, 18000)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(2000), payoutPerSkin(18000, 9))

	byName := map[string]int64{}
	for _, r := range rows {
		byName[r.PlayerName] = r.PayoutCents
	}
	assert.Equal(t, int64(4000), byName["A"])
	assert.Equal(t, int64(6000), byName["B"])
	assert.Equal(t, int64(8000), byName["C"])
}

func TestComputeSkinsPayoutsRoundingDrift(t *testing.T) {
	// $100 pot, 6 skins: $16.67 per skin. The independent rounding
	// makes the payouts sum to $100.02 and that drift is accepted, not
	// re-normalized.
	wonHoles := map[uint64][]int{1: {1, 2, 3}, 2: {4, 5}, 3: {6}}
	names := map[uint64]string{1: "A", 2: "B", 3: "C"}

	assert.Equal(t, int64(1667), payoutPerSkin(10000, 6))

	rows := skinsLeaderboard(wonHoles, names, 6, 10000)
	byName := map[string]int64{}
	total := int64(0)
	for _, r := range rows {
		byName[r.PlayerName] = r.PayoutCents
		total += r.PayoutCents
	}
	assert.Equal(t, int64(5001), byName["A"])
	assert.Equal(t, int64(3334), byName["B"])
	assert.Equal(t, int64(1667), byName["C"])
	assert.Equal(t, int64(10002), total)
}

func TestComputeSkinsZeroSkins(t *testing.T) {
	holes := testCourseHoles()
	// Every played hole pushes.
	entries := []EntryScores{
		entryScores(1, "alice", 0, map[int]int{1: 4, 2: 4}),
		entryScores(2, "bob", 0, map[int]int{1: 4, 2: 4}),
	}
	sum := ComputeSkins(entries, holes, 50000)
	assert.Zero(t, sum.TotalSkins)
	assert.Zero(t, sum.PayoutPerSkin, "zero skins pays zero regardless of pot")
	assert.Empty(t, sum.Leaderboard)
}

func TestSkinsLeaderboardOrdering(t *testing.T) {
	wonHoles := map[uint64][]int{1: {9, 1}, 2: {2, 3, 4}, 3: {5}}
	names := map[uint64]string{1: "zoe", 2: "amy", 3: "ben"}
	rows := skinsLeaderboard(wonHoles, names, 6, 0)
	require.Len(t, rows, 3)
	assert.Equal(t, "amy", rows[0].PlayerName)
	assert.Equal(t, []int{1, 9}, rows[1].HolesWon, "won holes sorted ascending")
	assert.Equal(t, "ben", rows[2].PlayerName)
}

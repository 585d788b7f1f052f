package scoring

import (
	"math"
	"sort"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// SkinsResult is the outcome of one hole of the skins game.  A hole
// with no recorded scores has Played=false.  A push (two or more
// entries sharing the low score) awards nothing and the skin is lost;
// it never carries to the next hole.
type SkinsResult struct {
	Hole          int    `json:"hole"`
	Par           int    `json:"par"`
	Played        bool   `json:"played"`
	Push          bool   `json:"push"`
	LowScore      int    `json:"lowScore,omitempty"`
	WinnerEntryID uint64 `json:"winnerEntryId,omitempty"`
	WinnerName    string `json:"winnerName,omitempty"`
}

// SkinsPlayerTotal is one row of the skins leaderboard: how many holes
// an entry won outright and what that pays.
type SkinsPlayerTotal struct {
	EntryID     uint64 `json:"entryId"`
	PlayerName  string `json:"playerName"`
	Skins       int    `json:"skins"`
	HolesWon    []int  `json:"holesWon"`
	PayoutCents int64  `json:"payoutCents"`
}

// SkinsSummary is the full skins response: per-hole results, the
// player leaderboard and the pot math.
type SkinsSummary struct {
	Results       []SkinsResult      `json:"results"`
	Leaderboard   []SkinsPlayerTotal `json:"leaderboard"`
	TotalSkins    int                `json:"totalSkins"`
	PotCents      int64              `json:"potCents"`
	PayoutPerSkin int64              `json:"payoutPerSkinCents"`
}

// roundCents rounds a fractional cent amount half-up to whole cents.
// Equivalent to rounding the dollar value to two decimals.
func roundCents(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// ComputeSkins runs the no-carry skins game over holes 1..18.  For each
// hole the lowest recorded gross score wins a skin when exactly one
// entry holds it; shared lows push.  Holes are independent: a push
// forfeits that hole's skin permanently.
func ComputeSkins(entries []EntryScores, holes []model.CourseHole, potCents int64) SkinsSummary {
	pars := parByHole(holes)
	names := make(map[uint64]string, len(entries))
	for _, es := range entries {
		names[es.Entry.ID] = es.Entry.PlayerName
	}

	results := make([]SkinsResult, 0, 18)
	wonHoles := make(map[uint64][]int)
	totalSkins := 0
	for hole := model.MinHole; hole <= model.MaxHole; hole++ {
		res := SkinsResult{Hole: hole, Par: pars[hole]}
		low := 0
		var lowEntry uint64
		lowCount := 0
		for _, es := range entries {
			s, ok := es.Scores[hole]
			if !ok {
				continue
			}
			switch {
			case lowCount == 0 || s < low:
				low, lowEntry, lowCount = s, es.Entry.ID, 1
			case s == low:
				lowCount++
			}
		}
		if lowCount > 0 {
			res.Played = true
			res.LowScore = low
			if lowCount == 1 {
				res.WinnerEntryID = lowEntry
				res.WinnerName = names[lowEntry]
				wonHoles[lowEntry] = append(wonHoles[lowEntry], hole)
				totalSkins++
			} else {
				res.Push = true
			}
		}
		results = append(results, res)
	}

	return SkinsSummary{
		Results:       results,
		Leaderboard:   skinsLeaderboard(wonHoles, names, totalSkins, potCents),
		TotalSkins:    totalSkins,
		PotCents:      potCents,
		PayoutPerSkin: payoutPerSkin(potCents, totalSkins),
	}
}

// payoutPerSkin divides the pot evenly per skin, rounding half-up to
// the cent.  Zero skins pays zero; the division is guarded explicitly.
func payoutPerSkin(potCents int64, totalSkins int) int64 {
	if totalSkins == 0 {
		return 0
	}
	return roundCents(float64(potCents) / float64(totalSkins))
}

// skinsLeaderboard builds per-player totals sorted by skin count
// descending, then name for stable display.  Each payout is the skin
// count times the rounded per-skin value; the independent rounding
// means the payouts need not sum exactly to the pot, and that drift is
// accepted rather than re-normalized.
func skinsLeaderboard(wonHoles map[uint64][]int, names map[uint64]string, totalSkins int, potCents int64) []SkinsPlayerTotal {
	perSkin := payoutPerSkin(potCents, totalSkins)
	rows := make([]SkinsPlayerTotal, 0, len(wonHoles))
	for entryID, won := range wonHoles {
		sort.Ints(won)
		rows = append(rows, SkinsPlayerTotal{
			EntryID:     entryID,
			PlayerName:  names[entryID],
			Skins:       len(won),
			HolesWon:    won,
			PayoutCents: int64(len(won)) * perSkin,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Skins != rows[j].Skins {
			return rows[i].Skins > rows[j].Skins
		}
		return rows[i].PlayerName < rows[j].PlayerName
	})
	return rows
}

package scoring

import (
	"fmt"
	"sort"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// LeaderboardEntry is one ranked row of a gross or net board.  Derived
// on every query and never persisted.
type LeaderboardEntry struct {
	EntryID        uint64      `json:"entryId"`
	PlayerName     string      `json:"playerName"`
	CourseHandicap int         `json:"courseHandicap"`
	PlayingCH      int         `json:"playingCH"`
	GrossTotal     int         `json:"grossTotal"`
	NetTotal       int         `json:"netTotal"`
	ToPar          int         `json:"toPar"`
	NetToPar       int         `json:"netToPar"`
	Position       string      `json:"position"`
	Tied           bool        `json:"tied"`
	HoleScores     map[int]int `json:"holeScores"`
	HolesPlayed    int         `json:"holesPlayed"`
}

// Leaderboards carries both boards for a tournament plus the course
// context they were computed against.
type Leaderboards struct {
	Gross       []LeaderboardEntry `json:"gross"`
	Net         []LeaderboardEntry `json:"net"`
	CoursePar   int                `json:"coursePar"`
	NetFallback bool               `json:"netFallback"`
}

// EntryScores pairs an entry with its recorded hole -> gross strokes
// map.  Entries with an empty map are excluded from ranking entirely;
// a player with no recorded holes has nothing to rank.
type EntryScores struct {
	Entry  model.Entry
	Scores map[int]int
}

// BuildLeaderboards computes the gross and net boards for a tournament.
// Gross totals sum recorded strokes; net totals subtract the playing
// handicap from the gross total.  Ties on the primary total are ordered
// by the segment cascade on the same basis, but ordering never clears
// the tied flag; only a distinct primary total does.
func BuildLeaderboards(entries []EntryScores, holes []model.CourseHole) Leaderboards {
	coursePar := TotalPar(holes)
	netCmp := NewComparator(NetBasis, holes)
	grossCmp := NewComparator(GrossBasis, holes)

	rows := make([]LeaderboardEntry, 0, len(entries))
	byEntry := make(map[uint64]map[int]int, len(entries))
	playingCH := make(map[uint64]int, len(entries))
	for _, es := range entries {
		if len(es.Scores) == 0 {
			continue
		}
		gross := 0
		for _, s := range es.Scores {
			gross += s
		}
		net := gross - es.Entry.PlayingCH
		rows = append(rows, LeaderboardEntry{
			EntryID:        es.Entry.ID,
			PlayerName:     es.Entry.PlayerName,
			CourseHandicap: es.Entry.CourseHandicap,
			PlayingCH:      es.Entry.PlayingCH,
			GrossTotal:     gross,
			NetTotal:       net,
			ToPar:          gross - coursePar,
			NetToPar:       net - coursePar,
			HoleScores:     es.Scores,
			HolesPlayed:    len(es.Scores),
		})
		byEntry[es.Entry.ID] = es.Scores
		playingCH[es.Entry.ID] = es.Entry.PlayingCH
	}

	gross := rankBoard(rows, byEntry, playingCH, grossCmp, func(r LeaderboardEntry) int { return r.GrossTotal })
	net := rankBoard(rows, byEntry, playingCH, netCmp, func(r LeaderboardEntry) int { return r.NetTotal })

	return Leaderboards{
		Gross:       gross,
		Net:         net,
		CoursePar:   coursePar,
		NetFallback: netCmp.NetFallback(),
	}
}

// rankBoard sorts a copy of the rows by the primary total, breaking
// exact ties with the comparator, then walks the ordering assigning
// shared positions: every member of a run of equal primary totals
// shares the position of the run's first row and is labelled T-N.
func rankBoard(rows []LeaderboardEntry, scores map[uint64]map[int]int, playingCH map[uint64]int, cmp *Comparator, primary func(LeaderboardEntry) int) []LeaderboardEntry {
	board := make([]LeaderboardEntry, len(rows))
	copy(board, rows)

	sort.SliceStable(board, func(i, j int) bool {
		a, b := board[i], board[j]
		if pa, pb := primary(a), primary(b); pa != pb {
			return pa < pb
		}
		return cmp.Compare(scores[a.EntryID], playingCH[a.EntryID], scores[b.EntryID], playingCH[b.EntryID]) < 0
	})

	for i := 0; i < len(board); {
		j := i + 1
		for j < len(board) && primary(board[j]) == primary(board[i]) {
			j++
		}
		pos := i + 1
		tied := j-i > 1
		for k := i; k < j; k++ {
			board[k].Tied = tied
			if tied {
				board[k].Position = fmt.Sprintf("T-%d", pos)
			} else {
				board[k].Position = fmt.Sprintf("%d", pos)
			}
		}
		i = j
	}
	return board
}

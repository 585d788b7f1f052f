// Package scoring implements the pure computation core of the server:
// handicap/stroke allocation, the hole-segment tiebreak cascade,
// leaderboard ranking and the skins side game.  Everything in this
// package is stateless and side-effect free; callers pass in plain
// records from the model package and receive derived results that are
// recomputed on every query, never mutated in place.
package scoring

import "math"

// MaxCourseHandicap caps course handicaps for tournament play.  There
// is deliberately no lower cap: plus players carry negative course
// handicaps.
const MaxCourseHandicap = 18

// roundHalfUp rounds to the nearest integer with .5 rounding away from
// zero (so 12.5 -> 13 and -12.5 -> -13), as opposed to banker's
// rounding.
func roundHalfUp(v float64) int {
	if v < 0 {
		return -int(math.Floor(-v + 0.5))
	}
	return int(math.Floor(v + 0.5))
}

// CourseHandicap converts a player's handicap index into a course
// handicap using the standard slope/rating adjustment:
//
//	round(index * slope/113 + (rating - par))
//
// capped at MaxCourseHandicap.  The result may be negative.
func CourseHandicap(index float64, slope int, rating float64, par int) int {
	ch := roundHalfUp(index*float64(slope)/113.0 + (rating - float64(par)))
	if ch > MaxCourseHandicap {
		ch = MaxCourseHandicap
	}
	return ch
}

// PlayingHandicap scales a course handicap by the tournament's net
// allowance percentage.  The result is floored at zero: plus players
// play net off scratch rather than giving strokes back to the field.
func PlayingHandicap(courseHandicap, netAllowancePercent int) int {
	ph := roundHalfUp(float64(courseHandicap) * float64(netAllowancePercent) / 100.0)
	if ph < 0 {
		ph = 0
	}
	return ph
}

// StrokesReceived returns how many handicap strokes a player with the
// given playing handicap receives on the hole with the given stroke
// index.  Every hole gets floor(playingCH/18) strokes and the
// playingCH%18 hardest holes (lowest stroke index) get one more, so the
// per-hole allocation sums to exactly playingCH.
func StrokesReceived(playingCH, strokeIndex int) int {
	if playingCH <= 0 {
		return 0
	}
	strokes := playingCH / 18
	if strokeIndex <= playingCH%18 {
		strokes++
	}
	return strokes
}

// NetHoleScore applies the hole's stroke allowance to a gross score.
// Net scores never drop below 1, no matter how many strokes the hole
// gives back.
func NetHoleScore(gross, playingCH, strokeIndex int) int {
	net := gross - StrokesReceived(playingCH, strokeIndex)
	if net < 1 {
		net = 1
	}
	return net
}

// EntryHandicaps bundles the two values computed when a player joins a
// tournament (or when the course or allowance changes afterwards).
type EntryHandicaps struct {
	CourseHandicap int
	PlayingCH      int
}

// ComputeEntryHandicaps derives both handicap values for an entry from
// the player's index, the course parameters and the tournament's net
// allowance.
func ComputeEntryHandicaps(index float64, slope int, rating float64, par, netAllowancePercent int) EntryHandicaps {
	ch := CourseHandicap(index, slope, rating, par)
	return EntryHandicaps{
		CourseHandicap: ch,
		PlayingCH:      PlayingHandicap(ch, netAllowancePercent),
	}
}

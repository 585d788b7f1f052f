package scoring

import "github.com/fairwaylabs/scorecard-server/internal/model"

// tiebreakSegments is the fixed comparison cascade: back nine, last
// six, last three, then the 18th alone.  The first segment where the
// sums differ decides the tie; lower wins.  The groupings are not
// configurable.
var tiebreakSegments = [][2]int{
	{10, 18},
	{13, 18},
	{16, 18},
	{18, 18},
}

// ScoreBasis selects whether segment sums use raw strokes or
// net-per-hole scores.
type ScoreBasis int

const (
	// GrossBasis sums raw strokes.
	GrossBasis ScoreBasis = iota
	// NetBasis sums net hole scores (stroke allowance applied per
	// hole).  Requires a valid course hole table; comparisons fall
	// back to GrossBasis when the table is invalid.
	NetBasis
)

// Comparator breaks ties between entries with equal primary totals
// using the segment cascade.  It is built once per board from the
// course hole table; when the table fails validation the comparator
// silently compares gross segments even for the net board, and exposes
// that through NetFallback.
type Comparator struct {
	basis       ScoreBasis
	strokeIndex map[int]int // hole -> stroke index; nil when falling back to gross
	fallback    bool
}

// NewComparator builds a Comparator for the requested basis.  A net
// comparator over an invalid course degrades to gross-segment
// comparison rather than failing.
func NewComparator(basis ScoreBasis, holes []model.CourseHole) *Comparator {
	c := &Comparator{basis: basis}
	if basis == NetBasis {
		if ValidCourseHoles(holes) {
			c.strokeIndex = strokeIndexByHole(holes)
		} else {
			c.basis = GrossBasis
			c.fallback = true
		}
	}
	return c
}

// NetFallback reports whether a net comparator was forced down to
// gross segments by an invalid course configuration.
func (c *Comparator) NetFallback() bool { return c.fallback }

// segmentSum totals the contribution of holes from..to for one entry.
// A hole with no recorded score contributes 0 rather than a penalty,
// so incomplete rounds still compare; this is a known approximation
// for partial rounds, not an attempt to project them.
func (c *Comparator) segmentSum(scores map[int]int, playingCH, from, to int) int {
	sum := 0
	for hole := from; hole <= to; hole++ {
		gross, ok := scores[hole]
		if !ok {
			continue
		}
		if c.basis == NetBasis {
			sum += NetHoleScore(gross, playingCH, c.strokeIndex[hole])
		} else {
			sum += gross
		}
	}
	return sum
}

// Compare runs the cascade for two entries given their hole -> gross
// stroke maps and playing handicaps.  It returns a negative value when
// a should rank ahead of b, positive when b ranks ahead, and zero when
// every segment is equal (the entries stay tied).
func (c *Comparator) Compare(aScores map[int]int, aPlayingCH int, bScores map[int]int, bPlayingCH int) int {
	for _, seg := range tiebreakSegments {
		d := c.segmentSum(aScores, aPlayingCH, seg[0], seg[1]) -
			c.segmentSum(bScores, bPlayingCH, seg[0], seg[1])
		if d != 0 {
			return d
		}
	}
	return 0
}

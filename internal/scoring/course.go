package scoring

import "github.com/fairwaylabs/scorecard-server/internal/model"

// Par bounds for a single hole.
const (
	minPar = 3
	maxPar = 6
)

// ValidStrokeIndexes reports whether the given stroke indexes form a
// permutation of 1..18.  Any other length, a duplicate, or a value
// outside 1–18 makes the set invalid.
func ValidStrokeIndexes(indexes []int) bool {
	if len(indexes) != 18 {
		return false
	}
	var seen [19]bool
	for _, si := range indexes {
		if si < 1 || si > 18 || seen[si] {
			return false
		}
		seen[si] = true
	}
	return true
}

// ValidCourseHoles reports whether a course's hole table is usable for
// net computations: exactly 18 holes, hole numbers 1..18 without
// duplicates, every par within 3–6, and stroke indexes forming a 1..18
// permutation.  An invalid table is not fatal anywhere; net-dependent
// computations fall back to gross logic instead.
func ValidCourseHoles(holes []model.CourseHole) bool {
	if len(holes) != 18 {
		return false
	}
	var seenHole [19]bool
	indexes := make([]int, 0, 18)
	for _, h := range holes {
		if h.Hole < 1 || h.Hole > 18 || seenHole[h.Hole] {
			return false
		}
		seenHole[h.Hole] = true
		if h.Par < minPar || h.Par > maxPar {
			return false
		}
		indexes = append(indexes, h.StrokeIndex)
	}
	return ValidStrokeIndexes(indexes)
}

// strokeIndexByHole builds a hole -> stroke index lookup.  Callers must
// have validated the holes first.
func strokeIndexByHole(holes []model.CourseHole) map[int]int {
	m := make(map[int]int, len(holes))
	for _, h := range holes {
		m[h.Hole] = h.StrokeIndex
	}
	return m
}

// parByHole builds a hole -> par lookup.
func parByHole(holes []model.CourseHole) map[int]int {
	m := make(map[int]int, len(holes))
	for _, h := range holes {
		m[h.Hole] = h.Par
	}
	return m
}

// TotalPar sums par across the given holes.
func TotalPar(holes []model.CourseHole) int {
	total := 0
	for _, h := range holes {
		total += h.Par
	}
	return total
}

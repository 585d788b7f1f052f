package model

import "time"

// Course describes the golf course a tournament is played on.  Slope,
// rating and par feed the handicap calculator when a player joins a
// tournament.  Courses are managed by course administration, which is
// outside this service; the engine only ever reads them.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the course.
//  Slope     – USGA slope rating (55–155 in practice, not enforced here).
//  Rating    – course rating, e.g. 71.3.
//  Par       – total par for the 18 holes.
//  CreatedAt – timestamp when the record was created.
type Course struct {
	ID        uint64    // courses.id
	Name      string    // courses.name
	Slope     int       // courses.slope
	Rating    float64   // courses.rating
	Par       int       // courses.par
	CreatedAt time.Time // courses.created_at
}

// CourseHole is one hole of a course's 18-hole table.  The stroke index
// ranks hole difficulty 1 (hardest) through 18 (easiest) and decides
// which holes receive handicap strokes.  A course is only valid for net
// computations when its 18 holes carry unique hole numbers and the
// stroke indexes form a permutation of 1..18.
//
// Fields:
//  ID          – primary key identifier.
//  CourseID    – the course this hole belongs to.
//  Hole        – hole number, 1–18, unique within the course.
//  Par         – par for this hole, 3–6.
//  StrokeIndex – difficulty rank, 1–18, unique within the course.
type CourseHole struct {
	ID          uint64 // course_holes.id
	CourseID    uint64 // course_holes.course_id
	Hole        int    // course_holes.hole
	Par         int    // course_holes.par
	StrokeIndex int    // course_holes.stroke_index
}

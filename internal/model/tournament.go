package model

import "time"

// Tournament is a single-round event played on one course.  The net
// allowance percentage scales each entry's course handicap into the
// playing handicap that actually receives strokes; the skins pot is the
// total side-game purse in cents.  Tournament setup forms live outside
// this service.
//
// Fields:
//  ID                  – primary key identifier.
//  Name                – display name.
//  CourseID            – course the tournament is played on.
//  NetAllowancePercent – handicap allowance, 0–100.
//  SkinsPotCents       – skins purse in integer cents.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type Tournament struct {
	ID                  uint64    // tournaments.id
	Name                string    // tournaments.name
	CourseID            uint64    // tournaments.course_id
	NetAllowancePercent int       // tournaments.net_allowance_percent
	SkinsPotCents       int64     // tournaments.skins_pot_cents
	CreatedAt           time.Time // tournaments.created_at
	UpdatedAt           time.Time // tournaments.updated_at
}

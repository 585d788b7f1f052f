package model

import "time"

// Entry links a player to a tournament and carries the handicap values
// computed when the player joined.  CourseHandicap is capped at 18 and
// may be negative for plus players; PlayingCH is the allowance-scaled
// handicap and never drops below zero.  Both are recomputed whenever
// the course data or the tournament's net allowance changes, and the
// entry is deleted when the player is removed from the field.
//
// Fields:
//  ID             – primary key identifier.
//  TournamentID   – tournament this entry belongs to.
//  PlayerID       – the player.
//  PlayerName     – denormalized player display name.
//  CourseHandicap – handicap adjusted for the course, capped at 18.
//  PlayingCH      – allowance-scaled playing handicap, >= 0.
//  GroupID        – optional scoring group assignment (nil when ungrouped).
//  CreatedAt      – creation timestamp.
type Entry struct {
	ID             uint64    // entries.id
	TournamentID   uint64    // entries.tournament_id
	PlayerID       uint64    // entries.player_id
	PlayerName     string    // denormalized from players.name
	CourseHandicap int       // entries.course_handicap
	PlayingCH      int       // entries.playing_ch
	GroupID        *uint64   // entries.group_id (nullable)
	CreatedAt      time.Time // entries.created_at
}

// Player is a club member who can enter tournaments.  The handicap
// index is the player's rolling USGA index, stored here so entry
// handicaps can be recomputed without an external lookup.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name.
//  HandicapIndex – current handicap index, e.g. 12.4.
//  CreatedAt     – creation timestamp.
type Player struct {
	ID            uint64    // players.id
	Name          string    // players.name
	HandicapIndex float64   // players.handicap_index
	CreatedAt     time.Time // players.created_at
}

// Package repository provides data access to the scoring tables over
// database/sql.  Sentinel errors defined here let handlers map failure
// modes to HTTP statuses with errors.Is instead of string matching.
package repository

import "errors"

// ErrTournamentNotFound is returned when a tournament ID does not
// exist.  Handlers translate this into a 404 response.
var ErrTournamentNotFound = errors.New("tournament not found")

// ErrCourseNotFound is returned when a tournament references a course
// that no longer exists.
var ErrCourseNotFound = errors.New("course not found")

// ErrEntryNotFound is returned when an edit or query names an entry
// that is not part of the tournament.
var ErrEntryNotFound = errors.New("entry not found")

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwaylabs/scorecard-server/internal/model"
)

// CourseRepo provides read access to the courses and course_holes
// tables.  Course administration is external; the engine reads hole
// tables to compute pars, stroke allowances and tiebreaks.
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo returns a CourseRepo bound to the provided database.
func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

// GetByID loads one course.  Returns ErrCourseNotFound when no row
// exists.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
	var c model.Course
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, slope, rating, par, created_at FROM courses WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Slope, &c.Rating, &c.Par, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListHoles returns a course's hole table ordered by hole number.  The
// caller is responsible for validating the table before using it for
// net computations; an incomplete or malformed table is returned as-is
// so validation can decide on the gross fallback.
func (r *CourseRepo) ListHoles(ctx context.Context, courseID uint64) ([]model.CourseHole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, course_id, hole, par, stroke_index
		 FROM course_holes WHERE course_id = ? ORDER BY hole`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holes []model.CourseHole
	for rows.Next() {
		var h model.CourseHole
		if err := rows.Scan(&h.ID, &h.CourseID, &h.Hole, &h.Par, &h.StrokeIndex); err != nil {
			return nil, err
		}
		holes = append(holes, h)
	}
	return holes, rows.Err()
}

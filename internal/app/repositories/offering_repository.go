package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
)

// OfferingRepository handles database operations for course offerings.
// It doubles as the seat counter: enrolled_count on the offering row is the
// authoritative count of SELECTED enrollments, and TryReserveSeat /
// ReleaseSeat mutate it with single conditional statements so the
// check-and-increment is one atomic step at the database, rather than a
// read followed by a write that two callers could interleave.
type OfferingRepository struct {
	db *pgxpool.Pool
}

// NewOfferingRepository creates a new offering repository
func NewOfferingRepository(db *pgxpool.Pool) *OfferingRepository {
	return &OfferingRepository{
		db: db,
	}
}

const offeringSelect = `
	SELECT o.id, o.course_id, o.teacher_id, o.term_id, o.section, o.classroom,
	       o.capacity, o.enrolled_count, o.status, o.selection_start, o.selection_end,
	       c.credits
	FROM offerings o
	JOIN courses c ON c.id = o.course_id
`

// Create inserts a new offering
func (r *OfferingRepository) Create(ctx context.Context, offering *models.Offering) error {
	query := `
		INSERT INTO offerings (course_id, teacher_id, term_id, section, classroom,
		                       capacity, status, selection_start, selection_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		offering.CourseID,
		offering.TeacherID,
		offering.TermID,
		offering.Section,
		offering.Classroom,
		offering.Capacity,
		offering.Status,
		offering.SelectionStart,
		offering.SelectionEnd,
	).Scan(&offering.ID)

	if err != nil {
		return fmt.Errorf("error creating offering: %w", err)
	}

	return nil
}

// GetByID retrieves one offering snapshot. Capacity, window, status and
// credit weight come from a single SELECT so the snapshot is internally
// consistent for the duration of one orchestration attempt.
func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*models.Offering, error) {
	var offering models.Offering
	err := r.db.QueryRow(ctx, offeringSelect+` WHERE o.id = $1`, id).Scan(
		&offering.ID,
		&offering.CourseID,
		&offering.TeacherID,
		&offering.TermID,
		&offering.Section,
		&offering.Classroom,
		&offering.Capacity,
		&offering.EnrolledCount,
		&offering.Status,
		&offering.SelectionStart,
		&offering.SelectionEnd,
		&offering.Credits,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("error retrieving offering: %w", err)
	}

	return &offering, nil
}

// ListByTerm retrieves all offerings of a term with their course populated
func (r *OfferingRepository) ListByTerm(ctx context.Context, termID int64) ([]*models.Offering, error) {
	query := `
		SELECT o.id, o.course_id, o.teacher_id, o.term_id, o.section, o.classroom,
		       o.capacity, o.enrolled_count, o.status, o.selection_start, o.selection_end,
		       c.id, c.code, c.name, c.description, c.department, c.credits
		FROM offerings o
		JOIN courses c ON c.id = o.course_id
		WHERE o.term_id = $1
		ORDER BY c.code, o.section
	`

	rows, err := r.db.Query(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []*models.Offering
	for rows.Next() {
		var offering models.Offering
		var course models.Course
		if err := rows.Scan(
			&offering.ID,
			&offering.CourseID,
			&offering.TeacherID,
			&offering.TermID,
			&offering.Section,
			&offering.Classroom,
			&offering.Capacity,
			&offering.EnrolledCount,
			&offering.Status,
			&offering.SelectionStart,
			&offering.SelectionEnd,
			&course.ID,
			&course.Code,
			&course.Name,
			&course.Description,
			&course.Department,
			&course.Credits,
		); err != nil {
			return nil, err
		}
		offering.Credits = course.Credits
		offering.Course = &course
		offerings = append(offerings, &offering)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return offerings, nil
}

// TryReserveSeat atomically takes one seat if any is free. The capacity
// check and the increment happen in the same UPDATE statement; under
// concurrent callers the row lock serializes them and the count can never
// pass capacity.
func (r *OfferingRepository) TryReserveSeat(ctx context.Context, offeringID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE offerings
		SET enrolled_count = enrolled_count + 1
		WHERE id = $1 AND enrolled_count < capacity`,
		offeringID)

	if err != nil {
		return false, fmt.Errorf("error reserving seat: %w", err)
	}

	return cmdTag.RowsAffected() == 1, nil
}

// ReleaseSeat atomically gives one seat back, floored at zero.
func (r *OfferingRepository) ReleaseSeat(ctx context.Context, offeringID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE offerings
		SET enrolled_count = GREATEST(enrolled_count - 1, 0)
		WHERE id = $1`,
		offeringID)

	if err != nil {
		return fmt.Errorf("error releasing seat: %w", err)
	}

	return nil
}

// UpdateStatus changes the offering's lifecycle status
func (r *OfferingRepository) UpdateStatus(ctx context.Context, id int64, status models.OfferingStatus) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE offerings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating offering status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrOfferingNotFound
	}
	return nil
}

// UpdateCapacity changes the capacity. The statement only matches while no
// seat is taken, so the edit cannot race an active enrollment below the
// new capacity.
func (r *OfferingRepository) UpdateCapacity(ctx context.Context, id int64, capacity int) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE offerings
		SET capacity = $1
		WHERE id = $2 AND enrolled_count = 0`,
		capacity, id)

	if err != nil {
		return fmt.Errorf("error updating offering capacity: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing row from one with active enrollments
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return apperrors.ErrOfferingHasEnrollment
	}

	return nil
}

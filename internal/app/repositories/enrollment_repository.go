package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/db"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
	"github.com/yigit/courseselect/internal/pkg/dberrors"
)

// activeEnrollmentConstraint is the partial unique index guaranteeing at
// most one SELECTED record per (student, offering) pair.
const activeEnrollmentConstraint = "enrollments_active_unique"

// EnrollmentRepository is the durable enrollment ledger. Records are only
// inserted or transitioned SELECTED -> DROPPED, never deleted.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// CreateSelected inserts a new enrollment in state SELECTED and returns its
// id. A concurrent duplicate for the same (student, offering) hits the
// partial unique index and surfaces as ErrAlreadySelected.
func (r *EnrollmentRepository) CreateSelected(ctx context.Context, studentID, offeringID int64, at time.Time) (int64, error) {
	query := `
		INSERT INTO enrollments (student_id, offering_id, status, selected_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, studentID, offeringID, models.EnrollmentSelected, at).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, activeEnrollmentConstraint) {
			return 0, apperrors.ErrAlreadySelected
		}
		return 0, fmt.Errorf("error creating enrollment: %w", err)
	}

	return id, nil
}

// GetActive retrieves the SELECTED enrollment for a (student, offering)
// pair, or ErrNotSelected if none exists.
func (r *EnrollmentRepository) GetActive(ctx context.Context, studentID, offeringID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, offering_id, status, selected_at, dropped_at
		FROM enrollments
		WHERE student_id = $1 AND offering_id = $2 AND status = $3
	`

	var enrollment models.Enrollment
	err := r.db.QueryRow(ctx, query, studentID, offeringID, models.EnrollmentSelected).Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.OfferingID,
		&enrollment.Status,
		&enrollment.SelectedAt,
		&enrollment.DroppedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotSelected
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// HasActive reports whether a SELECTED enrollment exists for the pair
func (r *EnrollmentRepository) HasActive(ctx context.Context, studentID, offeringID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM enrollments
			WHERE student_id = $1 AND offering_id = $2 AND status = $3
		)`,
		studentID, offeringID, models.EnrollmentSelected).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}

	return exists, nil
}

// DropAndRelease transitions an enrollment to DROPPED and gives its seat
// back in one transaction; the counter never moves without the status and
// vice versa. The status condition makes the transition idempotent under
// races: only one caller observes a matched row, and a losing caller rolls
// back without touching the counter.
func (r *EnrollmentRepository) DropAndRelease(ctx context.Context, enrollmentID, offeringID int64, at time.Time) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE enrollments
			SET status = $1, dropped_at = $2
			WHERE id = $3 AND status = $4`,
			models.EnrollmentDropped, at, enrollmentID, models.EnrollmentSelected)

		if err != nil {
			return fmt.Errorf("error dropping enrollment: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotSelected
		}

		if _, err := tx.Exec(ctx, `
			UPDATE offerings
			SET enrolled_count = GREATEST(enrolled_count - 1, 0)
			WHERE id = $1`, offeringID); err != nil {
			return fmt.Errorf("error releasing seat: %w", err)
		}

		return nil
	})
}

// ActiveCredits sums the course credits of all SELECTED enrollments the
// student holds in the given term.
func (r *EnrollmentRepository) ActiveCredits(ctx context.Context, studentID, termID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(c.credits), 0)
		FROM enrollments e
		JOIN offerings o ON o.id = e.offering_id
		JOIN courses c ON c.id = o.course_id
		WHERE e.student_id = $1 AND o.term_id = $2 AND e.status = $3
	`

	var credits decimal.Decimal
	err := r.db.QueryRow(ctx, query, studentID, termID, models.EnrollmentSelected).Scan(&credits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error summing credits: %w", err)
	}

	return credits, nil
}

// ListSelectedByStudent retrieves a student's SELECTED enrollments in a
// term with offering and course populated.
func (r *EnrollmentRepository) ListSelectedByStudent(ctx context.Context, studentID, termID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.offering_id, e.status, e.selected_at, e.dropped_at,
		       o.id, o.course_id, o.teacher_id, o.term_id, o.section, o.classroom,
		       o.capacity, o.enrolled_count, o.status, o.selection_start, o.selection_end,
		       c.id, c.code, c.name, c.description, c.department, c.credits
		FROM enrollments e
		JOIN offerings o ON o.id = e.offering_id
		JOIN courses c ON c.id = o.course_id
		WHERE e.student_id = $1 AND o.term_id = $2 AND e.status = $3
		ORDER BY e.selected_at
	`

	rows, err := r.db.Query(ctx, query, studentID, termID, models.EnrollmentSelected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEnrollmentRows(rows)
}

// ListByOffering retrieves all SELECTED enrollments of an offering with the
// student and user populated, for the teacher's roster view.
func (r *EnrollmentRepository) ListByOffering(ctx context.Context, offeringID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.offering_id, e.status, e.selected_at, e.dropped_at,
		       s.id, s.user_id, s.number, s.major, s.enroll_year, s.max_credits,
		       u.id, u.email, u.first_name, u.last_name, u.role_type
		FROM enrollments e
		JOIN students s ON s.id = e.student_id
		JOIN users u ON u.id = s.user_id
		WHERE e.offering_id = $1 AND e.status = $2
		ORDER BY e.selected_at
	`

	rows, err := r.db.Query(ctx, query, offeringID, models.EnrollmentSelected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		var student models.Student
		var user models.User
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.StudentID,
			&enrollment.OfferingID,
			&enrollment.Status,
			&enrollment.SelectedAt,
			&enrollment.DroppedAt,
			&student.ID,
			&student.UserID,
			&student.Number,
			&student.Major,
			&student.EnrollYear,
			&student.MaxCredits,
			&user.ID,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.RoleType,
		); err != nil {
			return nil, err
		}
		student.User = &user
		enrollment.Student = &student
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

func scanEnrollmentRows(rows pgx.Rows) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		var offering models.Offering
		var course models.Course
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.StudentID,
			&enrollment.OfferingID,
			&enrollment.Status,
			&enrollment.SelectedAt,
			&enrollment.DroppedAt,
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
		enrollment.Offering = &offering
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

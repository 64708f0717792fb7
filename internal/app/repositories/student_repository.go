package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
	"github.com/yigit/courseselect/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// Create inserts a new student record
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (user_id, number, major, enroll_year, max_credits)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		student.UserID,
		student.Number,
		student.Major,
		student.EnrollYear,
		student.MaxCredits,
	).Scan(&student.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_number_key") {
			return apperrors.ErrStudentNumberAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByUserID retrieves the student record attached to a user account
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, userID)
}

func (r *StudentRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Student, error) {
	query := `
		SELECT id, user_id, number, major, enroll_year, max_credits
		FROM students ` + where

	var student models.Student
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&student.ID,
		&student.UserID,
		&student.Number,
		&student.Major,
		&student.EnrollYear,
		&student.MaxCredits,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

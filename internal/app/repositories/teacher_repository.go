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

// TeacherRepository handles database operations for teachers
type TeacherRepository struct {
	db *pgxpool.Pool
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{
		db: db,
	}
}

// Create inserts a new teacher record
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (user_id, title, department)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, teacher.UserID, teacher.Title, teacher.Department).Scan(&teacher.ID)
	if err != nil {
		return fmt.Errorf("error creating teacher: %w", err)
	}

	return nil
}

// GetByID retrieves a teacher by ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByUserID retrieves the teacher record attached to a user account
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, userID)
}

func (r *TeacherRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Teacher, error) {
	query := `
		SELECT id, user_id, title, department
		FROM teachers ` + where

	var teacher models.Teacher
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&teacher.ID,
		&teacher.UserID,
		&teacher.Title,
		&teacher.Department,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}

	return &teacher, nil
}

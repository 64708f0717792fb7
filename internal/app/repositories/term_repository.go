package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/db"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
	"github.com/yigit/courseselect/internal/pkg/dberrors"
)

// TermRepository handles database operations for academic terms
type TermRepository struct {
	db *pgxpool.Pool
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *pgxpool.Pool) *TermRepository {
	return &TermRepository{
		db: db,
	}
}

// Create inserts a new term
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (name, year, season, start_date, end_date, is_current)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		term.Name,
		term.Year,
		term.Season,
		term.StartDate,
		term.EndDate,
		term.IsCurrent,
	).Scan(&term.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "terms_year_season_key") {
			return apperrors.ErrTermAlreadyExists
		}
		return fmt.Errorf("error creating term: %w", err)
	}

	return nil
}

// GetByID retrieves a term by ID
func (r *TermRepository) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetCurrent retrieves the term flagged as current
func (r *TermRepository) GetCurrent(ctx context.Context) (*models.Term, error) {
	term, err := r.getOne(ctx, `WHERE is_current`)
	if err != nil {
		if errors.Is(err, apperrors.ErrTermNotFound) {
			return nil, apperrors.ErrNoCurrentTerm
		}
		return nil, err
	}
	return term, nil
}

// SetCurrent flags the given term as current and clears the flag on all
// others, in one transaction so there is never more or less than one
// current term observable.
func (r *TermRepository) SetCurrent(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE terms SET is_current = FALSE WHERE is_current`); err != nil {
			return fmt.Errorf("error clearing current term: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `UPDATE terms SET is_current = TRUE WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error setting current term: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrTermNotFound
		}

		return nil
	})
}

// GetAll retrieves all terms ordered by start date, newest first
func (r *TermRepository) GetAll(ctx context.Context) ([]*models.Term, error) {
	query := `
		SELECT id, name, year, season, start_date, end_date, is_current
		FROM terms
		ORDER BY start_date DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		var term models.Term
		if err := rows.Scan(
			&term.ID,
			&term.Name,
			&term.Year,
			&term.Season,
			&term.StartDate,
			&term.EndDate,
			&term.IsCurrent,
		); err != nil {
			return nil, err
		}
		terms = append(terms, &term)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return terms, nil
}

func (r *TermRepository) getOne(ctx context.Context, where string, args ...interface{}) (*models.Term, error) {
	query := `
		SELECT id, name, year, season, start_date, end_date, is_current
		FROM terms ` + where

	var term models.Term
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&term.ID,
		&term.Name,
		&term.Year,
		&term.Season,
		&term.StartDate,
		&term.EndDate,
		&term.IsCurrent,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTermNotFound
		}
		return nil, fmt.Errorf("error retrieving term: %w", err)
	}

	return &term, nil
}

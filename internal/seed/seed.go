package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/yigit/courseselect/internal/app/models"
	appRepos "github.com/yigit/courseselect/internal/app/repositories"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
	"github.com/yigit/courseselect/internal/pkg/auth"
)

const defaultAdminEmail = "admin@courseselect.edu"

// CreateDefaultData creates the default admin account if it doesn't exist.
// Terms, courses and offerings are created by the admin through the API.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	_, err := userRepo.GetByEmail(ctx, defaultAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking for default admin user")
		return err
	}

	lgr.Info().Msg("Creating default admin user...")

	hashedPassword, err := auth.HashPassword("Admin123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Email:        defaultAdminEmail,
		PasswordHash: hashedPassword,
		FirstName:    "System",
		LastName:     "Administrator",
		RoleType:     appModels.RoleAdmin,
		IsActive:     true,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created")
	return nil
}

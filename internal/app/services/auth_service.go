package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/app/models/dto"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
	"github.com/yigit/courseselect/internal/pkg/auth"
	"github.com/yigit/courseselect/internal/pkg/logger"
)

// UserAccounts is the account store consumed by the auth service
type UserAccounts interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// StudentRecords creates student profiles during registration
type StudentRecords interface {
	Create(ctx context.Context, student *models.Student) error
}

// TeacherRecords creates teacher profiles during registration
type TeacherRecords interface {
	Create(ctx context.Context, teacher *models.Teacher) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	users      UserAccounts
	students   StudentRecords
	teachers   TeacherRecords
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	users UserAccounts,
	students StudentRecords,
	teachers TeacherRecords,
	jwtService *auth.JWTService,
) AuthService {
	return &authServiceImpl{
		users:      users,
		students:   students,
		teachers:   teachers,
		jwtService: jwtService,
	}
}

// Register creates a user account with its role profile. Students get a
// student record keyed by their student number; teachers get a teacher
// record. Admin accounts are not self-registerable.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}

	role := models.RoleType(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleTeacher {
		return nil, fmt.Errorf("%w: role must be STUDENT or TEACHER", apperrors.ErrValidationFailed)
	}

	if role == models.RoleStudent && strings.TrimSpace(req.Number) == "" {
		return nil, fmt.Errorf("%w: student number cannot be empty", apperrors.ErrValidationFailed)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		RoleType:     role,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	switch role {
	case models.RoleStudent:
		student := &models.Student{
			UserID:     user.ID,
			Number:     strings.TrimSpace(req.Number),
			Major:      strings.TrimSpace(req.Major),
			EnrollYear: time.Now().Year(),
		}
		if err := s.students.Create(ctx, student); err != nil {
			return nil, err
		}
		logger.Info().Int64("userId", user.ID).Str("number", student.Number).Msg("Student registered")

	case models.RoleTeacher:
		teacher := &models.Teacher{
			UserID:     user.ID,
			Title:      strings.TrimSpace(req.Title),
			Department: strings.TrimSpace(req.Department),
		}
		if err := s.teachers.Create(ctx, teacher); err != nil {
			return nil, err
		}
		logger.Info().Int64("userId", user.ID).Str("department", teacher.Department).Msg("Teacher registered")
	}

	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Do not leak whether the account exists
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return s.tokenResponse(user)
}

// RefreshToken exchanges a valid refresh token for a fresh token pair. The
// refresh token is a self-contained signed claim, nothing is stored server
// side, so validation is signature plus expiry plus token type.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return s.tokenResponse(user)
}

func (s *authServiceImpl) tokenResponse(user *models.User) (*dto.LoginResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		UserID:           user.ID,
		RoleType:         string(user.RoleType),
	}, nil
}

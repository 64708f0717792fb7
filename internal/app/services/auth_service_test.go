package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/app/models/dto"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
	"github.com/yigit/courseselect/internal/pkg/auth"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]*models.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[user.Email]; exists {
		return apperrors.ErrEmailAlreadyExists
	}
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeStudentProfiles struct {
	created []*models.Student
}

func (f *fakeStudentProfiles) Create(_ context.Context, student *models.Student) error {
	student.ID = int64(len(f.created) + 1)
	f.created = append(f.created, student)
	return nil
}

type fakeTeacherProfiles struct {
	created []*models.Teacher
}

func (f *fakeTeacherProfiles) Create(_ context.Context, teacher *models.Teacher) error {
	teacher.ID = int64(len(f.created) + 1)
	f.created = append(f.created, teacher)
	return nil
}

type authEnv struct {
	users    *fakeUsers
	students *fakeStudentProfiles
	teachers *fakeTeacherProfiles
	service  AuthService
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	env := &authEnv{
		users:    newFakeUsers(),
		students: &fakeStudentProfiles{},
		teachers: &fakeTeacherProfiles{},
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "courseselect.test",
	})

	env.service = NewAuthService(env.users, env.students, env.teachers, jwtService)
	return env
}

func studentRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     "Student@School.edu",
		Password:  "s3cretpass",
		FirstName: "John",
		LastName:  "Doe",
		Number:    "20241234",
		Major:     "Computer Engineering",
	}
}

func TestRegisterStudent(t *testing.T) {
	env := newAuthEnv(t)

	user, err := env.service.Register(context.Background(), studentRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Email != "student@school.edu" {
		t.Fatalf("Email = %q, want lowercased", user.Email)
	}
	if user.RoleType != models.RoleStudent {
		t.Fatalf("RoleType = %s, want STUDENT", user.RoleType)
	}
	if !auth.CheckPassword(user.PasswordHash, "s3cretpass") {
		t.Fatal("stored password hash does not verify")
	}

	if len(env.students.created) != 1 {
		t.Fatalf("student records = %d, want 1", len(env.students.created))
	}
	student := env.students.created[0]
	if student.UserID != user.ID || student.Number != "20241234" {
		t.Fatalf("student record = %+v, want UserID %d and number 20241234", student, user.ID)
	}
	if len(env.teachers.created) != 0 {
		t.Fatalf("teacher records = %d, want 0", len(env.teachers.created))
	}
}

func TestRegisterTeacher(t *testing.T) {
	env := newAuthEnv(t)

	user, err := env.service.Register(context.Background(), &dto.RegisterRequest{
		Email:      "prof@school.edu",
		Password:   "s3cretpass",
		FirstName:  "Jane",
		LastName:   "Roe",
		Role:       "TEACHER",
		Title:      "Assoc. Prof.",
		Department: "Computer Engineering",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.RoleType != models.RoleTeacher {
		t.Fatalf("RoleType = %s, want TEACHER", user.RoleType)
	}
	if len(env.teachers.created) != 1 {
		t.Fatalf("teacher records = %d, want 1", len(env.teachers.created))
	}
	teacher := env.teachers.created[0]
	if teacher.UserID != user.ID || teacher.Department != "Computer Engineering" {
		t.Fatalf("teacher record = %+v, want UserID %d", teacher, user.ID)
	}
	if len(env.students.created) != 0 {
		t.Fatalf("student records = %d, want 0", len(env.students.created))
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *dto.RegisterRequest)
	}{
		{
			name:   "empty email",
			mutate: func(req *dto.RegisterRequest) { req.Email = "  " },
		},
		{
			name:   "student without number",
			mutate: func(req *dto.RegisterRequest) { req.Number = "" },
		},
		{
			name:   "admin role not self-registerable",
			mutate: func(req *dto.RegisterRequest) { req.Role = "ADMIN" },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newAuthEnv(t)
			req := studentRegistration()
			tc.mutate(req)

			_, err := env.service.Register(context.Background(), req)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("Register error = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.service.Register(ctx, studentRegistration()); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := env.service.Register(ctx, studentRegistration())
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("second Register error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	user, err := env.service.Register(ctx, studentRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := env.service.Login(ctx, &dto.LoginRequest{
		Email:    "student@school.edu",
		Password: "s3cretpass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("Login returned empty tokens")
	}
	if resp.UserID != user.ID {
		t.Fatalf("UserID = %d, want %d", resp.UserID, user.ID)
	}
	if resp.RoleType != string(models.RoleStudent) {
		t.Fatalf("RoleType = %q, want STUDENT", resp.RoleType)
	}
}

func TestLoginRejections(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	if _, err := env.service.Register(ctx, studentRegistration()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := env.service.Login(ctx, &dto.LoginRequest{Email: "student@school.edu", Password: "wrong"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("Login wrong password error = %v, want ErrInvalidCredentials", err)
	}

	_, err = env.service.Login(ctx, &dto.LoginRequest{Email: "nobody@school.edu", Password: "s3cretpass"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("Login unknown email error = %v, want ErrInvalidCredentials", err)
	}

	env.users.byEmail["student@school.edu"].IsActive = false
	_, err = env.service.Login(ctx, &dto.LoginRequest{Email: "student@school.edu", Password: "s3cretpass"})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Fatalf("Login disabled account error = %v, want ErrAccountDisabled", err)
	}
}

func TestRefreshToken(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	user, err := env.service.Register(ctx, studentRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	login, err := env.service.Login(ctx, &dto.LoginRequest{
		Email:    "student@school.edu",
		Password: "s3cretpass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	renewed, err := env.service.RefreshToken(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if renewed.AccessToken == "" || renewed.RefreshToken == "" {
		t.Fatal("RefreshToken returned empty tokens")
	}
	if renewed.UserID != user.ID {
		t.Fatalf("UserID = %d, want %d", renewed.UserID, user.ID)
	}

	// An access token is not accepted in place of a refresh token.
	if _, err := env.service.RefreshToken(ctx, login.AccessToken); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("RefreshToken with access token error = %v, want ErrTokenInvalid", err)
	}

	if _, err := env.service.RefreshToken(ctx, "not-a-token"); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("RefreshToken with garbage error = %v, want ErrTokenInvalid", err)
	}

	env.users.byEmail["student@school.edu"].IsActive = false
	if _, err := env.service.RefreshToken(ctx, login.RefreshToken); !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Fatalf("RefreshToken disabled account error = %v, want ErrAccountDisabled", err)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
	"github.com/yigit/courseselect/internal/pkg/keymutex"
	"github.com/yigit/courseselect/internal/pkg/logger"
)

// OfferingCatalog provides internally consistent offering snapshots
type OfferingCatalog interface {
	GetByID(ctx context.Context, id int64) (*models.Offering, error)
}

// SeatCounter is the authoritative count of SELECTED enrollments per
// offering. TryReserveSeat must check and increment in one atomic step per
// offering; ReleaseSeat decrements floored at zero.
type SeatCounter interface {
	TryReserveSeat(ctx context.Context, offeringID int64) (bool, error)
	ReleaseSeat(ctx context.Context, offeringID int64) error
}

// EnrollmentLedger is the durable record of (student, offering)
// relationships and their lifecycle state. DropAndRelease commits the
// SELECTED -> DROPPED transition and the seat decrement in one
// transaction; a failure leaves both untouched.
type EnrollmentLedger interface {
	CreateSelected(ctx context.Context, studentID, offeringID int64, at time.Time) (int64, error)
	GetActive(ctx context.Context, studentID, offeringID int64) (*models.Enrollment, error)
	HasActive(ctx context.Context, studentID, offeringID int64) (bool, error)
	DropAndRelease(ctx context.Context, enrollmentID, offeringID int64, at time.Time) error
	ActiveCredits(ctx context.Context, studentID, termID int64) (decimal.Decimal, error)
	ListSelectedByStudent(ctx context.Context, studentID, termID int64) ([]*models.Enrollment, error)
	ListByOffering(ctx context.Context, offeringID int64) ([]*models.Enrollment, error)
}

// StudentDirectory resolves students and their credit ceilings
type StudentDirectory interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

// TermResolver resolves the designated current term
type TermResolver interface {
	GetCurrent(ctx context.Context) (*models.Term, error)
}

// TeacherDirectory resolves teachers for roster permission checks
type TeacherDirectory interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
}

// EnrollmentService defines the interface for course selection operations
type EnrollmentService interface {
	SelectCourse(ctx context.Context, userID, offeringID int64) (int64, error)
	DropCourse(ctx context.Context, userID, offeringID int64) error
	GetMyCourses(ctx context.Context, userID int64) ([]*models.Enrollment, error)
	GetCreditPosition(ctx context.Context, userID int64) (*CreditPosition, error)
	GetRoster(ctx context.Context, userID, offeringID int64) ([]*models.Enrollment, error)
}

// CreditPosition is the service-level credit position result
type CreditPosition struct {
	TermID     int64
	Credits    decimal.Decimal
	MaxCredits decimal.Decimal
}

// EnrollmentConfig carries the tunables of the enrollment engine
type EnrollmentConfig struct {
	// DefaultMaxCredits applies to students without an explicit override
	DefaultMaxCredits decimal.Decimal
	// DropGracePeriod extends the drop window past the selection end
	DropGracePeriod time.Duration
}

// enrollmentServiceImpl implements the EnrollmentService interface. It is
// the only writer of enrollment state: every select or drop is validated
// here and committed as one unit, or rejected with a typed error and no
// side effect.
type enrollmentServiceImpl struct {
	catalog  OfferingCatalog
	seats    SeatCounter
	ledger   EnrollmentLedger
	students StudentDirectory
	teachers TeacherDirectory
	terms    TermResolver
	config   EnrollmentConfig

	// studentLocks serializes selects and drops per student so two
	// concurrent requests by the same student cannot both read a credit
	// total with room to spare and jointly exceed the ceiling. Requests
	// by different students proceed in parallel; seat contention between
	// them is resolved by the seat counter's atomic step alone.
	studentLocks *keymutex.KeyMutex

	// now is injectable for window tests
	now func() time.Time
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	catalog OfferingCatalog,
	seats SeatCounter,
	ledger EnrollmentLedger,
	students StudentDirectory,
	teachers TeacherDirectory,
	terms TermResolver,
	config EnrollmentConfig,
) EnrollmentService {
	return &enrollmentServiceImpl{
		catalog:      catalog,
		seats:        seats,
		ledger:       ledger,
		students:     students,
		teachers:     teachers,
		terms:        terms,
		config:       config,
		studentLocks: keymutex.New(0),
		now:          time.Now,
	}
}

// SelectCourse reserves a seat in an offering for the student behind
// userID. On success it returns the new enrollment id. Every failure is
// one of the typed enrollment errors and leaves no state behind.
func (s *enrollmentServiceImpl) SelectCourse(ctx context.Context, userID, offeringID int64) (int64, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	term, err := s.terms.GetCurrent(ctx)
	if err != nil {
		return 0, err
	}

	offering, err := s.catalog.GetByID(ctx, offeringID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	if err := validateSelectable(offering, term, now); err != nil {
		return 0, err
	}

	s.studentLocks.Lock(student.ID)
	defer s.studentLocks.Unlock(student.ID)

	selected, err := s.ledger.HasActive(ctx, student.ID, offeringID)
	if err != nil {
		return 0, fmt.Errorf("error checking active enrollment: %w", err)
	}
	if selected {
		return 0, apperrors.ErrAlreadySelected
	}

	if err := s.checkCreditCeiling(ctx, student, term.ID, offering.Credits); err != nil {
		return 0, err
	}

	reserved, err := s.seats.TryReserveSeat(ctx, offeringID)
	if err != nil {
		return 0, fmt.Errorf("error reserving seat: %w", err)
	}
	if !reserved {
		return 0, apperrors.ErrCourseFull
	}

	enrollmentID, err := s.ledger.CreateSelected(ctx, student.ID, offeringID, now)
	if err != nil {
		// The seat was taken but the ledger row never materialized; give
		// the seat back so the reservation is not observable. The request
		// context may already be dead (a timeout here is the usual reason
		// the insert failed), so the release must not inherit its cancel.
		if relErr := s.seats.ReleaseSeat(context.WithoutCancel(ctx), offeringID); relErr != nil {
			logger.Error().Err(relErr).
				Int64("offeringId", offeringID).
				Msg("Failed to release seat after ledger write failure")
		}
		if errors.Is(err, apperrors.ErrAlreadySelected) {
			return 0, err
		}
		return 0, fmt.Errorf("error persisting enrollment: %w", err)
	}

	logger.Info().
		Int64("studentId", student.ID).
		Int64("offeringId", offeringID).
		Int64("enrollmentId", enrollmentID).
		Msg("Course selected")

	return enrollmentID, nil
}

// DropCourse withdraws the student from an offering within the drop window
func (s *enrollmentServiceImpl) DropCourse(ctx context.Context, userID, offeringID int64) error {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	s.studentLocks.Lock(student.ID)
	defer s.studentLocks.Unlock(student.ID)

	enrollment, err := s.ledger.GetActive(ctx, student.ID, offeringID)
	if err != nil {
		return err
	}

	offering, err := s.catalog.GetByID(ctx, offeringID)
	if err != nil {
		return err
	}

	now := s.now()
	if offering.DropWindowExpired(now, s.config.DropGracePeriod) {
		return apperrors.ErrDropWindowExpired
	}

	// The conditional transition wins or loses atomically and the seat
	// release commits with it; a lost race or a failed transaction leaves
	// the seat counted and the record SELECTED, so the drop is retryable.
	if err := s.ledger.DropAndRelease(ctx, enrollment.ID, offeringID, now); err != nil {
		return err
	}

	logger.Info().
		Int64("studentId", student.ID).
		Int64("offeringId", offeringID).
		Msg("Course dropped")

	return nil
}

// GetMyCourses lists the student's SELECTED enrollments in the current term
func (s *enrollmentServiceImpl) GetMyCourses(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	term, err := s.terms.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	return s.ledger.ListSelectedByStudent(ctx, student.ID, term.ID)
}

// GetCreditPosition reports the student's active credit total against the
// applicable ceiling for the current term
func (s *enrollmentServiceImpl) GetCreditPosition(ctx context.Context, userID int64) (*CreditPosition, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	term, err := s.terms.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	credits, err := s.ledger.ActiveCredits(ctx, student.ID, term.ID)
	if err != nil {
		return nil, fmt.Errorf("error summing credits: %w", err)
	}

	return &CreditPosition{
		TermID:     term.ID,
		Credits:    credits,
		MaxCredits: s.maxCredits(student),
	}, nil
}

// GetRoster lists the SELECTED enrollments of an offering for its teacher
func (s *enrollmentServiceImpl) GetRoster(ctx context.Context, userID, offeringID int64) ([]*models.Enrollment, error) {
	teacher, err := s.teachers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	offering, err := s.catalog.GetByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	if offering.TeacherID != teacher.ID {
		return nil, apperrors.NewForbiddenError("offering belongs to another teacher")
	}

	return s.ledger.ListByOffering(ctx, offeringID)
}

// checkCreditCeiling rejects the select when adding the offering's credits
// would push the student's active total past the ceiling. Equal to the
// ceiling is allowed. Callers must hold the student's lock.
func (s *enrollmentServiceImpl) checkCreditCeiling(ctx context.Context, student *models.Student, termID int64, credits decimal.Decimal) error {
	current, err := s.ledger.ActiveCredits(ctx, student.ID, termID)
	if err != nil {
		return fmt.Errorf("error summing credits: %w", err)
	}

	if current.Add(credits).GreaterThan(s.maxCredits(student)) {
		return apperrors.ErrCreditsExceeded
	}

	return nil
}

func (s *enrollmentServiceImpl) maxCredits(student *models.Student) decimal.Decimal {
	if student.MaxCredits != nil {
		return *student.MaxCredits
	}
	return s.config.DefaultMaxCredits
}

// validateSelectable applies the offering-side select rules in order:
// window not yet open or offering not open, window closed, term mismatch.
func validateSelectable(offering *models.Offering, term *models.Term, now time.Time) error {
	if offering.TermID != term.ID {
		return apperrors.ErrNotOpenForSelection
	}

	if offering.SelectionNotStarted(now) || offering.Status != models.OfferingOpen {
		return apperrors.ErrNotOpenForSelection
	}

	if offering.SelectionEnded(now) {
		return apperrors.ErrSelectionClosed
	}

	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/app/models/dto"
	"github.com/yigit/courseselect/internal/app/repositories"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
)

// CatalogService defines the interface for course, offering and term
// management plus the student-facing offering listing
type CatalogService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	CreateOffering(ctx context.Context, req *dto.CreateOfferingRequest) (*models.Offering, error)
	UpdateOfferingStatus(ctx context.Context, id int64, status models.OfferingStatus) error
	UpdateOfferingCapacity(ctx context.Context, id int64, capacity int) error
	CreateTerm(ctx context.Context, req *dto.CreateTermRequest) (*models.Term, error)
	SetCurrentTerm(ctx context.Context, id int64) error
	GetAllTerms(ctx context.Context) ([]*models.Term, error)
	ListAvailableOfferings(ctx context.Context, userID int64) ([]*dto.AvailableOfferingResponse, error)
}

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	courseRepo   *repositories.CourseRepository
	offeringRepo *repositories.OfferingRepository
	termRepo     *repositories.TermRepository
	teacherRepo  *repositories.TeacherRepository
	studentRepo  *repositories.StudentRepository
	enrollment   EnrollmentLedger
	config       EnrollmentConfig
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(
	courseRepo *repositories.CourseRepository,
	offeringRepo *repositories.OfferingRepository,
	termRepo *repositories.TermRepository,
	teacherRepo *repositories.TeacherRepository,
	studentRepo *repositories.StudentRepository,
	enrollment EnrollmentLedger,
	config EnrollmentConfig,
) CatalogService {
	return &catalogServiceImpl{
		courseRepo:   courseRepo,
		offeringRepo: offeringRepo,
		termRepo:     termRepo,
		teacherRepo:  teacherRepo,
		studentRepo:  studentRepo,
		enrollment:   enrollment,
		config:       config,
	}
}

// CreateCourse creates a new catalog course
func (s *catalogServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("%w: code cannot be empty", apperrors.ErrValidationFailed)
	}
	if !req.Credits.IsPositive() {
		return nil, fmt.Errorf("%w: credits must be positive", apperrors.ErrValidationFailed)
	}

	course := &models.Course{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Department:  strings.TrimSpace(req.Department),
		Credits:     req.Credits,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// GetAllCourses lists the whole course catalog
func (s *catalogServiceImpl) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

// CreateOffering schedules a new offering of a course. New offerings start
// in PENDING until explicitly opened.
func (s *catalogServiceImpl) CreateOffering(ctx context.Context, req *dto.CreateOfferingRequest) (*models.Offering, error) {
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidationFailed)
	}
	if req.SelectionStart != nil && req.SelectionEnd != nil && req.SelectionEnd.Before(*req.SelectionStart) {
		return nil, fmt.Errorf("%w: selection end precedes selection start", apperrors.ErrValidationFailed)
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.teacherRepo.GetByID(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	if _, err := s.termRepo.GetByID(ctx, req.TermID); err != nil {
		return nil, err
	}

	offering := &models.Offering{
		CourseID:       req.CourseID,
		TeacherID:      req.TeacherID,
		TermID:         req.TermID,
		Section:        strings.TrimSpace(req.Section),
		Classroom:      strings.TrimSpace(req.Classroom),
		Capacity:       req.Capacity,
		Status:         models.OfferingPending,
		SelectionStart: req.SelectionStart,
		SelectionEnd:   req.SelectionEnd,
		Credits:        course.Credits,
	}

	if err := s.offeringRepo.Create(ctx, offering); err != nil {
		return nil, err
	}

	return offering, nil
}

// UpdateOfferingStatus moves an offering through its lifecycle
func (s *catalogServiceImpl) UpdateOfferingStatus(ctx context.Context, id int64, status models.OfferingStatus) error {
	switch status {
	case models.OfferingPending, models.OfferingOpen, models.OfferingClosed, models.OfferingCancelled:
	default:
		return fmt.Errorf("%w: unknown offering status %q", apperrors.ErrValidationFailed, status)
	}

	return s.offeringRepo.UpdateStatus(ctx, id, status)
}

// UpdateOfferingCapacity edits capacity; rejected while the offering has
// active enrollments
func (s *catalogServiceImpl) UpdateOfferingCapacity(ctx context.Context, id int64, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidationFailed)
	}

	return s.offeringRepo.UpdateCapacity(ctx, id, capacity)
}

// CreateTerm creates a new academic term
func (s *catalogServiceImpl) CreateTerm(ctx context.Context, req *dto.CreateTermRequest) (*models.Term, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidationFailed)
	}

	term := &models.Term{
		Name:      strings.TrimSpace(req.Name),
		Year:      req.Year,
		Season:    req.Season,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := s.termRepo.Create(ctx, term); err != nil {
		return nil, err
	}

	return term, nil
}

// SetCurrentTerm designates the term selection is evaluated against
func (s *catalogServiceImpl) SetCurrentTerm(ctx context.Context, id int64) error {
	return s.termRepo.SetCurrent(ctx, id)
}

// GetAllTerms lists all terms
func (s *catalogServiceImpl) GetAllTerms(ctx context.Context) ([]*models.Term, error) {
	return s.termRepo.GetAll(ctx)
}

// ListAvailableOfferings lists the current term's offerings annotated with
// whether the requesting student could select each one right now. The
// annotation is advisory; SelectCourse re-validates everything under the
// engine's locks.
func (s *catalogServiceImpl) ListAvailableOfferings(ctx context.Context, userID int64) ([]*dto.AvailableOfferingResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	term, err := s.termRepo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	offerings, err := s.offeringRepo.ListByTerm(ctx, term.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing offerings: %w", err)
	}

	selected, err := s.enrollment.ListSelectedByStudent(ctx, student.ID, term.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}

	selectedSet := make(map[int64]bool, len(selected))
	currentCredits, err := s.enrollment.ActiveCredits(ctx, student.ID, term.ID)
	if err != nil {
		return nil, fmt.Errorf("error summing credits: %w", err)
	}
	for _, e := range selected {
		selectedSet[e.OfferingID] = true
	}

	maxCredits := s.config.DefaultMaxCredits
	if student.MaxCredits != nil {
		maxCredits = *student.MaxCredits
	}

	now := timeNow()
	result := make([]*dto.AvailableOfferingResponse, 0, len(offerings))
	for _, offering := range offerings {
		row := &dto.AvailableOfferingResponse{
			Offering:   offering,
			IsSelected: selectedSet[offering.ID],
		}

		switch {
		case row.IsSelected:
			row.Reason = "already selected"
		case offering.SelectionNotStarted(now) || offering.Status != models.OfferingOpen:
			row.Reason = "offering is not open for selection"
		case offering.SelectionEnded(now):
			row.Reason = "selection period has ended"
		case offering.EnrolledCount >= offering.Capacity:
			row.Reason = "offering is full"
		case currentCredits.Add(offering.Credits).GreaterThan(maxCredits):
			row.Reason = "maximum credit limit exceeded"
		default:
			row.CanSelect = true
		}

		result = append(result, row)
	}

	return result, nil
}

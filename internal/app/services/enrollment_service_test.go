package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/pkg/apperrors"
)

var testTime = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

// fakeStore is an in-memory stand-in for the offering and enrollment
// repositories. It mirrors the database guarantees the service relies on:
// the seat counter mutates atomically under the lock, and duplicate active
// enrollments are rejected the way the partial unique index would.
type fakeStore struct {
	mu          sync.Mutex
	offerings   map[int64]*models.Offering
	enrollments []*models.Enrollment
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{offerings: make(map[int64]*models.Offering)}
}

func (f *fakeStore) addOffering(o *models.Offering) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offerings[o.ID] = o
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*models.Offering, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offerings[id]
	if !ok {
		return nil, apperrors.ErrOfferingNotFound
	}
	snapshot := *o
	return &snapshot, nil
}

func (f *fakeStore) TryReserveSeat(_ context.Context, offeringID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offerings[offeringID]
	if !ok {
		return false, apperrors.ErrOfferingNotFound
	}
	if o.EnrolledCount >= o.Capacity {
		return false, nil
	}
	o.EnrolledCount++
	return true, nil
}

func (f *fakeStore) ReleaseSeat(_ context.Context, offeringID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offerings[offeringID]
	if !ok {
		return apperrors.ErrOfferingNotFound
	}
	if o.EnrolledCount > 0 {
		o.EnrolledCount--
	}
	return nil
}

func (f *fakeStore) CreateSelected(_ context.Context, studentID, offeringID int64, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.OfferingID == offeringID && e.Status == models.EnrollmentSelected {
			return 0, apperrors.ErrAlreadySelected
		}
	}
	f.nextID++
	f.enrollments = append(f.enrollments, &models.Enrollment{
		ID:         f.nextID,
		StudentID:  studentID,
		OfferingID: offeringID,
		Status:     models.EnrollmentSelected,
		SelectedAt: at,
	})
	return f.nextID, nil
}

func (f *fakeStore) GetActive(_ context.Context, studentID, offeringID int64) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.OfferingID == offeringID && e.Status == models.EnrollmentSelected {
			snapshot := *e
			return &snapshot, nil
		}
	}
	return nil, apperrors.ErrNotSelected
}

func (f *fakeStore) HasActive(_ context.Context, studentID, offeringID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.OfferingID == offeringID && e.Status == models.EnrollmentSelected {
			return true, nil
		}
	}
	return false, nil
}

// DropAndRelease mirrors the transactional repository method: the status
// transition and the seat decrement happen under one lock, or neither does.
func (f *fakeStore) DropAndRelease(_ context.Context, enrollmentID, offeringID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.ID == enrollmentID && e.Status == models.EnrollmentSelected {
			e.Status = models.EnrollmentDropped
			droppedAt := at
			e.DroppedAt = &droppedAt
			if o, ok := f.offerings[offeringID]; ok && o.EnrolledCount > 0 {
				o.EnrolledCount--
			}
			return nil
		}
	}
	return apperrors.ErrNotSelected
}

func (f *fakeStore) ActiveCredits(_ context.Context, studentID, termID int64) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, e := range f.enrollments {
		if e.StudentID != studentID || e.Status != models.EnrollmentSelected {
			continue
		}
		o, ok := f.offerings[e.OfferingID]
		if !ok || o.TermID != termID {
			continue
		}
		total = total.Add(o.Credits)
	}
	return total, nil
}

func (f *fakeStore) ListSelectedByStudent(_ context.Context, studentID, termID int64) ([]*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range f.enrollments {
		if e.StudentID != studentID || e.Status != models.EnrollmentSelected {
			continue
		}
		if o, ok := f.offerings[e.OfferingID]; !ok || o.TermID != termID {
			continue
		}
		snapshot := *e
		out = append(out, &snapshot)
	}
	return out, nil
}

func (f *fakeStore) ListByOffering(_ context.Context, offeringID int64) ([]*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range f.enrollments {
		if e.OfferingID == offeringID && e.Status == models.EnrollmentSelected {
			snapshot := *e
			out = append(out, &snapshot)
		}
	}
	return out, nil
}

// recordsFor counts ledger rows for a (student, offering) pair regardless
// of status.
func (f *fakeStore) recordsFor(studentID, offeringID int64) []*models.Enrollment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range f.enrollments {
		if e.StudentID == studentID && e.OfferingID == offeringID {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeStore) seatCount(offeringID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offerings[offeringID].EnrolledCount
}

type fakeStudents struct {
	mu       sync.Mutex
	byUserID map[int64]*models.Student
}

func (f *fakeStudents) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byUserID[userID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

type fakeTeachers struct {
	byUserID map[int64]*models.Teacher
}

func (f *fakeTeachers) GetByUserID(_ context.Context, userID int64) (*models.Teacher, error) {
	t, ok := f.byUserID[userID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return t, nil
}

type fakeTerms struct {
	current *models.Term
}

func (f *fakeTerms) GetCurrent(_ context.Context) (*models.Term, error) {
	if f.current == nil {
		return nil, apperrors.ErrNoCurrentTerm
	}
	return f.current, nil
}

type testEnv struct {
	store    *fakeStore
	students *fakeStudents
	teachers *fakeTeachers
	terms    *fakeTerms
	service  *enrollmentServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:    newFakeStore(),
		students: &fakeStudents{byUserID: make(map[int64]*models.Student)},
		teachers: &fakeTeachers{byUserID: make(map[int64]*models.Teacher)},
		terms:    &fakeTerms{current: &models.Term{ID: 1, Name: "2025 Fall", IsCurrent: true}},
	}

	svc := NewEnrollmentService(
		env.store,
		env.store,
		env.store,
		env.students,
		env.teachers,
		env.terms,
		EnrollmentConfig{
			DefaultMaxCredits: decimal.NewFromInt(30),
			DropGracePeriod:   336 * time.Hour,
		},
	)
	env.service = svc.(*enrollmentServiceImpl)
	env.service.now = func() time.Time { return testTime }
	return env
}

func (env *testEnv) addStudent(userID, studentID int64) *models.Student {
	s := &models.Student{ID: studentID, UserID: userID}
	env.students.mu.Lock()
	env.students.byUserID[userID] = s
	env.students.mu.Unlock()
	return s
}

// addOpenOffering creates an OPEN offering in the current term whose
// selection window surrounds the test clock.
func (env *testEnv) addOpenOffering(id int64, capacity int, credits int64) *models.Offering {
	start := testTime.Add(-24 * time.Hour)
	end := testTime.Add(24 * time.Hour)
	o := &models.Offering{
		ID:             id,
		CourseID:       id,
		TeacherID:      1,
		TermID:         1,
		Capacity:       capacity,
		Status:         models.OfferingOpen,
		SelectionStart: &start,
		SelectionEnd:   &end,
		Credits:        decimal.NewFromInt(credits),
	}
	env.store.addOffering(o)
	return o
}

func TestSelectCourse(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)

	id, err := env.service.SelectCourse(context.Background(), 10, 100)
	if err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if id == 0 {
		t.Fatal("SelectCourse returned zero enrollment id")
	}
	if got := env.store.seatCount(100); got != 1 {
		t.Fatalf("seat count = %d, want 1", got)
	}

	records := env.store.recordsFor(1, 100)
	if len(records) != 1 || records[0].Status != models.EnrollmentSelected {
		t.Fatalf("ledger records = %+v, want one SELECTED record", records)
	}
	if !records[0].SelectedAt.Equal(testTime) {
		t.Fatalf("SelectedAt = %v, want %v", records[0].SelectedAt, testTime)
	}
}

func TestSelectCourseWindow(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *models.Offering)
		wantErr error
	}{
		{
			name: "before window opens",
			mutate: func(o *models.Offering) {
				start := testTime.Add(time.Hour)
				o.SelectionStart = &start
			},
			wantErr: apperrors.ErrNotOpenForSelection,
		},
		{
			name: "after window closes",
			mutate: func(o *models.Offering) {
				end := testTime.Add(-time.Hour)
				o.SelectionEnd = &end
			},
			wantErr: apperrors.ErrSelectionClosed,
		},
		{
			name:    "status pending",
			mutate:  func(o *models.Offering) { o.Status = models.OfferingPending },
			wantErr: apperrors.ErrNotOpenForSelection,
		},
		{
			name:    "status closed",
			mutate:  func(o *models.Offering) { o.Status = models.OfferingClosed },
			wantErr: apperrors.ErrNotOpenForSelection,
		},
		{
			name:    "status cancelled",
			mutate:  func(o *models.Offering) { o.Status = models.OfferingCancelled },
			wantErr: apperrors.ErrNotOpenForSelection,
		},
		{
			name:    "offering from another term",
			mutate:  func(o *models.Offering) { o.TermID = 99 },
			wantErr: apperrors.ErrNotOpenForSelection,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.addStudent(10, 1)
			o := env.addOpenOffering(100, 5, 3)
			tc.mutate(o)

			_, err := env.service.SelectCourse(context.Background(), 10, 100)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("SelectCourse error = %v, want %v", err, tc.wantErr)
			}
			if got := env.store.seatCount(100); got != 0 {
				t.Fatalf("seat count = %d, want 0 after rejected select", got)
			}
		})
	}
}

func TestSelectCourseNilWindowSides(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	o := env.addOpenOffering(100, 5, 3)
	o.SelectionStart = nil
	o.SelectionEnd = nil

	// An open-ended window never blocks an OPEN offering.
	if _, err := env.service.SelectCourse(context.Background(), 10, 100); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
}

func TestSelectCourseDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)

	if _, err := env.service.SelectCourse(context.Background(), 10, 100); err != nil {
		t.Fatalf("first SelectCourse: %v", err)
	}

	_, err := env.service.SelectCourse(context.Background(), 10, 100)
	if !errors.Is(err, apperrors.ErrAlreadySelected) {
		t.Fatalf("second SelectCourse error = %v, want ErrAlreadySelected", err)
	}
	if got := env.store.seatCount(100); got != 1 {
		t.Fatalf("seat count = %d, want 1 after duplicate rejection", got)
	}
}

func TestSelectCourseCreditCeiling(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 28)
	env.addOpenOffering(101, 5, 3)
	env.addOpenOffering(102, 5, 2)

	if _, err := env.service.SelectCourse(context.Background(), 10, 100); err != nil {
		t.Fatalf("SelectCourse(28 credits): %v", err)
	}

	// 28 + 3 > 30
	_, err := env.service.SelectCourse(context.Background(), 10, 101)
	if !errors.Is(err, apperrors.ErrCreditsExceeded) {
		t.Fatalf("SelectCourse over ceiling error = %v, want ErrCreditsExceeded", err)
	}
	if got := env.store.seatCount(101); got != 0 {
		t.Fatalf("seat count = %d, want 0 after credit rejection", got)
	}

	// 28 + 2 == 30, landing exactly on the ceiling is allowed
	if _, err := env.service.SelectCourse(context.Background(), 10, 102); err != nil {
		t.Fatalf("SelectCourse at exact ceiling: %v", err)
	}
}

func TestSelectCourseStudentCreditOverride(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(10, 1)
	override := decimal.NewFromInt(10)
	student.MaxCredits = &override
	env.addOpenOffering(100, 5, 12)

	_, err := env.service.SelectCourse(context.Background(), 10, 100)
	if !errors.Is(err, apperrors.ErrCreditsExceeded) {
		t.Fatalf("SelectCourse error = %v, want ErrCreditsExceeded with per-student ceiling", err)
	}
}

func TestSelectCourseFull(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addStudent(11, 2)
	env.addOpenOffering(100, 1, 3)

	if _, err := env.service.SelectCourse(context.Background(), 10, 100); err != nil {
		t.Fatalf("first SelectCourse: %v", err)
	}

	_, err := env.service.SelectCourse(context.Background(), 11, 100)
	if !errors.Is(err, apperrors.ErrCourseFull) {
		t.Fatalf("SelectCourse error = %v, want ErrCourseFull", err)
	}
	if got := env.store.seatCount(100); got != 1 {
		t.Fatalf("seat count = %d, want 1", got)
	}
}

func TestConcurrentSelectsNeverOverfill(t *testing.T) {
	const students = 20
	const capacity = 3

	env := newTestEnv(t)
	env.addOpenOffering(100, capacity, 3)
	for i := 0; i < students; i++ {
		env.addStudent(int64(10+i), int64(1+i))
	}

	var wg sync.WaitGroup
	errs := make([]error, students)
	for i := 0; i < students; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.SelectCourse(context.Background(), int64(10+i), 100)
		}(i)
	}
	wg.Wait()

	var won, full int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, apperrors.ErrCourseFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if won != capacity {
		t.Fatalf("winners = %d, want %d", won, capacity)
	}
	if full != students-capacity {
		t.Fatalf("rejections = %d, want %d", full, students-capacity)
	}
	if got := env.store.seatCount(100); got != capacity {
		t.Fatalf("seat count = %d, want %d", got, capacity)
	}
}

func TestConcurrentLastSeatHasOneWinner(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addStudent(11, 2)
	env.addOpenOffering(100, 1, 3)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []int64{10, 11} {
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			_, errs[i] = env.service.SelectCourse(context.Background(), userID, 100)
		}(i, userID)
	}
	wg.Wait()

	if (errs[0] == nil) == (errs[1] == nil) {
		t.Fatalf("want exactly one winner, got errors %v and %v", errs[0], errs[1])
	}
	if got := env.store.seatCount(100); got != 1 {
		t.Fatalf("seat count = %d, want 1", got)
	}
}

func TestConcurrentSameStudentCreditCeiling(t *testing.T) {
	env := newTestEnv(t)
	student := env.addStudent(10, 1)
	ceiling := decimal.NewFromInt(6)
	student.MaxCredits = &ceiling

	const offerings = 5
	for i := 0; i < offerings; i++ {
		env.addOpenOffering(int64(100+i), 10, 3)
	}

	var wg sync.WaitGroup
	errs := make([]error, offerings)
	for i := 0; i < offerings; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.SelectCourse(context.Background(), 10, int64(100+i))
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, apperrors.ErrCreditsExceeded):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 6 credit ceiling, 3 credits each: exactly two selects can land.
	if won != 2 {
		t.Fatalf("winners = %d, want 2", won)
	}

	total, err := env.store.ActiveCredits(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("ActiveCredits: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("active credits = %s, want 6", total)
	}
}

func TestDropCourse(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)

	if _, err := env.service.SelectCourse(context.Background(), 10, 100); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if err := env.service.DropCourse(context.Background(), 10, 100); err != nil {
		t.Fatalf("DropCourse: %v", err)
	}

	if got := env.store.seatCount(100); got != 0 {
		t.Fatalf("seat count = %d, want 0 after drop", got)
	}

	records := env.store.recordsFor(1, 100)
	if len(records) != 1 {
		t.Fatalf("ledger records = %d, want 1", len(records))
	}
	if records[0].Status != models.EnrollmentDropped {
		t.Fatalf("record status = %s, want DROPPED", records[0].Status)
	}
	if records[0].DroppedAt == nil || !records[0].DroppedAt.Equal(testTime) {
		t.Fatalf("DroppedAt = %v, want %v", records[0].DroppedAt, testTime)
	}
}

func TestDropThenReselectKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)

	ctx := context.Background()
	if _, err := env.service.SelectCourse(ctx, 10, 100); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if err := env.service.DropCourse(ctx, 10, 100); err != nil {
		t.Fatalf("DropCourse: %v", err)
	}
	if _, err := env.service.SelectCourse(ctx, 10, 100); err != nil {
		t.Fatalf("re-SelectCourse: %v", err)
	}

	records := env.store.recordsFor(1, 100)
	if len(records) != 2 {
		t.Fatalf("ledger records = %d, want 2 (history preserved)", len(records))
	}

	var selected, dropped int
	for _, r := range records {
		switch r.Status {
		case models.EnrollmentSelected:
			selected++
		case models.EnrollmentDropped:
			dropped++
		}
	}
	if selected != 1 || dropped != 1 {
		t.Fatalf("records = %d SELECTED / %d DROPPED, want 1/1", selected, dropped)
	}
	if got := env.store.seatCount(100); got != 1 {
		t.Fatalf("seat count = %d, want 1 after re-select", got)
	}
}

func TestDropCourseNotSelected(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)

	err := env.service.DropCourse(context.Background(), 10, 100)
	if !errors.Is(err, apperrors.ErrNotSelected) {
		t.Fatalf("DropCourse error = %v, want ErrNotSelected", err)
	}
}

func TestDropCourseGracePeriod(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	o := env.addOpenOffering(100, 5, 3)

	ctx := context.Background()
	if _, err := env.service.SelectCourse(ctx, 10, 100); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}

	// Just inside the grace period after the window closed: the select
	// window is shut but the drop still goes through.
	env.service.now = func() time.Time { return o.SelectionEnd.Add(335 * time.Hour) }
	if _, err := env.service.SelectCourse(ctx, 10, 100); !errors.Is(err, apperrors.ErrSelectionClosed) {
		t.Fatalf("SelectCourse after close error = %v, want ErrSelectionClosed", err)
	}
	if err := env.service.DropCourse(ctx, 10, 100); err != nil {
		t.Fatalf("DropCourse within grace: %v", err)
	}

	// Re-arm and move past the grace period.
	if _, err := env.store.CreateSelected(ctx, 1, 100, testTime); err != nil {
		t.Fatalf("CreateSelected: %v", err)
	}
	env.store.TryReserveSeat(ctx, 100)

	env.service.now = func() time.Time { return o.SelectionEnd.Add(337 * time.Hour) }
	err := env.service.DropCourse(ctx, 10, 100)
	if !errors.Is(err, apperrors.ErrDropWindowExpired) {
		t.Fatalf("DropCourse past grace error = %v, want ErrDropWindowExpired", err)
	}
	if got := env.store.seatCount(100); got != 1 {
		t.Fatalf("seat count = %d, want 1 after rejected drop", got)
	}
}

func TestDropCourseNoSelectionEndNeverExpires(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	o := env.addOpenOffering(100, 5, 3)
	o.SelectionEnd = nil

	ctx := context.Background()
	if _, err := env.service.SelectCourse(ctx, 10, 100); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}

	env.service.now = func() time.Time { return testTime.Add(10000 * time.Hour) }
	if err := env.service.DropCourse(ctx, 10, 100); err != nil {
		t.Fatalf("DropCourse: %v", err)
	}
}

// failingLedger passes everything through except CreateSelected.
type failingLedger struct {
	*fakeStore
}

func (f *failingLedger) CreateSelected(context.Context, int64, int64, time.Time) (int64, error) {
	return 0, fmt.Errorf("insert failed")
}

func TestSelectReleasesSeatWhenLedgerWriteFails(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)
	env.service.ledger = &failingLedger{env.store}

	_, err := env.service.SelectCourse(context.Background(), 10, 100)
	if err == nil {
		t.Fatal("SelectCourse succeeded, want error")
	}
	if got := env.store.seatCount(100); got != 0 {
		t.Fatalf("seat count = %d, want 0 after compensating release", got)
	}
}

// cancelingLedger cancels the request context from inside the insert, the
// way a statement timing out mid-request would, and mutates nothing.
type cancelingLedger struct {
	*fakeStore
	cancel context.CancelFunc
}

func (l *cancelingLedger) CreateSelected(context.Context, int64, int64, time.Time) (int64, error) {
	l.cancel()
	return 0, context.Canceled
}

// ctxSeats refuses work once the request context is done, like a real
// connection pool would.
type ctxSeats struct {
	*fakeStore
}

func (c *ctxSeats) ReleaseSeat(ctx context.Context, offeringID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.fakeStore.ReleaseSeat(ctx, offeringID)
}

func TestSelectCompensatesAfterRequestCanceled(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.service.seats = &ctxSeats{env.store}
	env.service.ledger = &cancelingLedger{fakeStore: env.store, cancel: cancel}

	if _, err := env.service.SelectCourse(ctx, 10, 100); err == nil {
		t.Fatal("SelectCourse succeeded, want error")
	}

	// The dead request context must not block the compensating release:
	// a reserved seat with no ledger row would otherwise leak forever.
	if got := env.store.seatCount(100); got != 0 {
		t.Fatalf("seat count = %d, want 0 after canceled select", got)
	}
	if records := env.store.recordsFor(1, 100); len(records) != 0 {
		t.Fatalf("ledger records = %d, want 0 after canceled select", len(records))
	}
}

// failingDropLedger rejects the drop transaction without mutating anything,
// like a rolled-back transaction.
type failingDropLedger struct {
	*fakeStore
}

func (f *failingDropLedger) DropAndRelease(context.Context, int64, int64, time.Time) error {
	return fmt.Errorf("transaction failed")
}

func TestDropLeavesNoPartialStateOnFailure(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)

	ctx := context.Background()
	if _, err := env.service.SelectCourse(ctx, 10, 100); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}

	env.service.ledger = &failingDropLedger{env.store}
	if err := env.service.DropCourse(ctx, 10, 100); err == nil {
		t.Fatal("DropCourse succeeded, want error")
	}

	// Failed drop must leave the seat counted and the record SELECTED so
	// the student can retry; a half-applied drop would brick the seat.
	if got := env.store.seatCount(100); got != 1 {
		t.Fatalf("seat count = %d, want 1 after failed drop", got)
	}
	records := env.store.recordsFor(1, 100)
	if len(records) != 1 || records[0].Status != models.EnrollmentSelected {
		t.Fatalf("ledger records = %+v, want one SELECTED record", records)
	}

	// Retry with a healthy ledger succeeds cleanly.
	env.service.ledger = env.store
	if err := env.service.DropCourse(ctx, 10, 100); err != nil {
		t.Fatalf("retry DropCourse: %v", err)
	}
	if got := env.store.seatCount(100); got != 0 {
		t.Fatalf("seat count = %d, want 0 after retried drop", got)
	}
}

func TestGetCreditPosition(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)
	env.addOpenOffering(101, 5, 4)

	ctx := context.Background()
	for _, id := range []int64{100, 101} {
		if _, err := env.service.SelectCourse(ctx, 10, id); err != nil {
			t.Fatalf("SelectCourse(%d): %v", id, err)
		}
	}

	pos, err := env.service.GetCreditPosition(ctx, 10)
	if err != nil {
		t.Fatalf("GetCreditPosition: %v", err)
	}
	if pos.TermID != 1 {
		t.Fatalf("TermID = %d, want 1", pos.TermID)
	}
	if !pos.Credits.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("Credits = %s, want 7", pos.Credits)
	}
	if !pos.MaxCredits.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("MaxCredits = %s, want 30", pos.MaxCredits)
	}
}

func TestGetMyCourses(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addOpenOffering(100, 5, 3)
	env.addOpenOffering(101, 5, 3)

	ctx := context.Background()
	if _, err := env.service.SelectCourse(ctx, 10, 100); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if _, err := env.service.SelectCourse(ctx, 10, 101); err != nil {
		t.Fatalf("SelectCourse: %v", err)
	}
	if err := env.service.DropCourse(ctx, 10, 101); err != nil {
		t.Fatalf("DropCourse: %v", err)
	}

	courses, err := env.service.GetMyCourses(ctx, 10)
	if err != nil {
		t.Fatalf("GetMyCourses: %v", err)
	}
	if len(courses) != 1 || courses[0].OfferingID != 100 {
		t.Fatalf("GetMyCourses = %+v, want only offering 100", courses)
	}
}

func TestGetRoster(t *testing.T) {
	env := newTestEnv(t)
	env.addStudent(10, 1)
	env.addStudent(11, 2)
	env.addOpenOffering(100, 5, 3)
	env.teachers.byUserID[20] = &models.Teacher{ID: 1, UserID: 20}
	env.teachers.byUserID[21] = &models.Teacher{ID: 2, UserID: 21}

	ctx := context.Background()
	for _, userID := range []int64{10, 11} {
		if _, err := env.service.SelectCourse(ctx, userID, 100); err != nil {
			t.Fatalf("SelectCourse: %v", err)
		}
	}

	roster, err := env.service.GetRoster(ctx, 20, 100)
	if err != nil {
		t.Fatalf("GetRoster: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster size = %d, want 2", len(roster))
	}

	if _, err := env.service.GetRoster(ctx, 21, 100); err == nil {
		t.Fatal("GetRoster by another teacher succeeded, want forbidden error")
	}
}

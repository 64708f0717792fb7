package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offering represents a specific offering of a course by a teacher in a given term.
// Capacity is fixed at creation and may only be edited while no active
// enrollment exists. EnrolledCount is the authoritative seat counter and is
// only mutated through atomic reserve/release statements; it never exceeds
// Capacity.
type Offering struct {
	ID            int64          `json:"id" db:"id"`
	CourseID      int64          `json:"courseId" db:"course_id"`
	TeacherID     int64          `json:"teacherId" db:"teacher_id"`
	TermID        int64          `json:"termId" db:"term_id"`
	Section       string         `json:"section" db:"section" example:"A1"`
	Classroom     string         `json:"classroom" db:"classroom" example:"B-204"`
	Capacity      int            `json:"capacity" db:"capacity" example:"40"`
	EnrolledCount int            `json:"enrolledCount" db:"enrolled_count"`
	Status        OfferingStatus `json:"status" db:"status" example:"OPEN"`

	// Selection window. Either side may be open-ended.
	SelectionStart *time.Time `json:"selectionStart,omitempty" db:"selection_start"`
	SelectionEnd   *time.Time `json:"selectionEnd,omitempty" db:"selection_end"`

	// Credits is denormalized from the course when the snapshot is loaded
	// so capacity, window, status and credit weight are read together.
	Credits decimal.Decimal `json:"credits" db:"credits"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
	Term   *Term   `json:"term,omitempty"`
}

// SelectionNotStarted reports whether the selection window has not opened yet.
func (o *Offering) SelectionNotStarted(now time.Time) bool {
	return o.SelectionStart != nil && now.Before(*o.SelectionStart)
}

// SelectionEnded reports whether the selection window has closed.
func (o *Offering) SelectionEnded(now time.Time) bool {
	return o.SelectionEnd != nil && now.After(*o.SelectionEnd)
}

// DropWindowExpired reports whether now is past the selection end plus the
// grace period. Offerings without a selection end never expire for drops.
func (o *Offering) DropWindowExpired(now time.Time, grace time.Duration) bool {
	return o.SelectionEnd != nil && now.After(o.SelectionEnd.Add(grace))
}

package models

import "time"

// Enrollment is one student's relationship to one offering. Records are
// never deleted: a successful select creates a SELECTED record, a drop
// transitions it to DROPPED, and a later re-select creates a new record.
// At most one SELECTED record exists per (student, offering) pair, enforced
// by a partial unique index.
type Enrollment struct {
	ID         int64            `json:"id" db:"id"`
	StudentID  int64            `json:"studentId" db:"student_id"`
	OfferingID int64            `json:"offeringId" db:"offering_id"`
	Status     EnrollmentStatus `json:"status" db:"status" example:"SELECTED"`
	SelectedAt time.Time        `json:"selectedAt" db:"selected_at"`
	DroppedAt  *time.Time       `json:"droppedAt,omitempty" db:"dropped_at"` // Nullable

	// Relations (populated when needed)
	Offering *Offering `json:"offering,omitempty"`
	Student  *Student  `json:"student,omitempty"`
}
